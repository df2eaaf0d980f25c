package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/api/v1/owners/acme/projects", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"name":"widget","topics":["go"],"image":null}]}`))
	})
	mux.HandleFunc("/api/v1/owners/acme/projects/widget", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"name":"widget","homepage":"https://widget.dev"}}`))
	})
	mux.HandleFunc("/api/v1/owners/acme/projects/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"project acme/missing not found"}}`))
	})
	mux.HandleFunc("/api/v1/owners/acme/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"owner":"acme","total_projects":3,"topics":[{"topic":"go","count":2}]}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewClient(server.URL + "/")
}

func TestClient(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, c.HealthCheck(ctx))

	projects, err := c.GetProjects(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "widget", projects[0].Name)
	assert.Nil(t, projects[0].Image)

	project, err := c.GetProject(ctx, "acme", "widget")
	require.NoError(t, err)
	assert.Equal(t, "https://widget.dev", project.Homepage)

	stats, err := c.GetStats(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProjects)
	assert.Equal(t, "go", stats.Topics[0].Topic)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	c := newTestServer(t)

	_, err := c.GetProject(context.Background(), "acme", "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "project acme/missing not found", apiErr.Message)
}
