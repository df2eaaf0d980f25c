package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
	"github.com/kurihiro0119/portfolio-manifest/internal/manifest"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage/sqlite"
)

type stubCollector struct {
	repos   []*domain.Repository
	listErr error
	readmes map[string]string
}

func (s *stubCollector) ListRepositories(ctx context.Context, owner string) ([]*domain.Repository, error) {
	return s.repos, s.listErr
}

func (s *stubCollector) GetTopics(ctx context.Context, owner, repo string) ([]string, error) {
	return []string{"go"}, nil
}

func (s *stubCollector) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	readme, ok := s.readmes[repo]
	if !ok {
		return "", apperrors.NewNotFoundError("readme of " + repo)
	}
	return readme, nil
}

func (s *stubCollector) GetSocialImage(ctx context.Context, owner, repo string) (string, bool) {
	return "", false
}

func newTestGenerator(c *stubCollector) (*generator, *bytes.Buffer) {
	var out bytes.Buffer
	return &generator{
		collector: c,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		out:       &out,
		progress:  io.Discard,
	}, &out
}

func TestRun_WritesManifestAndSummary(t *testing.T) {
	c := &stubCollector{
		repos: []*domain.Repository{
			{Name: "widget"},
			{Name: "forked", Fork: true},
			{Name: "gadget"},
		},
		readmes: map[string]string{"widget": "# Widget\n![logo](./logo.png)"},
	}
	g, out := newTestGenerator(c)
	path := filepath.Join(t.TempDir(), "projects.json")

	require.NoError(t, g.run(context.Background(), "acme", path))

	projects, err := manifest.Read(path)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "widget", projects[0].Name)
	require.NotNil(t, projects[0].Image)
	assert.Equal(t, "https://raw.githubusercontent.com/acme/widget/main/logo.png", *projects[0].Image)

	assert.Contains(t, out.String(), "Wrote 2 projects to "+path)
	assert.Contains(t, out.String(), "README images: 1, social images: 0, no image: 1")
}

func TestRun_ListingFailureWritesNothing(t *testing.T) {
	c := &stubCollector{listErr: errors.New("connection refused")}
	g, out := newTestGenerator(c)
	path := filepath.Join(t.TempDir(), "projects.json")

	err := g.run(context.Background(), "acme", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list repositories")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	assert.Empty(t, out.String())
}

func TestRun_EmptyAccountWritesEmptyArray(t *testing.T) {
	g, out := newTestGenerator(&stubCollector{})
	path := filepath.Join(t.TempDir(), "projects.json")

	require.NoError(t, g.run(context.Background(), "acme", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
	assert.Equal(t, "Wrote 0 projects to "+path+"\n", out.String())
}

func TestRun_MirrorsIntoStorage(t *testing.T) {
	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	g, _ := newTestGenerator(&stubCollector{repos: []*domain.Repository{{Name: "widget"}}})
	g.store = store
	path := filepath.Join(t.TempDir(), "projects.json")

	require.NoError(t, g.run(context.Background(), "acme", path))

	run, err := store.GetLatestRun(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, 1, run.ProjectCount)
	assert.Equal(t, path, run.OutputPath)

	projects, err := store.GetProjects(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "widget", projects[0].Name)
}

func TestRun_AllForksTerminatesProgressLine(t *testing.T) {
	c := &stubCollector{repos: []*domain.Repository{
		{Name: "upstream-a", Fork: true},
		{Name: "upstream-b", Fork: true},
	}}
	g, out := newTestGenerator(c)
	var progress bytes.Buffer
	g.progress = &progress
	path := filepath.Join(t.TempDir(), "projects.json")

	require.NoError(t, g.run(context.Background(), "acme", path))

	assert.Contains(t, progress.String(), "\rProgress: 2/2 (upstream-b)")
	assert.True(t, strings.HasSuffix(progress.String(), "\n"))
	assert.Equal(t, "Wrote 0 projects to "+path+"\n", out.String())
}
