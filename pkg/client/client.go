package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
)

// Client is the API client for the manifest server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is returned for non-200 responses
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// GetProjects retrieves every project of an owner
func (c *Client) GetProjects(ctx context.Context, owner string) ([]*domain.Project, error) {
	path := fmt.Sprintf("/api/v1/owners/%s/projects", url.PathEscape(owner))

	var response struct {
		Data []*domain.Project `json:"data"`
	}
	if err := c.get(ctx, path, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetProject retrieves one project
func (c *Client) GetProject(ctx context.Context, owner, name string) (*domain.Project, error) {
	path := fmt.Sprintf("/api/v1/owners/%s/projects/%s", url.PathEscape(owner), url.PathEscape(name))

	var response struct {
		Data *domain.Project `json:"data"`
	}
	if err := c.get(ctx, path, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetStats retrieves manifest statistics for an owner
func (c *Client) GetStats(ctx context.Context, owner string) (*domain.ManifestStats, error) {
	path := fmt.Sprintf("/api/v1/owners/%s/stats", url.PathEscape(owner))

	var response struct {
		Data *domain.ManifestStats `json:"data"`
	}
	if err := c.get(ctx, path, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck(ctx context.Context) error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}

		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
