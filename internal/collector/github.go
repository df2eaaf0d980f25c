package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v55/github"
	"golang.org/x/net/html"
	"golang.org/x/oauth2"

	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
)

const (
	// perPage is the size of the single repository page that is listed
	perPage = 100

	defaultWebURL   = "https://github.com"
	defaultMinDelay = 100 * time.Millisecond
	userAgent       = "portfolio-manifest"
)

// Options configures a GitHub collector
type Options struct {
	// Token is sent as "Authorization: token <Token>" on API requests when set
	Token string

	// APIURL overrides the REST API base URL
	APIURL string

	// WebURL is the base of repository web pages scraped for og:image
	WebURL string

	// MinDelay is the minimum pause between API calls; negative disables pacing
	MinDelay time.Duration

	Logger *slog.Logger
}

// githubCollector implements Collector using GitHub API
type githubCollector struct {
	client      *github.Client
	web         *http.Client
	webURL      string
	rateLimiter RateLimiter
	logger      *slog.Logger
}

// NewGitHubCollector creates a new GitHub collector.
// The HTTP clients are built once here and never modified afterwards.
func NewGitHubCollector(opts Options) (Collector, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: opts.Token, TokenType: "token"},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	client.UserAgent = userAgent
	if opts.APIURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", opts.APIURL, err)
		}
		client.BaseURL = baseURL
	}

	webURL := strings.TrimSuffix(opts.WebURL, "/")
	if webURL == "" {
		webURL = defaultWebURL
	}

	minDelay := opts.MinDelay
	switch {
	case minDelay == 0:
		minDelay = defaultMinDelay
	case minDelay < 0:
		minDelay = 0
	}

	return &githubCollector{
		client:      client,
		web:         &http.Client{},
		webURL:      webURL,
		rateLimiter: NewRateLimiter(minDelay, logger),
		logger:      logger,
	}, nil
}

// ListRepositories retrieves the first page of repositories owned by a user.
// Further pages are never requested.
func (c *githubCollector) ListRepositories(ctx context.Context, owner string) ([]*domain.Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := &github.RepositoryListOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	repos, resp, err := c.client.Repositories.List(ctx, owner, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, classifyError(err, resp, fmt.Sprintf("repositories of %s", owner))
	}

	result := make([]*domain.Repository, 0, len(repos))
	for _, repo := range repos {
		result = append(result, &domain.Repository{
			Owner:       owner,
			Name:        repo.GetName(),
			FullName:    repo.GetFullName(),
			Description: repo.Description,
			Homepage:    repo.Homepage,
			HTMLURL:     repo.GetHTMLURL(),
			Fork:        repo.GetFork(),
		})
	}

	return result, nil
}

// GetTopics retrieves the topic labels of a repository
func (c *githubCollector) GetTopics(ctx context.Context, owner, repo string) ([]string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	topics, resp, err := c.client.Repositories.ListAllTopics(ctx, owner, repo)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, classifyError(err, resp, fmt.Sprintf("topics of %s/%s", owner, repo))
	}
	if topics == nil {
		topics = []string{}
	}
	return topics, nil
}

// GetReadme retrieves and decodes the README of a repository
func (c *githubCollector) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	readme, resp, err := c.client.Repositories.GetReadme(ctx, owner, repo, nil)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", classifyError(err, resp, fmt.Sprintf("readme of %s/%s", owner, repo))
	}

	content, err := readme.GetContent()
	if err != nil {
		return "", apperrors.NewInternalError(fmt.Sprintf("failed to decode readme of %s/%s", owner, repo), err)
	}
	return content, nil
}

// GetSocialImage fetches the repository web page and returns the content of
// its first og:image meta tag
func (c *githubCollector) GetSocialImage(ctx context.Context, owner, repo string) (string, bool) {
	pageURL := fmt.Sprintf("%s/%s/%s", c.webURL, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.web.Do(req)
	if err != nil {
		c.logger.Debug("og:image fetch failed", "url", pageURL, "error", err)
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("og:image fetch returned non-2xx", "url", pageURL, "status", resp.StatusCode)
		return "", false
	}

	return findOGImage(html.NewTokenizer(resp.Body))
}

// findOGImage scans tokens for the first <meta property="og:image"> tag
func findOGImage(z *html.Tokenizer) (string, bool) {
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "meta" || !hasAttr {
				continue
			}
			var property, content string
			for more := hasAttr; more; {
				var key, val []byte
				key, val, more = z.TagAttr()
				switch string(key) {
				case "property":
					property = string(val)
				case "content":
					content = string(val)
				}
			}
			if property == "og:image" {
				return content, content != ""
			}
		}
	}
}

// classifyError maps a go-github error to an AppError
func classifyError(err error, resp *github.Response, resource string) error {
	message := fmt.Sprintf("failed to fetch %s", resource)

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return apperrors.NewRateLimitedError(message, err)
	}

	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			notFound := apperrors.NewNotFoundError(resource)
			notFound.Err = err
			return notFound
		case http.StatusUnauthorized:
			return apperrors.NewUnauthorizedError(message, err)
		case http.StatusForbidden:
			return apperrors.NewForbiddenError(message, err)
		}
	}

	return apperrors.NewInternalError(message, err)
}

// updateRateLimitFromResponse updates the rate limiter from API response
func (c *githubCollector) updateRateLimitFromResponse(resp *github.Response) {
	if resp != nil && resp.Rate.Limit > 0 {
		c.rateLimiter.UpdateLimit(resp.Rate.Remaining, resp.Rate.Reset.Time)
	}
}
