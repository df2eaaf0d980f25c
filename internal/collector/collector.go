package collector

import (
	"context"

	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
)

// Collector defines the interface for collecting repository data from GitHub
type Collector interface {
	// ListRepositories retrieves the first page of an account's repositories
	ListRepositories(ctx context.Context, owner string) ([]*domain.Repository, error)

	// GetTopics retrieves the topic labels of a repository
	GetTopics(ctx context.Context, owner, repo string) ([]string, error)

	// GetReadme retrieves the decoded README of a repository.
	// A repository without a README yields a not found AppError.
	GetReadme(ctx context.Context, owner, repo string) (string, error)

	// GetSocialImage scrapes the og:image of the repository web page.
	// Failures are reported as absent, never as errors.
	GetSocialImage(ctx context.Context, owner, repo string) (string, bool)
}
