// Package enumerator turns an account's repository listing into manifest
// projects, one repository at a time.
package enumerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kurihiro0119/portfolio-manifest/internal/collector"
	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
	"github.com/kurihiro0119/portfolio-manifest/internal/markdown"
)

// ProgressCallback is called after each listed repository is handled
type ProgressCallback func(repo string, done, total int)

// Enumerator builds projects from the repositories of an account
type Enumerator struct {
	collector  collector.Collector
	logger     *slog.Logger
	onProgress ProgressCallback
}

// Option configures an Enumerator
type Option func(*Enumerator)

// WithLogger sets the logger used for per-repository warnings
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enumerator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress registers a progress callback
func WithProgress(cb ProgressCallback) Option {
	return func(e *Enumerator) {
		e.onProgress = cb
	}
}

// New creates an Enumerator backed by c
func New(c collector.Collector, opts ...Option) *Enumerator {
	e := &Enumerator{
		collector: c,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enumerate lists the repositories of owner and builds one project per
// non-fork repository, in listing order.
//
// Only a failure of the listing call is returned. Anything that goes wrong
// while handling a single repository is logged and that repository is
// skipped or degraded.
func (e *Enumerator) Enumerate(ctx context.Context, owner string) ([]*domain.Project, error) {
	repos, err := e.collector.ListRepositories(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	projects := make([]*domain.Project, 0, len(repos))
	for i, repo := range repos {
		if repo.Fork {
			e.logger.Debug("skipping fork", "repo", repo.Name)
			e.progress(repo.Name, i+1, len(repos))
			continue
		}

		project, err := e.processRepository(ctx, owner, repo)
		if err != nil {
			e.logger.Warn("skipping repository", "repo", repo.Name, "error", err.Error())
		} else {
			projects = append(projects, project)
		}
		e.progress(repo.Name, i+1, len(repos))
	}

	return projects, nil
}

// processRepository builds the project for one repository. Panics are
// turned into errors so that one bad repository cannot abort the batch.
func (e *Enumerator) processRepository(ctx context.Context, owner string, repo *domain.Repository) (project *domain.Project, err error) {
	defer func() {
		if r := recover(); r != nil {
			project = nil
			err = fmt.Errorf("panic while processing %s: %v", repo.Name, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topics, err := e.collector.GetTopics(ctx, owner, repo.Name)
	if err != nil {
		e.logger.Warn("failed to fetch topics", "repo", repo.Name, "error", err.Error())
		topics = nil
	}
	if topics == nil {
		topics = []string{}
	}

	readme := e.fetchReadme(ctx, owner, repo.Name)

	readmeText := markdown.Strip(readme)
	var readmeImage *string
	if img, ok := markdown.LocateImage(readme, owner, repo.Name); ok {
		img = markdown.NormalizeImageURL(img, owner, repo.Name)
		readmeImage = &img
	}

	image := readmeImage
	if image == nil {
		if social, ok := e.collector.GetSocialImage(ctx, owner, repo.Name); ok {
			image = &social
		}
	}

	homepage := repo.GetHomepage()
	if homepage == "" {
		homepage = domain.DefaultHomepage(owner, repo.Name)
	}

	return &domain.Project{
		Name:        repo.Name,
		Title:       repo.Name,
		Description: repo.GetDescription(),
		Homepage:    homepage,
		Topics:      topics,
		ReadmeText:  readmeText,
		ReadmeImage: readmeImage,
		Image:       image,
		URL:         homepage,
	}, nil
}

// fetchReadme returns the README markdown or "" when it is absent.
// A missing README is expected; any other failure is logged.
func (e *Enumerator) fetchReadme(ctx context.Context, owner, repo string) string {
	readme, err := e.collector.GetReadme(ctx, owner, repo)
	if err == nil {
		return readme
	}
	if !apperrors.IsNotFound(err) {
		e.logger.Warn("failed to fetch readme", "repo", repo, "error", err.Error())
	}
	return ""
}

func (e *Enumerator) progress(repo string, done, total int) {
	if e.onProgress != nil {
		e.onProgress(repo, done, total)
	}
}
