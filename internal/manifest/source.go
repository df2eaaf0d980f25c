package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
)

// FileSource serves the projects of a manifest file. The file has no owner
// field, so it answers for exactly one owner.
type FileSource struct {
	path   string
	owner  string
	logger *slog.Logger

	mu       sync.RWMutex
	projects []*domain.Project
}

// NewFileSource loads path and returns a source answering for owner
func NewFileSource(path, owner string, logger *slog.Logger) (*FileSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &FileSource{path: path, owner: owner, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the manifest file
func (s *FileSource) Reload() error {
	projects, err := Read(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

// GetProjects returns the projects of owner
func (s *FileSource) GetProjects(ctx context.Context, owner string) ([]*domain.Project, error) {
	if owner != s.owner {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("manifest for %s", owner))
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Project, len(s.projects))
	copy(out, s.projects)
	return out, nil
}

// GetProject returns a single project by repository name
func (s *FileSource) GetProject(ctx context.Context, owner, name string) (*domain.Project, error) {
	projects, err := s.GetProjects(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("project %s/%s", owner, name))
}

// Watch reloads the manifest whenever the file is rewritten, until ctx is
// done. The parent directory is watched because writers may replace the file.
func (s *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.path, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("failed to reload manifest", "path", s.path, "error", err.Error())
				continue
			}
			s.logger.Info("manifest reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("manifest watcher error", "error", err.Error())
		}
	}
}
