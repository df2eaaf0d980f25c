package storage

import (
	"context"

	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
)

// ProjectReader is the read side shared by the database stores and the
// manifest file source
type ProjectReader interface {
	// GetProjects returns an owner's projects in manifest order
	GetProjects(ctx context.Context, owner string) ([]*domain.Project, error)

	// GetProject returns one project by repository name
	GetProject(ctx context.Context, owner, name string) (*domain.Project, error)
}

// Storage is the abstract interface for the manifest mirror store
type Storage interface {
	ProjectReader

	// SaveManifest replaces the stored projects of run.Owner with projects
	// and records the run
	SaveManifest(ctx context.Context, run *domain.ManifestRun, projects []*domain.Project) error

	// GetLatestRun returns the most recent run for an owner
	GetLatestRun(ctx context.Context, owner string) (*domain.ManifestRun, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
