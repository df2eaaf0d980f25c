package aggregator

import (
	"context"
	"sort"

	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage"
)

// Aggregator defines the interface for reading and summarizing manifests
type Aggregator interface {
	// Summarize computes statistics over a set of projects
	Summarize(owner string, projects []*domain.Project) *domain.ManifestStats

	// GetOwnerStats loads an owner's projects and summarizes them
	GetOwnerStats(ctx context.Context, owner string) (*domain.ManifestStats, error)

	// GetProjects retrieves an owner's projects
	GetProjects(ctx context.Context, owner string) ([]*domain.Project, error)

	// GetProject retrieves one project
	GetProject(ctx context.Context, owner, name string) (*domain.Project, error)
}

// aggregator implements the Aggregator interface
type aggregator struct {
	source storage.ProjectReader
}

// NewAggregator creates a new aggregator
func NewAggregator(source storage.ProjectReader) Aggregator {
	return &aggregator{
		source: source,
	}
}

// Summarize computes statistics over a set of projects.
// Topics are ordered by count, then name.
func (a *aggregator) Summarize(owner string, projects []*domain.Project) *domain.ManifestStats {
	stats := &domain.ManifestStats{
		Owner:         owner,
		TotalProjects: len(projects),
		Topics:        []domain.TopicCount{},
	}

	topicCounts := make(map[string]int)
	for _, p := range projects {
		if p.ReadmeText != "" {
			stats.WithReadme++
		}
		switch p.ImageSource() {
		case domain.ImageSourceReadme:
			stats.ReadmeImages++
		case domain.ImageSourceSocial:
			stats.SocialImages++
		default:
			stats.WithoutImage++
		}
		if p.Homepage != domain.DefaultHomepage(owner, p.Name) {
			stats.CustomHomepage++
		}
		for _, topic := range p.Topics {
			topicCounts[topic]++
		}
	}

	for topic, count := range topicCounts {
		stats.Topics = append(stats.Topics, domain.TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(stats.Topics, func(i, j int) bool {
		if stats.Topics[i].Count != stats.Topics[j].Count {
			return stats.Topics[i].Count > stats.Topics[j].Count
		}
		return stats.Topics[i].Topic < stats.Topics[j].Topic
	})

	return stats
}

// GetOwnerStats loads an owner's projects and summarizes them
func (a *aggregator) GetOwnerStats(ctx context.Context, owner string) (*domain.ManifestStats, error) {
	projects, err := a.source.GetProjects(ctx, owner)
	if err != nil {
		return nil, err
	}
	return a.Summarize(owner, projects), nil
}

// GetProjects retrieves an owner's projects
func (a *aggregator) GetProjects(ctx context.Context, owner string) ([]*domain.Project, error) {
	return a.source.GetProjects(ctx, owner)
}

// GetProject retrieves one project
func (a *aggregator) GetProject(ctx context.Context, owner, name string) (*domain.Project, error) {
	return a.source.GetProject(ctx, owner, name)
}
