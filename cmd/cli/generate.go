package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/kurihiro0119/portfolio-manifest/internal/aggregator"
	"github.com/kurihiro0119/portfolio-manifest/internal/collector"
	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
	"github.com/kurihiro0119/portfolio-manifest/internal/enumerator"
	"github.com/kurihiro0119/portfolio-manifest/internal/manifest"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage"
)

// generator runs one manifest generation
type generator struct {
	collector collector.Collector
	store     storage.Storage // nil when mirroring is disabled
	logger    *slog.Logger
	out       io.Writer
	progress  io.Writer
}

func (g *generator) run(ctx context.Context, owner, outPath string) error {
	fmt.Fprintf(g.progress, "Fetching repositories for %s...\n", owner)

	reported := false
	enum := enumerator.New(g.collector,
		enumerator.WithLogger(g.logger),
		enumerator.WithProgress(func(repo string, done, total int) {
			reported = true
			fmt.Fprintf(g.progress, "\rProgress: %d/%d (%s)", done, total, repo)
		}),
	)

	projects, err := enum.Enumerate(ctx, owner)
	if reported {
		fmt.Fprintln(g.progress)
	}
	if err != nil {
		return err
	}

	if err := manifest.Write(outPath, projects); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if g.store != nil {
		g.mirror(ctx, owner, outPath, projects)
	}

	g.printSummary(owner, outPath, projects)
	return nil
}

// mirror copies the generated projects into the storage backend.
// The manifest file is already written, so failures only warn.
func (g *generator) mirror(ctx context.Context, owner, outPath string, projects []*domain.Project) {
	run := &domain.ManifestRun{
		ID:           uuid.New().String(),
		Owner:        owner,
		OutputPath:   outPath,
		ProjectCount: len(projects),
		CreatedAt:    time.Now().UTC(),
	}
	if err := g.store.SaveManifest(ctx, run, projects); err != nil {
		g.logger.Warn("failed to mirror manifest", "owner", owner, "error", err)
		return
	}
	g.logger.Debug("manifest mirrored", "run_id", run.ID, "projects", run.ProjectCount)
}

func (g *generator) printSummary(owner, outPath string, projects []*domain.Project) {
	fmt.Fprintf(g.out, "Wrote %d projects to %s\n", len(projects), outPath)
	if len(projects) == 0 {
		return
	}

	fmt.Fprintln(g.out)
	table := tablewriter.NewWriter(g.out)
	table.SetHeader([]string{"Name", "Topics", "Image Source"})
	for _, p := range projects {
		table.Append([]string{p.Name, strings.Join(p.Topics, ", "), string(p.ImageSource())})
	}
	table.Render()

	stats := aggregator.NewAggregator(nil).Summarize(owner, projects)
	fmt.Fprintf(g.out, "\nREADME images: %d, social images: %d, no image: %d\n",
		stats.ReadmeImages, stats.SocialImages, stats.WithoutImage)
}
