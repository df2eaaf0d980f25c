package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/portfolio-manifest/internal/config"
	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
	"github.com/kurihiro0119/portfolio-manifest/internal/manifest"
)

func TestNewSource_FileServesConfiguredOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, manifest.Write(path, []*domain.Project{{Name: "widget", Topics: []string{}}}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{StorageType: "none", ManifestPath: path, ManifestOwner: "acme"}
	source, closeSource, err := newSource(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer closeSource()

	projects, err := source.GetProjects(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "widget", projects[0].Name)

	_, err = source.GetProjects(ctx, config.DefaultOwner)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestNewSource_SQLite(t *testing.T) {
	cfg := &config.Config{StorageType: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "manifest.db")}

	source, closeSource, err := newSource(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer closeSource()

	_, err = source.GetProjects(context.Background(), "acme")
	assert.True(t, apperrors.IsNotFound(err))
}
