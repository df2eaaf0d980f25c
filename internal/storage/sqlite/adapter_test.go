package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage"
)

func newTestStorage(t *testing.T) storage.Storage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "manifest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newRun(owner string, count int, at time.Time) *domain.ManifestRun {
	return &domain.ManifestRun{
		ID:           uuid.New().String(),
		Owner:        owner,
		OutputPath:   "projects.json",
		ProjectCount: count,
		CreatedAt:    at,
	}
}

func TestSaveManifest_RoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	img := "https://raw.githubusercontent.com/acme/widget/main/logo.png"
	projects := []*domain.Project{
		{Name: "zeta", Title: "zeta", Homepage: "h", Topics: []string{"go", "cli"}, ReadmeImage: &img, Image: &img, URL: "h"},
		{Name: "alpha", Title: "alpha", Homepage: "h2", Topics: []string{}, URL: "h2"},
	}

	require.NoError(t, store.SaveManifest(ctx, newRun("acme", 2, time.Now()), projects))

	got, err := store.GetProjects(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "zeta", got[0].Name, "manifest order must be kept")
	assert.Equal(t, []string{"go", "cli"}, got[0].Topics)
	require.NotNil(t, got[0].Image)
	assert.Equal(t, img, *got[0].Image)
	assert.Nil(t, got[0].Color)
	assert.Equal(t, "alpha", got[1].Name)
	assert.Empty(t, got[1].Topics)
	assert.Nil(t, got[1].ReadmeImage)

	one, err := store.GetProject(ctx, "acme", "alpha")
	require.NoError(t, err)
	assert.Equal(t, "h2", one.Homepage)
}

func TestSaveManifest_ReplacesPreviousRun(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	first := time.Now().Add(-time.Hour)

	require.NoError(t, store.SaveManifest(ctx, newRun("acme", 1, first), []*domain.Project{{Name: "old", Topics: []string{}}}))
	latest := newRun("acme", 1, time.Now())
	require.NoError(t, store.SaveManifest(ctx, latest, []*domain.Project{{Name: "new", Topics: []string{}}}))

	got, err := store.GetProjects(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Name)

	run, err := store.GetLatestRun(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, latest.ID, run.ID)
}

func TestGetProjects_UnknownOwner(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.GetProjects(ctx, "nobody")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = store.GetProject(ctx, "nobody", "x")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetProjects_EmptyManifest(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveManifest(ctx, newRun("acme", 0, time.Now()), nil))

	got, err := store.GetProjects(ctx, "acme")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
