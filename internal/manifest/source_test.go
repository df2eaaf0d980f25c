package manifest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
)

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, Write(path, sampleProjects()))

	src, err := NewFileSource(path, "acme", nil)
	require.NoError(t, err)
	ctx := context.Background()

	projects, err := src.GetProjects(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	p, err := src.GetProject(ctx, "acme", "bare")
	require.NoError(t, err)
	assert.Equal(t, "bare", p.Name)

	_, err = src.GetProject(ctx, "acme", "missing")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = src.GetProjects(ctx, "someone-else")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFileSource_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, Write(path, sampleProjects()))

	src, err := NewFileSource(path, "acme", nil)
	require.NoError(t, err)

	require.NoError(t, Write(path, sampleProjects()[:1]))
	require.NoError(t, src.Reload())

	projects, err := src.GetProjects(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestNewFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json"), "acme", nil)
	assert.Error(t, err)
}
