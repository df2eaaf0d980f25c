// Package manifest reads and writes the projects JSON document.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
)

// Encode renders projects as a pretty-printed JSON array.
// URLs are written verbatim, without HTML escaping.
func Encode(projects []*domain.Project) ([]byte, error) {
	if projects == nil {
		projects = []*domain.Project{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(projects); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Write writes projects to path, replacing any existing file
func Write(path string, projects []*domain.Project) error {
	data, err := Encode(projects)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// Read parses a manifest previously produced by Write
func Read(path string) ([]*domain.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var projects []*domain.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return projects, nil
}
