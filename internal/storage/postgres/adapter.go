package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/kurihiro0119/portfolio-manifest/internal/domain"
	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage"
)

// postgresStorage implements the Storage interface for PostgreSQL
type postgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage creates a new PostgreSQL storage instance
func NewPostgresStorage(connStr string) (storage.Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &postgresStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *postgresStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS manifest_runs (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		output_path TEXT NOT NULL,
		project_count INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_manifest_runs_owner_created ON manifest_runs(owner, created_at);

	CREATE TABLE IF NOT EXISTS projects (
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL,
		run_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		homepage TEXT NOT NULL,
		topics JSONB NOT NULL,
		readme_text TEXT NOT NULL,
		readme_image TEXT,
		image TEXT,
		color TEXT,
		url TEXT NOT NULL,
		PRIMARY KEY (owner, name)
	);

	CREATE INDEX IF NOT EXISTS idx_projects_owner_position ON projects(owner, position);
	CREATE INDEX IF NOT EXISTS idx_projects_topics ON projects USING GIN (topics);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate postgres schema: %w", err)
	}
	return nil
}

// SaveManifest replaces an owner's projects in a single transaction
func (s *postgresStorage) SaveManifest(ctx context.Context, run *domain.ManifestRun, projects []*domain.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE owner = $1`, run.Owner); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO projects (owner, name, position, run_id, title, description, homepage, topics, readme_text, readme_image, image, color, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range projects {
		topicsJSON, err := json.Marshal(p.Topics)
		if err != nil {
			return err
		}

		_, err = stmt.ExecContext(ctx,
			run.Owner,
			p.Name,
			i,
			run.ID,
			p.Title,
			p.Description,
			p.Homepage,
			string(topicsJSON),
			p.ReadmeText,
			toNullString(p.ReadmeImage),
			toNullString(p.Image),
			toNullString(p.Color),
			p.URL,
		)
		if err != nil {
			return fmt.Errorf("failed to save project %s: %w", p.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO manifest_runs (id, owner, output_path, project_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, run.ID, run.Owner, run.OutputPath, run.ProjectCount, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save manifest run: %w", err)
	}

	return tx.Commit()
}

// GetLatestRun returns the most recent run for an owner
func (s *postgresStorage) GetLatestRun(ctx context.Context, owner string) (*domain.ManifestRun, error) {
	var run domain.ManifestRun
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner, output_path, project_count, created_at
		FROM manifest_runs
		WHERE owner = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, owner).Scan(&run.ID, &run.Owner, &run.OutputPath, &run.ProjectCount, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("manifest for %s", owner))
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetProjects returns an owner's projects in manifest order
func (s *postgresStorage) GetProjects(ctx context.Context, owner string) ([]*domain.Project, error) {
	if _, err := s.GetLatestRun(ctx, owner); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, title, description, homepage, topics, readme_text, readme_image, image, color, url
		FROM projects
		WHERE owner = $1
		ORDER BY position
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns one project by repository name
func (s *postgresStorage) GetProject(ctx context.Context, owner, name string) (*domain.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, title, description, homepage, topics, readme_text, readme_image, image, color, url
		FROM projects
		WHERE owner = $1 AND name = $2
	`, owner, name)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("project %s/%s", owner, name))
	}
	return p, err
}

// Close closes the database connection
func (s *postgresStorage) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*domain.Project, error) {
	var p domain.Project
	var topicsJSON []byte
	var readmeImage, image, color sql.NullString

	if err := row.Scan(&p.Name, &p.Title, &p.Description, &p.Homepage, &topicsJSON,
		&p.ReadmeText, &readmeImage, &image, &color, &p.URL); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(topicsJSON, &p.Topics); err != nil {
		return nil, fmt.Errorf("failed to decode topics of %s: %w", p.Name, err)
	}
	if p.Topics == nil {
		p.Topics = []string{}
	}
	p.ReadmeImage = fromNullString(readmeImage)
	p.Image = fromNullString(image)
	p.Color = fromNullString(color)
	return &p, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
