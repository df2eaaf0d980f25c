package domain

import "time"

// ManifestRun records one generation of an owner's manifest in the mirror store
type ManifestRun struct {
	ID           string
	Owner        string
	OutputPath   string
	ProjectCount int
	CreatedAt    time.Time
}
