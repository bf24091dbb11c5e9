package repositories

import (
	"context"

	"card-classifier-api/internal/models"
)

// InstitutionRepository supplies the institutions and location shown on json cards
type InstitutionRepository interface {
	// Lookup returns the location and institutions for a source system.
	// An unknown source system is not an error: it yields an empty lookup.
	Lookup(ctx context.Context, sourceSystem int) (*models.InstitutionLookup, error)
}

// RepositoryContainer holds all repository instances
type RepositoryContainer struct {
	InstitutionRepo InstitutionRepository
}

// Validate validates that all repositories are properly initialized
func (rc *RepositoryContainer) Validate() error {
	if rc.InstitutionRepo == nil {
		return NewRepositoryError("validate", "container", "", ErrUnsupported)
	}
	return nil
}
