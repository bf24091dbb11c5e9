package repositories

import (
	"context"

	"card-classifier-api/internal/models"
)

// Sample location returned by the static repository when nothing else is configured
const (
	SampleLatitude  = 40.7128
	SampleLongitude = -74.0060
)

// StaticInstitutionRepository answers every lookup with the same fixed data
type StaticInstitutionRepository struct {
	lookup *models.InstitutionLookup
}

// NewStaticInstitutionRepository creates a repository that always returns lookup
func NewStaticInstitutionRepository(lookup *models.InstitutionLookup) *StaticInstitutionRepository {
	if lookup == nil {
		lookup = SampleLookup()
	}
	return &StaticInstitutionRepository{lookup: lookup.Clone()}
}

// SampleLookup returns the sample location with an empty institution list
func SampleLookup() *models.InstitutionLookup {
	return &models.InstitutionLookup{
		Location: &models.Location{
			Latitude:  SampleLatitude,
			Longitude: SampleLongitude,
		},
		Institutions: []models.Institution{},
	}
}

// Lookup implements InstitutionRepository.Lookup
func (r *StaticInstitutionRepository) Lookup(ctx context.Context, sourceSystem int) (*models.InstitutionLookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, QueryError("lookup", "institution", "static", err)
	}
	return r.lookup.Clone(), nil
}
