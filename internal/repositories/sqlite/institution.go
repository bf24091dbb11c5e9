package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"card-classifier-api/internal/models"
	"card-classifier-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// InstitutionRepository implements repositories.InstitutionRepository for SQLite
type InstitutionRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewInstitutionRepository creates a new SQLite institution repository
func NewInstitutionRepository(db *sql.DB, logger *logrus.Logger) *InstitutionRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &InstitutionRepository{
		db:     db,
		logger: logger,
	}
}

// Site is the location registered for a source system
type Site struct {
	SourceSystem int     `json:"source_system"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// SeedInstitution is an institution row. A nil SourceSystem makes the
// institution visible to every source system.
type SeedInstitution struct {
	models.Institution
	SourceSystem *int `json:"source_system"`
}

// SeedData is the document accepted by Seed
type SeedData struct {
	Sites        []Site            `json:"sites"`
	Institutions []SeedInstitution `json:"institutions"`
}

// Lookup implements repositories.InstitutionRepository
func (r *InstitutionRepository) Lookup(ctx context.Context, sourceSystem int) (*models.InstitutionLookup, error) {
	id := strconv.Itoa(sourceSystem)
	lookup := &models.InstitutionLookup{Institutions: []models.Institution{}}

	start := time.Now()
	var loc models.Location
	err := r.db.QueryRowContext(ctx,
		`SELECT latitude, longitude FROM sites WHERE source_system = ?`, sourceSystem,
	).Scan(&loc.Latitude, &loc.Longitude)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		r.logQuery("lookup_site", sourceSystem, time.Since(start), err)
		return nil, repositories.QueryError("lookup", "site", id, err)
	default:
		lookup.Location = &loc
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(address, ''), latitude, longitude
		FROM institutions
		WHERE source_system = ? OR source_system IS NULL
		ORDER BY name, id`, sourceSystem)
	if err != nil {
		r.logQuery("lookup_institutions", sourceSystem, time.Since(start), err)
		return nil, repositories.QueryError("lookup", "institution", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var inst models.Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Address, &inst.Latitude, &inst.Longitude); err != nil {
			return nil, repositories.QueryError("lookup", "institution", id, err)
		}
		lookup.Institutions = append(lookup.Institutions, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.QueryError("lookup", "institution", id, err)
	}

	r.logQuery("lookup", sourceSystem, time.Since(start), nil)
	return lookup, nil
}

// Seed upserts sites and institutions in a single transaction
func (r *InstitutionRepository) Seed(ctx context.Context, data *SeedData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repositories.NewRepositoryError("seed", "institution", "", err)
	}
	defer tx.Rollback()

	for _, site := range data.Sites {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sites (source_system, latitude, longitude) VALUES (?, ?, ?)
			ON CONFLICT(source_system) DO UPDATE SET latitude = excluded.latitude, longitude = excluded.longitude`,
			site.SourceSystem, site.Latitude, site.Longitude)
		if err != nil {
			return repositories.NewRepositoryError("seed", "site", strconv.Itoa(site.SourceSystem), err)
		}
	}

	for _, inst := range data.Institutions {
		var address sql.NullString
		if inst.Address != "" {
			address = sql.NullString{String: inst.Address, Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO institutions (id, source_system, name, address, latitude, longitude) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				source_system = excluded.source_system,
				name = excluded.name,
				address = excluded.address,
				latitude = excluded.latitude,
				longitude = excluded.longitude`,
			inst.ID, inst.SourceSystem, inst.Name, address, inst.Latitude, inst.Longitude)
		if err != nil {
			return repositories.NewRepositoryError("seed", "institution", inst.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return repositories.NewRepositoryError("seed", "institution", "", err)
	}

	r.logger.WithFields(logrus.Fields{
		"sites":        len(data.Sites),
		"institutions": len(data.Institutions),
	}).Info("Institution data seeded")
	return nil
}

// logQuery logs a query with its execution time
func (r *InstitutionRepository) logQuery(operation string, sourceSystem int, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation":     operation,
		"source_system": sourceSystem,
		"duration":      duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}
