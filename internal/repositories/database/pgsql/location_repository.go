package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portsrepo "github.com/ReplyPilot/review_pilot_app/internal/core/ports/repositories"
	"github.com/ReplyPilot/review_pilot_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLocationRepository struct {
	db *pgxpool.Pool
}

func newPgxLocationRepository(db *pgxpool.Pool) portsrepo.LocationRepositoryFacade {
	return &PgxLocationRepository{db: db}
}

var _ portsrepo.LocationRepositoryFacade = (*PgxLocationRepository)(nil)

func toDomainLocation(m models.Location) domain.Location {
	return domain.Location{
		LocationID:   m.LocationID,
		AccountID:    m.AccountID,
		ResourceName: m.ResourceName,
		Name:         m.Name,
		Address:      m.Address,
		Category:     m.Category,
		IsActive:     m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// UpsertLocation persists a listing keyed by (account_id, resource_name).
// Re-syncing updates the display fields and reactivates the row; review
// history is never touched from here.
func (r *PgxLocationRepository) UpsertLocation(ctx context.Context, location domain.Location) (*domain.Location, error) {
	query := `
        INSERT INTO locations (location_id, account_id, resource_name, name, address, category, is_active, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8, $9, $10)
        ON CONFLICT (account_id, resource_name) DO UPDATE SET
            name = EXCLUDED.name,
            address = EXCLUDED.address,
            category = EXCLUDED.category,
            is_active = TRUE,
            last_updated_at = EXCLUDED.last_updated_at,
            last_updated_by = EXCLUDED.last_updated_by
        RETURNING location_id, account_id, resource_name, name, address, category, is_active, created_at, created_by, last_updated_at, last_updated_by;
    `
	var m models.Location
	err := r.db.QueryRow(ctx, query,
		location.LocationID,
		location.AccountID,
		location.ResourceName,
		location.Name,
		location.Address,
		location.Category,
		location.CreatedAt,
		location.CreatedBy,
		location.LastUpdatedAt,
		location.LastUpdatedBy,
	).Scan(
		&m.LocationID,
		&m.AccountID,
		&m.ResourceName,
		&m.Name,
		&m.Address,
		&m.Category,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert location: %w", err)
	}
	d := toDomainLocation(m)
	return &d, nil
}

func (r *PgxLocationRepository) FindLocationByID(ctx context.Context, locationID string) (*domain.Location, error) {
	query := `
		SELECT location_id, account_id, resource_name, name, address, category, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM locations
		WHERE location_id = $1;
	`
	var m models.Location
	err := r.db.QueryRow(ctx, query, locationID).Scan(
		&m.LocationID,
		&m.AccountID,
		&m.ResourceName,
		&m.Name,
		&m.Address,
		&m.Category,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find location by ID %s: %w", locationID, err)
	}
	d := toDomainLocation(m)
	return &d, nil
}

func (r *PgxLocationRepository) ListLocationsByUser(ctx context.Context, userID string) ([]domain.Location, error) {
	query := `
        SELECT l.location_id, l.account_id, l.resource_name, l.name, l.address, l.category, l.is_active, l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
        FROM locations l
        JOIN accounts a ON a.account_id = l.account_id
        WHERE a.user_id = $1 AND l.is_active = TRUE
        ORDER BY l.name ASC;
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	locations := []domain.Location{}
	for rows.Next() {
		var m models.Location
		if err := rows.Scan(
			&m.LocationID,
			&m.AccountID,
			&m.ResourceName,
			&m.Name,
			&m.Address,
			&m.Category,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, toDomainLocation(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating location rows: %w", rows.Err())
	}
	return locations, nil
}

// DeactivateLocation soft-deletes: the row stays so review history survives.
func (r *PgxLocationRepository) DeactivateLocation(ctx context.Context, locationID string, updatedBy string) error {
	query := `
        UPDATE locations
        SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
        WHERE location_id = $3 AND is_active = TRUE;
    `
	cmdTag, err := r.db.Exec(ctx, query, time.Now(), updatedBy, locationID)
	if err != nil {
		return fmt.Errorf("failed to deactivate location: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("location not found or already inactive: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxLocationRepository) GetLocationStats(ctx context.Context, locationID string) (*domain.LocationStats, error) {
	query := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE replied),
               COALESCE(ROUND(AVG(rating) FILTER (WHERE rating > 0), 2), 0)
        FROM reviews
        WHERE location_id = $1;
    `
	stats := domain.LocationStats{LocationID: locationID}
	var avg decimal.Decimal
	err := r.db.QueryRow(ctx, query, locationID).Scan(&stats.ReviewCount, &stats.RepliedCount, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute location stats: %w", err)
	}
	stats.AverageRating = avg
	return &stats, nil
}
