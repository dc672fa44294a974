package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portsrepo "github.com/ReplyPilot/review_pilot_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUsageRepository struct {
	db *pgxpool.Pool
}

func newPgxUsageRepository(db *pgxpool.Pool) portsrepo.UsageRepositoryFacade {
	return &PgxUsageRepository{db: db}
}

var _ portsrepo.UsageRepositoryFacade = (*PgxUsageRepository)(nil)

func (r *PgxUsageRepository) IncrementUsage(ctx context.Context, userID string, period string) error {
	query := `
        INSERT INTO usage_counters (user_id, period, replies_published)
        VALUES ($1, $2, 1)
        ON CONFLICT (user_id, period) DO UPDATE SET
            replies_published = usage_counters.replies_published + 1;
    `
	if _, err := r.db.Exec(ctx, query, userID, period); err != nil {
		return fmt.Errorf("failed to increment usage for user %s period %s: %w", userID, period, err)
	}
	return nil
}

func (r *PgxUsageRepository) GetUsage(ctx context.Context, userID string, period string) (*domain.UsageCounter, error) {
	query := `
		SELECT user_id, period, replies_published
		FROM usage_counters
		WHERE user_id = $1 AND period = $2;
	`
	counter := domain.UsageCounter{}
	err := r.db.QueryRow(ctx, query, userID, period).Scan(&counter.UserID, &counter.Period, &counter.RepliesPublished)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.UsageCounter{UserID: userID, Period: period}, nil
		}
		return nil, fmt.Errorf("failed to get usage for user %s period %s: %w", userID, period, err)
	}
	return &counter, nil
}
