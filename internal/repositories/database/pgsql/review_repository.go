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
	"github.com/ReplyPilot/review_pilot_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultReviewPageSize = 50

type PgxReviewRepository struct {
	BaseRepository
}

func newPgxReviewRepository(db *pgxpool.Pool) portsrepo.ReviewRepositoryFacade {
	return &PgxReviewRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ReviewRepositoryFacade = (*PgxReviewRepository)(nil)

func toDomainReview(m models.Review) domain.Review {
	d := domain.Review{
		ReviewID:     m.ReviewID,
		LocationID:   m.LocationID,
		ExternalID:   m.ExternalID,
		Author:       m.Author,
		Rating:       m.Rating,
		Comment:      m.Comment,
		ReviewDate:   m.ReviewDate,
		Replied:      m.Replied,
		ReplyContent: m.ReplyContent,
		RepliedAt:    m.RepliedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.ReplySource != nil {
		src := domain.ReplySource(*m.ReplySource)
		d.ReplySource = &src
	}
	return d
}

const reviewColumns = `review_id, location_id, external_id, author, rating, comment, review_date, replied, reply_content, reply_source, replied_at, created_at, created_by, last_updated_at, last_updated_by`

func scanReview(row pgx.Row) (models.Review, error) {
	var m models.Review
	err := row.Scan(
		&m.ReviewID,
		&m.LocationID,
		&m.ExternalID,
		&m.Author,
		&m.Rating,
		&m.Comment,
		&m.ReviewDate,
		&m.Replied,
		&m.ReplyContent,
		&m.ReplySource,
		&m.RepliedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxReviewRepository) FindReviewByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE review_id = $1;
	`
	m, err := scanReview(r.Pool.QueryRow(ctx, query, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find review by ID %s: %w", reviewID, err)
	}
	d := toDomainReview(m)
	return &d, nil
}

// UpsertReviews writes one location's batch inside a single transaction.
//
// The conflict target is (location_id, external_id). A conflicting row is only
// touched when the incoming record carries a reply and the stored row does
// not: then the reply fields are merged and everything else stays as first
// ingested. The conditional DO UPDATE means untouched conflicts return no row,
// which is how skips are counted; for returned rows (xmax = 0) distinguishes a
// fresh insert from a merge.
func (r *PgxReviewRepository) UpsertReviews(ctx context.Context, locationID string, reviews []domain.Review) (domain.UpsertCounts, error) {
	counts := domain.UpsertCounts{}
	if len(reviews) == 0 {
		return counts, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return counts, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
        INSERT INTO reviews (review_id, location_id, external_id, author, rating, comment, review_date, replied, reply_content, reply_source, replied_at, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (location_id, external_id) DO UPDATE SET
            replied = TRUE,
            reply_content = EXCLUDED.reply_content,
            reply_source = EXCLUDED.reply_source,
            replied_at = EXCLUDED.replied_at,
            last_updated_at = EXCLUDED.last_updated_at,
            last_updated_by = EXCLUDED.last_updated_by
        WHERE reviews.replied = FALSE AND EXCLUDED.replied = TRUE
        RETURNING (xmax = 0) AS inserted;
    `
	for _, review := range reviews {
		var replySource *string
		if review.ReplySource != nil {
			s := string(*review.ReplySource)
			replySource = &s
		}
		var inserted bool
		err := tx.QueryRow(ctx, query,
			review.ReviewID,
			locationID,
			review.ExternalID,
			review.Author,
			review.Rating,
			review.Comment,
			review.ReviewDate,
			review.Replied,
			review.ReplyContent,
			replySource,
			review.RepliedAt,
			review.CreatedAt,
			review.CreatedBy,
			review.LastUpdatedAt,
			review.LastUpdatedBy,
		).Scan(&inserted)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				counts.Skipped++
				continue
			}
			return domain.UpsertCounts{}, fmt.Errorf("failed to upsert review %s: %w", review.ExternalID, err)
		}
		if inserted {
			counts.New++
		} else {
			counts.Updated++
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return domain.UpsertCounts{}, err
	}
	return counts, nil
}

// MarkReplied is guarded by replied = FALSE so a review can only transition
// once. Zero rows affected on an existing review means it was already replied.
func (r *PgxReviewRepository) MarkReplied(ctx context.Context, reviewID string, content string, source domain.ReplySource) error {
	query := `
        UPDATE reviews
        SET replied = TRUE,
            reply_content = $1,
            reply_source = $2,
            replied_at = $3,
            last_updated_at = $3
        WHERE review_id = $4 AND replied = FALSE;
    `
	now := time.Now()
	cmdTag, err := r.Pool.Exec(ctx, query, content, string(source), now, reviewID)
	if err != nil {
		return fmt.Errorf("failed to mark review replied: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindReviewByID(ctx, reviewID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("review %s already has a reply: %w", reviewID, apperrors.ErrDuplicate)
	}
	return nil
}

// ListReviews pages newest-first with a (review_date, review_id) keyset
// cursor, scoped to the requesting user's active locations.
func (r *PgxReviewRepository) ListReviews(ctx context.Context, userID string, filter domain.ReviewFilter) ([]domain.Review, string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultReviewPageSize
	}

	query := `
        SELECT r.review_id, r.location_id, r.external_id, r.author, r.rating, r.comment, r.review_date, r.replied, r.reply_content, r.reply_source, r.replied_at, r.created_at, r.created_by, r.last_updated_at, r.last_updated_by
        FROM reviews r
        JOIN locations l ON l.location_id = r.location_id
        JOIN accounts a ON a.account_id = l.account_id
        WHERE a.user_id = $1 AND l.is_active = TRUE
    `
	args := []any{userID}

	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		query += fmt.Sprintf(" AND r.location_id = $%d", len(args))
	}
	if filter.Replied != nil {
		args = append(args, *filter.Replied)
		query += fmt.Sprintf(" AND r.replied = $%d", len(args))
	}
	if filter.MinRating > 0 {
		args = append(args, filter.MinRating)
		query += fmt.Sprintf(" AND r.rating >= $%d", len(args))
	}
	if filter.PageToken != "" {
		cursorDate, cursorID, err := pagination.DecodeReviewCursor(filter.PageToken)
		if err != nil {
			return nil, "", fmt.Errorf("invalid page token: %w", apperrors.ErrValidation)
		}
		args = append(args, cursorDate, cursorID)
		query += fmt.Sprintf(" AND (r.review_date, r.review_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY r.review_date DESC, r.review_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		m, err := scanReview(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, toDomainReview(m))
	}
	if rows.Err() != nil {
		return nil, "", fmt.Errorf("error iterating review rows: %w", rows.Err())
	}

	nextToken := ""
	if len(reviews) > limit {
		reviews = reviews[:limit]
		last := reviews[len(reviews)-1]
		nextToken = pagination.EncodeReviewCursor(last.ReviewDate, last.ReviewID)
	}
	return reviews, nextToken, nil
}
