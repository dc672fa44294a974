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
)

type PgxAccountRepository struct {
	db *pgxpool.Pool
}

func newPgxAccountRepository(db *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{db: db}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		UserID:       m.UserID,
		ResourceName: m.ResourceName,
		DisplayName:  m.DisplayName,
		Role:         m.Role,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// UpsertAccount inserts the account or, when the user re-connects the same
// provider account, refreshes its display fields. The stored account_id wins
// on conflict so credentials stay attached to the original row.
func (r *PgxAccountRepository) UpsertAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (account_id, user_id, resource_name, display_name, role, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (user_id, resource_name) DO UPDATE SET
            display_name = EXCLUDED.display_name,
            role = EXCLUDED.role,
            last_updated_at = EXCLUDED.last_updated_at,
            last_updated_by = EXCLUDED.last_updated_by
        RETURNING account_id, user_id, resource_name, display_name, role, created_at, created_by, last_updated_at, last_updated_by;
    `
	var m models.Account
	err := r.db.QueryRow(ctx, query,
		account.AccountID,
		account.UserID,
		account.ResourceName,
		account.DisplayName,
		account.Role,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	).Scan(
		&m.AccountID,
		&m.UserID,
		&m.ResourceName,
		&m.DisplayName,
		&m.Role,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}
	d := toDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, user_id, resource_name, display_name, role, created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE account_id = $1;
	`
	var m models.Account
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&m.AccountID,
		&m.UserID,
		&m.ResourceName,
		&m.DisplayName,
		&m.Role,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	d := toDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
        SELECT account_id, user_id, resource_name, display_name, role, created_at, created_by, last_updated_at, last_updated_by
        FROM accounts
        WHERE user_id = $1
        ORDER BY created_at ASC;
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(
			&m.AccountID,
			&m.UserID,
			&m.ResourceName,
			&m.DisplayName,
			&m.Role,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}
	return accounts, nil
}

// SaveCredential atomically replaces the token pair of an account. A
// successful save clears the invalid flag: fresh tokens are trusted until the
// provider says otherwise.
func (r *PgxAccountRepository) SaveCredential(ctx context.Context, cred domain.Credential) error {
	query := `
        INSERT INTO credentials (account_id, access_token, refresh_token, expires_at, invalid, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7, $8)
        ON CONFLICT (account_id) DO UPDATE SET
            access_token = EXCLUDED.access_token,
            refresh_token = CASE WHEN EXCLUDED.refresh_token = '' THEN credentials.refresh_token ELSE EXCLUDED.refresh_token END,
            expires_at = EXCLUDED.expires_at,
            invalid = FALSE,
            last_updated_at = EXCLUDED.last_updated_at,
            last_updated_by = EXCLUDED.last_updated_by;
    `
	_, err := r.db.Exec(ctx, query,
		cred.AccountID,
		cred.AccessToken,
		cred.RefreshToken,
		cred.ExpiresAt,
		cred.CreatedAt,
		cred.CreatedBy,
		cred.LastUpdatedAt,
		cred.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

func (r *PgxAccountRepository) FindCredentialByAccountID(ctx context.Context, accountID string) (*domain.Credential, error) {
	query := `
		SELECT account_id, access_token, refresh_token, expires_at, invalid, created_at, created_by, last_updated_at, last_updated_by
		FROM credentials
		WHERE account_id = $1;
	`
	var m models.Credential
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&m.AccountID,
		&m.AccessToken,
		&m.RefreshToken,
		&m.ExpiresAt,
		&m.Invalid,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find credential for account %s: %w", accountID, err)
	}
	d := domain.Credential{
		AccountID:    m.AccountID,
		AccessToken:  m.AccessToken,
		RefreshToken: m.RefreshToken,
		ExpiresAt:    m.ExpiresAt,
		Invalid:      m.Invalid,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	return &d, nil
}

func (r *PgxAccountRepository) MarkCredentialInvalid(ctx context.Context, accountID string) error {
	query := `
        UPDATE credentials
        SET invalid = TRUE, last_updated_at = $1
        WHERE account_id = $2;
    `
	cmdTag, err := r.db.Exec(ctx, query, time.Now(), accountID)
	if err != nil {
		return fmt.Errorf("failed to mark credential invalid: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("credential not found for account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return nil
}
