package pgsql

import (
	portsrepo "github.com/ReplyPilot/review_pilot_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	locationRepo := newPgxLocationRepository(dbPool)
	reviewRepo := newPgxReviewRepository(dbPool)
	usageRepo := newPgxUsageRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:     userRepo,
		AccountRepo:  accountRepo,
		LocationRepo: locationRepo,
		ReviewRepo:   reviewRepo,
		UsageRepo:    usageRepo,
	}
}
