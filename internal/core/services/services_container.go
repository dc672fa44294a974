package services

import (
	portsrepo "github.com/ReplyPilot/review_pilot_app/internal/core/ports/repositories"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
	"github.com/ReplyPilot/review_pilot_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	provider portssvc.ReviewProviderSvc,
	generator portssvc.ReplyGeneratorSvc,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The vault is created first since the coordinators depend on it.
	container.Vault = NewTokenVaultService(cfg, repos.AccountRepo)

	container.Connect = NewConnectService(cfg, repos.UserRepo, repos.AccountRepo, provider)
	container.Sync = NewSyncService(repos.AccountRepo, repos.LocationRepo, repos.ReviewRepo, provider, container.Vault)
	container.Publish = NewPublishService(repos.AccountRepo, repos.LocationRepo, repos.ReviewRepo, repos.UsageRepo, provider, container.Vault)
	container.Review = NewReviewService(repos.AccountRepo, repos.LocationRepo, repos.ReviewRepo, generator)
	container.Location = NewLocationService(repos.AccountRepo, repos.LocationRepo)

	return container
}
