package services

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portsrepo "github.com/ReplyPilot/review_pilot_app/internal/core/ports/repositories"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
)

type locationService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	locationRepo portsrepo.LocationRepositoryFacade
}

// NewLocationService creates the location read and lifecycle service.
func NewLocationService(
	accountRepo portsrepo.AccountRepositoryFacade,
	locationRepo portsrepo.LocationRepositoryFacade,
) portssvc.LocationSvcFacade {
	return &locationService{
		accountRepo:  accountRepo,
		locationRepo: locationRepo,
	}
}

var _ portssvc.LocationSvcFacade = (*locationService)(nil)

func (s *locationService) ListLocations(ctx context.Context, userID string) ([]domain.Location, error) {
	return s.locationRepo.ListLocationsByUser(ctx, userID)
}

func (s *locationService) DeactivateLocation(ctx context.Context, userID string, locationID string) error {
	if _, err := s.loadOwnedLocation(ctx, userID, locationID); err != nil {
		return err
	}
	if err := s.locationRepo.DeactivateLocation(ctx, locationID, userID); err != nil {
		return err
	}
	s.LogInfo(ctx, "location deactivated", "location_id", locationID)
	return nil
}

func (s *locationService) GetLocationStats(ctx context.Context, userID string, locationID string) (*domain.LocationStats, error) {
	if _, err := s.loadOwnedLocation(ctx, userID, locationID); err != nil {
		return nil, err
	}
	return s.locationRepo.GetLocationStats(ctx, locationID)
}

func (s *locationService) loadOwnedLocation(ctx context.Context, userID string, locationID string) (*domain.Location, error) {
	location, err := s.locationRepo.FindLocationByID(ctx, locationID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("location not found")
	}
	account, err := s.accountRepo.FindAccountByID(ctx, location.AccountID)
	if err != nil || account.UserID != userID {
		return nil, apperrors.NewNotFoundError("location not found")
	}
	return location, nil
}
