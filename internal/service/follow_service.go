package service

import (
	"context"

	"vzsocial/internal/cache"
	"vzsocial/internal/models"
	"vzsocial/internal/repository"
)

type FollowService struct {
	followRepo   repository.FollowRepository
	customerRepo repository.CustomerRepository
}

func NewFollowService(followRepo repository.FollowRepository, customerRepo repository.CustomerRepository) *FollowService {
	return &FollowService{followRepo: followRepo, customerRepo: customerRepo}
}

// Follow records myID -> followID. Following twice returns the existing edge.
func (s *FollowService) Follow(ctx context.Context, myID, followID uint) (*models.Follow, error) {
	if myID == 0 || followID == 0 {
		return nil, models.NewValidationError("All fields are required")
	}
	if myID == followID {
		return nil, models.NewValidationError("Cannot follow yourself")
	}

	found, err := s.customerRepo.GetByIDs(ctx, []uint{myID, followID})
	if err != nil {
		return nil, err
	}
	for _, id := range []uint{myID, followID} {
		if c, ok := found[id]; !ok || c.IsDeleted {
			return nil, models.NewNotFoundError("Customer", id)
		}
	}

	edge, err := s.followRepo.Create(ctx, myID, followID)
	if err != nil {
		return nil, err
	}
	cache.InvalidateProfiles(ctx, myID, followID)
	return edge, nil
}

// FollowBack reciprocates an existing follow record.
func (s *FollowService) FollowBack(ctx context.Context, recordID uint) (*models.Follow, error) {
	if recordID == 0 {
		return nil, models.NewValidationError("follow record id is required")
	}
	back, err := s.followRepo.FollowBack(ctx, recordID)
	if err != nil {
		return nil, err
	}
	cache.InvalidateProfiles(ctx, back.MyID, back.FollowID)
	return back, nil
}
