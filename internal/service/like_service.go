package service

import (
	"context"

	"vzsocial/internal/models"
	"vzsocial/internal/observability"
	"vzsocial/internal/repository"
)

type LikeService struct {
	likeRepo     repository.LikeRepository
	postRepo     repository.PostRepository
	customerRepo repository.CustomerRepository
}

// LikeResult is the state of a (customer, post) like after a toggle.
type LikeResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	IsLiked   bool   `json:"isLiked"`
	LikeCount int64  `json:"likeCount"`
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	customerRepo repository.CustomerRepository,
) *LikeService {
	return &LikeService{likeRepo: likeRepo, postRepo: postRepo, customerRepo: customerRepo}
}

// Toggle likes the post when the customer has not liked it and unlikes it otherwise.
func (s *LikeService) Toggle(ctx context.Context, customerID, postID uint) (*LikeResult, error) {
	if customerID == 0 || postID == 0 {
		return nil, models.NewValidationError("All fields are required")
	}
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.Toggle(ctx, customerID, postID)
	if err != nil {
		return nil, err
	}
	counts, err := s.likeRepo.CountByPosts(ctx, []uint{postID})
	if err != nil {
		return nil, err
	}

	res := &LikeResult{Success: true, IsLiked: liked, LikeCount: counts[postID]}
	if liked {
		res.Message = "Liked successfully"
		observability.LikeToggles.WithLabelValues("liked").Inc()
	} else {
		res.Message = "Unliked successfully"
		observability.LikeToggles.WithLabelValues("unliked").Inc()
	}
	return res, nil
}
