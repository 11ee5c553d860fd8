package service

import (
	"context"

	"vzsocial/internal/models"
	"vzsocial/internal/repository"

	"golang.org/x/sync/errgroup"
)

// EngagementCounter derives like and comment counters for posts. Nothing is cached.
type EngagementCounter struct {
	likes    repository.LikeRepository
	comments repository.CommentRepository
}

func NewEngagementCounter(likes repository.LikeRepository, comments repository.CommentRepository) *EngagementCounter {
	return &EngagementCounter{likes: likes, comments: comments}
}

// ForPost returns the counters for one post. A zero viewerID never matches a like.
func (e *EngagementCounter) ForPost(ctx context.Context, postID, viewerID uint) (models.Engagement, error) {
	all, err := e.ForPosts(ctx, []uint{postID}, viewerID)
	if err != nil {
		return models.Engagement{}, err
	}
	return all[postID], nil
}

// ForPosts computes counters for every post with three grouped queries.
// Every requested id is present in the result.
func (e *EngagementCounter) ForPosts(ctx context.Context, postIDs []uint, viewerID uint) (map[uint]models.Engagement, error) {
	out := make(map[uint]models.Engagement, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	var (
		likeCounts    map[uint]int64
		commentCounts map[uint]int64
		liked         map[uint]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		likeCounts, err = e.likes.CountByPosts(gctx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		commentCounts, err = e.comments.CountLiveByPosts(gctx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		liked, err = e.likes.LikedPostIDs(gctx, viewerID, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, id := range postIDs {
		eng := models.Engagement{
			LikeCount:    likeCounts[id],
			CommentCount: commentCounts[id],
		}
		if viewerID != 0 && liked[id] {
			eng.IsLiked = 1
		}
		out[id] = eng
	}
	return out, nil
}
