package repository

import (
	"context"
	"errors"

	"vzsocial/internal/models"
	"vzsocial/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	TopLevel(ctx context.Context, postID uint) ([]models.Comment, error)
	ChildrenOf(ctx context.Context, parentIDs []uint) ([]models.Comment, error)
	SoftDelete(ctx context.Context, id uint) error
	CountLiveByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) live(ctx context.Context) *gorm.DB {
	return readDB(r.db).WithContext(ctx).Model(&models.Comment{}).Where("is_deleted = ?", false)
}

// Create inserts the comment and bumps the parent's reply_count in the same transaction.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("insert", "comments")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if comment.ParentCommentID == nil {
			return nil
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", *comment.ParentCommentID).
			UpdateColumn("reply_count", gorm.Expr("reply_count + ?", 1)).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.live(ctx).First(&comment, id).Error; err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return &comment, nil
}

// TopLevel returns live comments without a parent, newest first.
func (r *commentRepository) TopLevel(ctx context.Context, postID uint) ([]models.Comment, error) {
	defer observability.TrackQuery("select", "comments")()

	var comments []models.Comment
	if err := r.live(ctx).
		Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ChildrenOf returns the live direct replies of every parent in one query, newest first.
func (r *commentRepository) ChildrenOf(ctx context.Context, parentIDs []uint) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	defer observability.TrackQuery("select", "comments")()

	var comments []models.Comment
	if err := r.live(ctx).
		Where("parent_comment_id IN ?", parentIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// SoftDelete flags the comment deleted and decrements the parent's
// reply_count, never below zero. Deleting twice is a NotFound.
func (r *commentRepository) SoftDelete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("is_deleted = ?", false).First(&comment, id).Error; err != nil {
			return notFoundOr(err, "Comment", id)
		}

		res := tx.Model(&models.Comment{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 || comment.ParentCommentID == nil {
			return nil
		}

		return tx.Model(&models.Comment{}).
			Where("id = ?", *comment.ParentCommentID).
			UpdateColumn("reply_count", gorm.Expr("CASE WHEN reply_count > 0 THEN reply_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}

type postCount struct {
	PostID uint
	Total  int64
}

// CountLiveByPosts counts live comments at any depth per post.
func (r *commentRepository) CountLiveByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("count", "comments")()

	var rows []postCount
	if err := r.live(ctx).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		out[row.PostID] = row.Total
	}
	return out, nil
}
