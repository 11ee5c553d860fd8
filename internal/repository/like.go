package repository

import (
	"context"

	"vzsocial/internal/models"
	"vzsocial/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for post like operations.
type LikeRepository interface {
	Toggle(ctx context.Context, userID, postID uint) (bool, error)
	CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error)
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle flips the (userID, postID) like and reports whether it is now liked.
// The unique index on (user_id, post_id) keeps concurrent toggles from
// producing duplicate rows. When the insert loses a race to another toggle
// the row that toggle created is removed again, so N concurrent toggles
// end in the same state as N serial ones.
func (r *likeRepository) Toggle(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("toggle", "likes")()

	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		res = tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{UserID: userID, PostID: postID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = true
			return nil
		}

		// conflict: another toggle liked it between our delete and insert
		return tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return liked, nil
}

// CountByPosts counts likes per post in one grouped query.
func (r *likeRepository) CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("count", "likes")()

	var rows []postCount
	if err := readDB(r.db).WithContext(ctx).Model(&models.Like{}).
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

// LikedPostIDs returns which of postIDs userID has liked.
func (r *likeRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if userID == 0 || len(postIDs) == 0 {
		return out, nil
	}

	var ids []uint
	if err := readDB(r.db).WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
