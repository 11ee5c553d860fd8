package repository

import (
	"context"
	"errors"

	"vzsocial/internal/models"
	"vzsocial/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow graph operations.
type FollowRepository interface {
	Create(ctx context.Context, myID, followID uint) (*models.Follow, error)
	GetByID(ctx context.Context, id uint) (*models.Follow, error)
	FollowingIDs(ctx context.Context, customerID uint) ([]uint, error)
	CountFollowers(ctx context.Context, customerID uint) (int64, error)
	CountFollowing(ctx context.Context, customerID uint) (int64, error)
	FollowBack(ctx context.Context, id uint) (*models.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the edge myID -> followID, returning the existing edge when present.
func (r *followRepository) Create(ctx context.Context, myID, followID uint) (*models.Follow, error) {
	edge := models.Follow{MyID: myID, FollowID: followID}
	err := r.db.WithContext(ctx).
		Where(models.Follow{MyID: myID, FollowID: followID}).
		FirstOrCreate(&edge).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return r.find(ctx, r.db, myID, followID)
		}
		return nil, models.NewInternalError(err)
	}
	return &edge, nil
}

func (r *followRepository) find(ctx context.Context, db *gorm.DB, myID, followID uint) (*models.Follow, error) {
	var edge models.Follow
	if err := db.WithContext(ctx).Where("my_id = ? AND follow_id = ?", myID, followID).First(&edge).Error; err != nil {
		return nil, notFoundOr(err, "Follow", followID)
	}
	return &edge, nil
}

func (r *followRepository) GetByID(ctx context.Context, id uint) (*models.Follow, error) {
	var edge models.Follow
	if err := r.db.WithContext(ctx).First(&edge, id).Error; err != nil {
		return nil, notFoundOr(err, "Follow", id)
	}
	return &edge, nil
}

// FollowingIDs returns the ids of accounts customerID follows.
func (r *followRepository) FollowingIDs(ctx context.Context, customerID uint) ([]uint, error) {
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).Model(&models.Follow{}).
		Where("my_id = ?", customerID).
		Pluck("follow_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// CountFollowers counts edges pointing at customerID.
func (r *followRepository) CountFollowers(ctx context.Context, customerID uint) (int64, error) {
	return r.count(ctx, "follow_id = ?", customerID)
}

// CountFollowing counts edges leaving customerID.
func (r *followRepository) CountFollowing(ctx context.Context, customerID uint) (int64, error) {
	return r.count(ctx, "my_id = ?", customerID)
}

func (r *followRepository) count(ctx context.Context, cond string, customerID uint) (int64, error) {
	defer observability.TrackQuery("count", "follows")()

	var total int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Follow{}).
		Where(cond, customerID).
		Count(&total).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}

// FollowBack marks the edge as followed back and materializes the reciprocal
// edge with follow_back set. It returns the reciprocal edge.
func (r *followRepository) FollowBack(ctx context.Context, id uint) (*models.Follow, error) {
	var reciprocal *models.Follow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var edge models.Follow
		if err := tx.First(&edge, id).Error; err != nil {
			return notFoundOr(err, "Follow", id)
		}
		if err := tx.Model(&edge).Update("follow_back", true).Error; err != nil {
			return models.NewInternalError(err)
		}

		back := models.Follow{MyID: edge.FollowID, FollowID: edge.MyID, FollowBack: true}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "my_id"}, {Name: "follow_id"}},
			DoUpdates: clause.Assignments(map[string]any{"follow_back": true}),
		}).Create(&back).Error; err != nil {
			return models.NewInternalError(err)
		}

		found, err := r.find(ctx, tx, edge.FollowID, edge.MyID)
		if err != nil {
			return err
		}
		reciprocal = found
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}
	return reciprocal, nil
}
