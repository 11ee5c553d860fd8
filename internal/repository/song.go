package repository

import (
	"context"

	"vzsocial/internal/models"

	"gorm.io/gorm"
)

// SongRepository defines song persistence.
type SongRepository interface {
	Create(ctx context.Context, song *models.Song) error
	List(ctx context.Context) ([]models.Song, error)
}

type songRepository struct {
	db *gorm.DB
}

// NewSongRepository creates a new song repository.
func NewSongRepository(db *gorm.DB) SongRepository {
	return &songRepository{db: db}
}

func (r *songRepository) Create(ctx context.Context, song *models.Song) error {
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *songRepository) List(ctx context.Context) ([]models.Song, error) {
	var songs []models.Song
	if err := readDB(r.db).WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&songs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return songs, nil
}
