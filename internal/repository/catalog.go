package repository

import (
	"context"

	"vzsocial/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository defines movie and episode persistence.
type CatalogRepository interface {
	CreateMovie(ctx context.Context, movie *models.Movie) error
	GetMovie(ctx context.Context, movieID string) (*models.Movie, error)
	ListMovies(ctx context.Context) ([]models.Movie, error)
	CreateEpisode(ctx context.Context, episode *models.Episode) error
	ListEpisodes(ctx context.Context, movieID string) ([]models.Episode, error)
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateMovie(ctx context.Context, movie *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(movie).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Movie id already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *catalogRepository) GetMovie(ctx context.Context, movieID string) (*models.Movie, error) {
	var movie models.Movie
	if err := readDB(r.db).WithContext(ctx).Where("movie_id = ?", movieID).First(&movie).Error; err != nil {
		return nil, notFoundOr(err, "Movie", movieID)
	}
	return &movie, nil
}

func (r *catalogRepository) ListMovies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	if err := readDB(r.db).WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&movies).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return movies, nil
}

func (r *catalogRepository) CreateEpisode(ctx context.Context, episode *models.Episode) error {
	if err := r.db.WithContext(ctx).Create(episode).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListEpisodes returns a movie's episodes in upload order.
func (r *catalogRepository) ListEpisodes(ctx context.Context, movieID string) ([]models.Episode, error) {
	var episodes []models.Episode
	if err := readDB(r.db).WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("created_at ASC").Order("id ASC").
		Find(&episodes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return episodes, nil
}
