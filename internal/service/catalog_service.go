package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"vzsocial/internal/cache"
	"vzsocial/internal/models"
	"vzsocial/internal/repository"
	"vzsocial/internal/storage"
)

const movieIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// CatalogMedia are the three files every movie and episode carries.
type CatalogMedia struct {
	HorizontalBanner *FileUpload
	VerticalBanner   *FileUpload
	Trailer          *FileUpload
}

type UploadMovieInput struct {
	Title    string
	Category string
	Type     string
	Duration string
	Artists  string
	Director string
	Year     string
	Location string
	Detail   string
	Media    CatalogMedia
}

type UploadEpisodeInput struct {
	MovieID  string
	Title    string
	Duration string
	Detail   string
	Media    CatalogMedia
}

type CatalogService struct {
	uploader
	catalogRepo repository.CatalogRepository
	now         func() time.Time
}

func NewCatalogService(catalogRepo repository.CatalogRepository, store storage.ObjectStore) *CatalogService {
	return &CatalogService{
		uploader:    uploader{store: store},
		catalogRepo: catalogRepo,
		now:         time.Now,
	}
}

// newMovieID returns "movie-<unix-ms>-<6 random chars>".
func newMovieID(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = movieIDAlphabet[int(b)%len(movieIDAlphabet)]
	}
	return fmt.Sprintf("movie-%d-%s", now.UnixMilli(), buf), nil
}

func (s *CatalogService) storeMedia(ctx context.Context, m CatalogMedia) (h, v, t string, err error) {
	if m.HorizontalBanner == nil || m.VerticalBanner == nil || m.Trailer == nil {
		return "", "", "", models.NewValidationError("You must upload three files: horizontalBanner, verticalBanner, and trailer")
	}
	for _, f := range []*FileUpload{m.HorizontalBanner, m.VerticalBanner, m.Trailer} {
		if _, err := uploadExt(*f); err != nil {
			return "", "", "", err
		}
	}
	if h, err = s.put(ctx, *m.HorizontalBanner); err != nil {
		return "", "", "", err
	}
	if v, err = s.put(ctx, *m.VerticalBanner); err != nil {
		return "", "", "", err
	}
	if t, err = s.put(ctx, *m.Trailer); err != nil {
		return "", "", "", err
	}
	return h, v, t, nil
}

func (s *CatalogService) UploadMovie(ctx context.Context, in UploadMovieInput) (*models.Movie, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}
	h, v, t, err := s.storeMedia(ctx, in.Media)
	if err != nil {
		return nil, err
	}
	id, err := newMovieID(s.now())
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	movie := &models.Movie{
		MovieID:          id,
		Title:            strings.TrimSpace(in.Title),
		Category:         in.Category,
		Type:             in.Type,
		Duration:         in.Duration,
		Artists:          in.Artists,
		Director:         in.Director,
		Year:             in.Year,
		Location:         in.Location,
		Detail:           in.Detail,
		HorizontalBanner: h,
		VerticalBanner:   v,
		Trailer:          t,
	}
	if err := s.catalogRepo.CreateMovie(ctx, movie); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.MoviesKey)
	return movie, nil
}

func (s *CatalogService) UploadEpisode(ctx context.Context, in UploadEpisodeInput) (*models.Episode, error) {
	if strings.TrimSpace(in.MovieID) == "" || strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("movieID and title are required")
	}
	if _, err := s.catalogRepo.GetMovie(ctx, in.MovieID); err != nil {
		return nil, err
	}
	h, v, t, err := s.storeMedia(ctx, in.Media)
	if err != nil {
		return nil, err
	}

	episode := &models.Episode{
		MovieID:          in.MovieID,
		Title:            strings.TrimSpace(in.Title),
		Duration:         in.Duration,
		Detail:           in.Detail,
		HorizontalBanner: h,
		VerticalBanner:   v,
		Trailer:          t,
	}
	if err := s.catalogRepo.CreateEpisode(ctx, episode); err != nil {
		return nil, err
	}
	return episode, nil
}

func (s *CatalogService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	err := cache.Aside(ctx, cache.MoviesKey, &movies, cache.MoviesTTL, func() error {
		var err error
		movies, err = s.catalogRepo.ListMovies(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}

func (s *CatalogService) ListEpisodes(ctx context.Context, movieID string) ([]models.Episode, error) {
	if _, err := s.catalogRepo.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}
	episodes, err := s.catalogRepo.ListEpisodes(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if episodes == nil {
		episodes = []models.Episode{}
	}
	return episodes, nil
}
