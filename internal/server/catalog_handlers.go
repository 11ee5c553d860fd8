package server

import (
	"mime/multipart"
	"strings"

	"vzsocial/internal/models"
	"vzsocial/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) catalogMedia(form *multipart.Form) (service.CatalogMedia, error) {
	var m service.CatalogMedia
	var err error
	if m.HorizontalBanner, err = s.readUpload(form, "horizontalBanner"); err != nil {
		return m, err
	}
	if m.VerticalBanner, err = s.readUpload(form, "verticalBanner"); err != nil {
		return m, err
	}
	if m.Trailer, err = s.readUpload(form, "trailer"); err != nil {
		return m, err
	}
	return m, nil
}

// UploadMovie handles POST /movies/upload
// @Summary Upload a movie
// @Tags catalog
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param horizontalBanner formData file true "Horizontal banner"
// @Param verticalBanner formData file true "Vertical banner"
// @Param trailer formData file true "Trailer"
// @Success 201 {object} object{message=string,movie=models.Movie}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /movies/upload [post]
func (s *Server) UploadMovie(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return respondError(c, err)
	}
	media, err := s.catalogMedia(form)
	if err != nil {
		return respondError(c, err)
	}

	movie, err := s.catalog.UploadMovie(c.UserContext(), service.UploadMovieInput{
		Title:    c.FormValue("title"),
		Category: c.FormValue("category"),
		Type:     c.FormValue("type"),
		Duration: c.FormValue("duration"),
		Artists:  c.FormValue("artists"),
		Director: c.FormValue("director"),
		Year:     c.FormValue("year"),
		Location: c.FormValue("location"),
		Detail:   c.FormValue("detail"),
		Media:    media,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Movie uploaded successfully",
		"movie":   movie,
	})
}

// UploadEpisode handles POST /movies/episodes/upload
// @Summary Upload an episode of an existing movie
// @Tags catalog
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param movieID formData string true "Movie identifier"
// @Param title formData string true "Title"
// @Param horizontalBanner formData file true "Horizontal banner"
// @Param verticalBanner formData file true "Vertical banner"
// @Param trailer formData file true "Trailer"
// @Success 201 {object} object{message=string,episode=models.Episode}
// @Failure 404 {object} models.ErrorResponse
// @Router /movies/episodes/upload [post]
func (s *Server) UploadEpisode(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return respondError(c, err)
	}
	media, err := s.catalogMedia(form)
	if err != nil {
		return respondError(c, err)
	}

	episode, err := s.catalog.UploadEpisode(c.UserContext(), service.UploadEpisodeInput{
		MovieID:  c.FormValue("movieID"),
		Title:    c.FormValue("title"),
		Duration: c.FormValue("duration"),
		Detail:   c.FormValue("detail"),
		Media:    media,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Episode uploaded successfully",
		"episode": episode,
	})
}

// GetMovies handles GET /movies
// @Summary List movies newest first
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Movie
// @Router /movies [get]
func (s *Server) GetMovies(c *fiber.Ctx) error {
	movies, err := s.catalog.ListMovies(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movies)
}

// GetEpisodes handles GET /movies/:movie_id/episodes
// @Summary Episodes of a movie in upload order
// @Tags catalog
// @Produce json
// @Param movie_id path string true "Movie identifier"
// @Success 200 {array} models.Episode
// @Failure 404 {object} models.ErrorResponse
// @Router /movies/{movie_id}/episodes [get]
func (s *Server) GetEpisodes(c *fiber.Ctx) error {
	movieID := strings.TrimSpace(c.Params("movie_id"))
	if movieID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid movie ID"))
	}

	episodes, err := s.catalog.ListEpisodes(c.UserContext(), movieID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(episodes)
}
