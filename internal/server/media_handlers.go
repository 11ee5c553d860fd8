package server

import (
	"mime/multipart"

	"vzsocial/internal/models"
	"vzsocial/internal/service"

	"github.com/gofiber/fiber/v2"
)

// multipartForm parses the request form, answering 400 when it is not multipart.
func multipartForm(c *fiber.Ctx) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, models.NewValidationError("Expected a multipart/form-data body")
	}
	return form, nil
}

// uploadPostHandler serves POST /post, /reel and /story.
// @Summary Upload a post, reel or story
// @Description Multipart upload. Reels and stories accept an optional thumbnail and
// @Description get a generated WebP one when an image is sent without it.
// @Tags media
// @Accept mpfd
// @Produce json
// @Param customer_id formData int true "Owner"
// @Param type formData string true "Image or Video"
// @Param detail formData string false "Caption"
// @Param location formData string false "Location"
// @Param song formData string false "Song URL"
// @Param image formData file true "Media files (1..10)"
// @Param thumbnail formData file false "Thumbnail (reels and stories)"
// @Success 201 {object} object{status=bool,message=string,post=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post [post]
// @Router /reel [post]
// @Router /story [post]
func (s *Server) uploadPostHandler(postType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := multipartForm(c)
		if err != nil {
			return respondError(c, err)
		}

		bodyID, err := formUint(c, "customer_id")
		if err != nil {
			return respondError(c, err)
		}
		customerID, err := actingCustomer(c, bodyID)
		if err != nil {
			return respondError(c, err)
		}

		images, err := s.readUploads(form, "image")
		if err != nil {
			return respondError(c, err)
		}
		thumbnail, err := s.readUpload(form, "thumbnail")
		if err != nil {
			return respondError(c, err)
		}

		post, err := s.media.UploadPost(c.UserContext(), service.UploadPostInput{
			CustomerID: customerID,
			PostType:   postType,
			Type:       c.FormValue("type"),
			Detail:     c.FormValue("detail"),
			Location:   c.FormValue("location"),
			Song:       c.FormValue("song"),
			Images:     images,
			Thumbnail:  thumbnail,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  true,
			"message": "Uploaded successfully",
			"post":    post,
		})
	}
}

// UploadSong handles POST /song
// @Summary Upload a song
// @Tags media
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param artist formData string false "Artist"
// @Param detail formData string false "Detail"
// @Param location formData string false "Location"
// @Param image formData file true "Cover image"
// @Param song formData file true "Audio file"
// @Success 201 {object} object{status=bool,message=string,song=models.Song}
// @Failure 400 {object} models.ErrorResponse
// @Router /song [post]
func (s *Server) UploadSong(c *fiber.Ctx) error {
	form, err := multipartForm(c)
	if err != nil {
		return respondError(c, err)
	}
	image, err := s.readUpload(form, "image")
	if err != nil {
		return respondError(c, err)
	}
	audio, err := s.readUpload(form, "song")
	if err != nil {
		return respondError(c, err)
	}

	song, err := s.media.UploadSong(c.UserContext(), service.UploadSongInput{
		Title:    c.FormValue("title"),
		Artist:   c.FormValue("artist"),
		Detail:   c.FormValue("detail"),
		Location: c.FormValue("location"),
		Image:    image,
		Song:     audio,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  true,
		"message": "Song uploaded successfully",
		"song":    song,
	})
}

// GetSongs handles GET /song
// @Summary List songs newest first
// @Tags media
// @Produce json
// @Success 200 {object} object{status=bool,songs=[]models.Song}
// @Router /song [get]
func (s *Server) GetSongs(c *fiber.Ctx) error {
	songs, err := s.media.ListSongs(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": true, "songs": songs})
}
