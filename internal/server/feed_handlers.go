package server

import (
	"vzsocial/internal/models"

	"github.com/gofiber/fiber/v2"
)

type likeRequest struct {
	MyID   flexID `json:"my_id"`
	PostID flexID `json:"post_id"`
}

// GetHome handles GET /home/:id where id is the viewer.
// @Summary Home feed
// @Description Status strip, recent, suggested, random, reels and two more pages of posts
// @Tags feed
// @Produce json
// @Param id path int true "Viewer ID"
// @Success 200 {object} models.HomeFeed
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /home/{id} [get]
func (s *Server) GetHome(c *fiber.Ctx) error {
	viewerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	feed, err := s.feed.Home(c.UserContext(), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(homeResponse{Status: true, HomeFeed: feed})
}

type homeResponse struct {
	Status bool `json:"status"`
	*models.HomeFeed
}

// ToggleLike handles POST /like
// @Summary Like or unlike a post
// @Description Flips the caller's like on a post and returns the new state
// @Tags feed
// @Accept json
// @Produce json
// @Param request body likeRequest true "Like"
// @Success 200 {object} service.LikeResult "unliked"
// @Success 201 {object} service.LikeResult "liked"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var req likeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	myID, err := actingCustomer(c, uint(req.MyID))
	if err != nil {
		return respondError(c, err)
	}

	result, err := s.likes.Toggle(c.UserContext(), myID, uint(req.PostID))
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if result.IsLiked {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(result)
}
