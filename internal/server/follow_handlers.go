package server

import (
	"vzsocial/internal/models"

	"github.com/gofiber/fiber/v2"
)

type followRequest struct {
	MyID     flexID `json:"my_id"`
	FollowID flexID `json:"follow_id"`
}

// Follow handles POST /follow
// @Summary Follow an account
// @Description Idempotent: following twice returns the existing record
// @Tags follows
// @Accept json
// @Produce json
// @Param request body followRequest true "Follow"
// @Success 201 {object} object{status=bool,message=string,follow=models.Follow}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /follow [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	var req followRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	myID, err := actingCustomer(c, uint(req.MyID))
	if err != nil {
		return respondError(c, err)
	}

	edge, err := s.follows.Follow(c.UserContext(), myID, uint(req.FollowID))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  true,
		"message": "Followed successfully",
		"follow":  edge,
	})
}

// FollowBack handles POST|GET /follow_back/:id where id is a follow record.
// @Summary Follow back
// @Description Marks the record as followed back and materializes the reciprocal record
// @Tags follows
// @Produce json
// @Param id path int true "Follow record ID"
// @Success 200 {object} object{status=bool,message=string,follow=models.Follow}
// @Failure 404 {object} models.ErrorResponse
// @Router /follow_back/{id} [post]
// @Router /follow_back/{id} [get]
func (s *Server) FollowBack(c *fiber.Ctx) error {
	recordID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	back, err := s.follows.FollowBack(c.UserContext(), recordID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Followed back successfully",
		"follow":  back,
	})
}
