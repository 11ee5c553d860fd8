package server

import (
	"vzsocial/internal/middleware"
	"vzsocial/internal/models"
	"vzsocial/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	PostID          flexID  `json:"post_id"`
	UserID          flexID  `json:"user_id"`
	ParentCommentID *flexID `json:"parent_comment_id"`
	CommentText     string  `json:"comment_text"`
}

// GetComments handles GET /comment/:post_id
// @Summary Comment tree of a post
// @Description Live comments newest first at every level, each with its replies
// @Tags comments
// @Produce json
// @Param post_id path int true "Post ID"
// @Success 200 {object} object{status=bool,comments=[]models.CommentNode}
// @Failure 400 {object} models.ErrorResponse
// @Router /comment/{post_id} [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}

	comments, err := s.comments.Tree(c.UserContext(), postID, viewerOf(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": true, "comments": comments})
}

// CreateComment handles POST /comment
// @Summary Add a comment or reply
// @Tags comments
// @Accept json
// @Produce json
// @Param request body createCommentRequest true "Comment"
// @Success 201 {object} object{status=bool,message=string,comment=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comment [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, err := actingCustomer(c, uint(req.UserID))
	if err != nil {
		return respondError(c, err)
	}

	in := service.CreateCommentInput{
		PostID:      uint(req.PostID),
		UserID:      userID,
		CommentText: req.CommentText,
	}
	if req.ParentCommentID != nil && *req.ParentCommentID != 0 {
		parent := uint(*req.ParentCommentID)
		in.ParentCommentID = &parent
	}

	comment, err := s.comments.CreateComment(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  true,
		"message": "Comment added",
		"comment": comment,
	})
}

// DeleteComment handles DELETE /comment/:id
// @Summary Soft-delete own comment
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} object{status=bool,message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comment/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, ok := middleware.ViewerID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Only customers can delete comments"))
	}

	if err := s.comments.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": true, "message": "Comment deleted"})
}
