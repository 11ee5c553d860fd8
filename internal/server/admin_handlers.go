package server

import (
	"vzsocial/internal/middleware"
	"vzsocial/internal/models"
	"vzsocial/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

type loginAdminRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// RegisterAdmin handles POST /admin/register
// @Summary Register a back-office user
// @Description Anonymous callers can only create user accounts. Admin and moderator accounts need an admin token.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body registerAdminRequest true "Admin"
// @Success 201 {object} object{message=string,user=models.AdminUser}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/register [post]
func (s *Server) RegisterAdmin(c *fiber.Ctx) error {
	var req registerAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	admin, err := s.admins.Register(c.UserContext(), service.RegisterAdminInput(req), middleware.AdminRole(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    admin,
	})
}

// LoginAdmin handles POST /admin/login
// @Summary Back-office login
// @Description Accepts an email or a username. The token carries the role claim.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body loginAdminRequest true "Credentials"
// @Success 200 {object} object{token=string,user=models.AdminUser}
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/login [post]
func (s *Server) LoginAdmin(c *fiber.Ctx) error {
	var req loginAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	admin, err := s.admins.Login(c.UserContext(), req.EmailOrUsername, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := middleware.IssueToken(s.config.JWTSecret, middleware.Principal{
		ID:   admin.ID,
		Kind: middleware.KindAdmin,
		Role: admin.UserType,
	}, adminTokenTTL)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"token": token, "user": admin})
}

// GetAdminUsers handles GET /admin/users
// @Summary List back-office users
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.AdminUser
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users [get]
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	admins, err := s.admins.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(admins)
}
