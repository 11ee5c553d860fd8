package server

import (
	"time"

	"vzsocial/internal/middleware"
	"vzsocial/internal/models"
	"vzsocial/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Token lifetimes. Mobile clients keep customer sessions for a month.
const (
	customerTokenTTL = 30 * 24 * time.Hour
	adminTokenTTL    = 12 * time.Hour
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	Token    string `json:"token"`
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

type authResponse struct {
	Status         bool                   `json:"status"`
	Message        string                 `json:"message"`
	CustomerDetail service.CustomerDetail `json:"customer_detail"`
	Token          string                 `json:"token"`
}

func (s *Server) customerAuthResponse(c *fiber.Ctx, status int, message string, customer *models.Customer) error {
	token, err := middleware.IssueToken(s.config.JWTSecret, middleware.Principal{
		ID:   customer.ID,
		Kind: middleware.KindCustomer,
	}, customerTokenTTL)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.Status(status).JSON(authResponse{
		Status:         true,
		Message:        message,
		CustomerDetail: service.DetailOf(customer),
		Token:          token,
	})
}

// Register handles POST /register
// @Summary Register a customer
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration"
// @Success 201 {object} authResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	customer, err := s.accounts.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Gender:   req.Gender,
		Token:    req.Token,
	})
	if err != nil {
		return respondError(c, err)
	}
	return s.customerAuthResponse(c, fiber.StatusCreated, "Customer registered successfully", customer)
}

// Login handles POST /login
// @Summary Customer login by phone
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} authResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	customer, err := s.accounts.Login(c.UserContext(), service.LoginInput{
		Phone:    req.Phone,
		Password: req.Password,
		Token:    req.Token,
	})
	if err != nil {
		return respondError(c, err)
	}
	return s.customerAuthResponse(c, fiber.StatusOK, "Login successful", customer)
}

// CheckNumber handles POST /checknumber
// @Summary Check whether a phone number is registered
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body object{phone=string} true "Phone"
// @Success 200 {object} object{status=bool,exists=bool}
// @Router /checknumber [post]
func (s *Server) CheckNumber(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	exists, err := s.accounts.PhoneExists(c.UserContext(), req.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": true, "exists": exists})
}

// GetProfile handles GET /profile/:id
// @Summary Customer profile
// @Description Account, follower counts, image posts and video reels
// @Tags accounts
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} object{status=bool,profile=models.Profile}
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{id} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.accounts.Profile(c.UserContext(), id, viewerOf(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": true, "profile": profile})
}
