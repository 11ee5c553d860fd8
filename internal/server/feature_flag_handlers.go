package server

import (
	"vzsocial/internal/featureflags"
	"vzsocial/internal/models"

	"github.com/gofiber/fiber/v2"
)

type featureFlagsResponse struct {
	Flags   []featureflags.State `json:"flags"`
	Invalid []string             `json:"invalid"`
}

// GetFeatureFlags handles GET /admin/feature-flags
// @Summary Feature flag states
// @Description Evaluates every flag for customer_id (anonymous when omitted) and lists unparseable entries.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param customer_id query int false "Customer to evaluate rollouts for"
// @Success 200 {object} featureFlagsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	customerID := c.QueryInt("customer_id", 0)
	if customerID < 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("customer_id must be a positive integer"))
	}

	invalid := s.featureFlags.Invalid()
	if invalid == nil {
		invalid = []string{}
	}
	return c.JSON(featureFlagsResponse{
		Flags:   s.featureFlags.States(uint(customerID)),
		Invalid: invalid,
	})
}
