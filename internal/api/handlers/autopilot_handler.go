package handlers

import (
	"caltrack/domain"
	"caltrack/internal/api/presenters"
	"caltrack/pkg/autopilot"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AutopilotHandler interface {
		Review(c *fiber.Ctx) error
		Decide(c *fiber.Ctx) error
	}

	autopilotHandler struct {
		autopilotService autopilot.AutopilotService
		validator        *validator.Validate
	}
)

func NewAutopilotHandler(autopilotService autopilot.AutopilotService, validator *validator.Validate) AutopilotHandler {
	return &autopilotHandler{
		autopilotService: autopilotService,
		validator:        validator,
	}
}

// Review never fails for lack of data: a not-ready review carries its reason
// code and remediation counts as a normal success payload.
func (h *autopilotHandler) Review(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.autopilotService.Review(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAutopilotReview, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAutopilotReview)
}

func (h *autopilotHandler) Decide(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AutopilotDecisionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.autopilotService.Decide(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAutopilotApply, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAutopilotApply)
}
