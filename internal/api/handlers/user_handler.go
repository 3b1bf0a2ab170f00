package handlers

import (
	"caltrack/domain"
	"caltrack/internal/api/presenters"
	"caltrack/pkg/identity"
	"caltrack/pkg/plan"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		CreateSession(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		GetProfile(c *fiber.Ctx) error
		UpdateProfile(c *fiber.Ctx) error
		GetEntitlements(c *fiber.Ctx) error
	}

	userHandler struct {
		identityService identity.IdentityService
		planService     plan.PlanService
		validator       *validator.Validate
	}
)

func NewUserHandler(identityService identity.IdentityService, planService plan.PlanService, validator *validator.Validate) UserHandler {
	return &userHandler{
		identityService: identityService,
		planService:     planService,
		validator:       validator,
	}
}

// CreateSession exchanges a device id for a signed token so subsequent calls
// can skip the device header.
func (h *userHandler) CreateSession(c *fiber.Ctx) error {
	req := new(domain.CreateSessionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSession, err)
	}

	res, err := h.identityService.CreateSession(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSession, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSession)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	resolved := c.Locals("identity").(domain.Identity)
	return presenters.SuccessResponse(c, resolved, fiber.StatusOK, domain.MessageSuccessGetProfile)
}

func (h *userHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.identityService.GetProfile(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetProfile, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetProfile)
}

func (h *userHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateProfileRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateProfile, err)
	}

	res, err := h.identityService.UpdateProfile(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateProfile, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateProfile)
}

func (h *userHandler) GetEntitlements(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.planService.GetEntitlements(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetEntitlements, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetEntitlements)
}
