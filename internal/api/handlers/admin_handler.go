package handlers

import (
	"caltrack/domain"
	"caltrack/internal/api/presenters"
	"caltrack/pkg/billing"
	"caltrack/pkg/plan"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AdminHandler interface {
		GrantPass(c *fiber.Ctx) error
		RevokePass(c *fiber.Ctx) error
		TriggerReconcile(c *fiber.Ctx) error
		RecentReconcileRuns(c *fiber.Ctx) error
		RecentWebhookEvents(c *fiber.Ctx) error
	}

	adminHandler struct {
		planService    plan.PlanService
		billingService billing.BillingService
		validator      *validator.Validate
	}
)

func NewAdminHandler(planService plan.PlanService, billingService billing.BillingService, validator *validator.Validate) AdminHandler {
	return &adminHandler{
		planService:    planService,
		billingService: billingService,
		validator:      validator,
	}
}

func (h *adminHandler) GrantPass(c *fiber.Ctx) error {
	req := new(domain.GrantPassRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGrantPass, err)
	}

	if err := h.planService.GrantPremiumPass(c.Context(), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGrantPass, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessGrantPass)
}

func (h *adminHandler) RevokePass(c *fiber.Ctx) error {
	req := new(domain.RevokePassRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRevokePass, err)
	}

	if err := h.planService.RevokePremiumPass(c.Context(), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRevokePass, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRevokePass)
}

func (h *adminHandler) TriggerReconcile(c *fiber.Ctx) error {
	res, err := h.billingService.ReconcileSubscriptions(c.Context(), "admin")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedReconcile, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessReconcile)
}

func (h *adminHandler) RecentReconcileRuns(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	runs, err := h.billingService.RecentRuns(c.Context(), limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedReconcile, err)
	}

	return presenters.SuccessResponse(c, runs, fiber.StatusOK, domain.MessageSuccessReconcile)
}

func (h *adminHandler) RecentWebhookEvents(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	events, err := h.billingService.RecentEvents(c.Context(), limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWebhook, err)
	}

	return presenters.SuccessResponse(c, events, fiber.StatusOK, domain.MessageSuccessWebhook)
}
