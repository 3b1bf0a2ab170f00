package handlers

import (
	"caltrack/domain"
	"caltrack/internal/api/presenters"
	"caltrack/internal/utils"
	"caltrack/pkg/food"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	FoodHandler interface {
		AddEntry(c *fiber.Ctx) error
		AddEntryFromText(c *fiber.Ctx) error
		GetEntries(c *fiber.Ctx) error
		GetDayTotals(c *fiber.Ctx) error
		DeleteEntry(c *fiber.Ctx) error
		Export(c *fiber.Ctx) error
	}

	foodHandler struct {
		foodService food.FoodService
		validator   *validator.Validate
	}
)

func NewFoodHandler(foodService food.FoodService, validator *validator.Validate) FoodHandler {
	return &foodHandler{
		foodService: foodService,
		validator:   validator,
	}
}

// gateStatus maps a denial reason to an HTTP status: quota denials are 429,
// the history window is 403.
func gateStatus(gate domain.GateResult) int {
	if gate.Reason == domain.GateReasonHistoryWindow {
		return fiber.StatusForbidden
	}
	return fiber.StatusTooManyRequests
}

func (h *foodHandler) AddEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddFoodEntryRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddEntry, err)
	}

	res, gate, err := h.foodService.AddEntry(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddEntry, err)
	}
	if !gate.OK {
		return presenters.GateDeniedResponse(c, gateStatus(gate), gate, gate.Message)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddEntry)
}

func (h *foodHandler) AddEntryFromText(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AiFoodEntryRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAiEntry, err)
	}

	res, gate, err := h.foodService.AddEntryFromText(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrExtractionFailed) {
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedAiEntry, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAiEntry, err)
	}
	if !gate.OK {
		return presenters.GateDeniedResponse(c, gateStatus(gate), gate, gate.Message)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAiEntry)
}

func (h *foodHandler) GetEntries(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	date := c.Query("date", utils.FormatCivilDate(utils.CivilToday(utils.CivilLocation())))

	res, gate, err := h.foodService.GetEntries(c.Context(), userID, date)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetEntries, err)
	}
	if !gate.OK {
		return presenters.GateDeniedResponse(c, gateStatus(gate), gate, gate.Message)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetEntries)
}

func (h *foodHandler) GetDayTotals(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	date := c.Query("date", utils.FormatCivilDate(utils.CivilToday(utils.CivilLocation())))

	res, gate, err := h.foodService.GetDayTotals(c.Context(), userID, date)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetEntries, err)
	}
	if !gate.OK {
		return presenters.GateDeniedResponse(c, gateStatus(gate), gate, gate.Message)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetEntries)
}

func (h *foodHandler) DeleteEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	entryID := c.Params("id")

	if err := h.foodService.DeleteEntry(c.Context(), entryID, userID); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteEntry, err)
		}
		if errors.Is(err, domain.ErrNotAllowed) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedDeleteEntry, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteEntry, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteEntry)
}

func (h *foodHandler) Export(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.foodService.ExportEntries(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrExportNotPremium) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageExportPremiumOnly, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedExport, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessExport)
}
