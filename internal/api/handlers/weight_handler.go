package handlers

import (
	"caltrack/domain"
	"caltrack/internal/api/presenters"
	"caltrack/pkg/weight"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	WeightHandler interface {
		WeighIn(c *fiber.Ctx) error
		GetWeights(c *fiber.Ctx) error
	}

	weightHandler struct {
		weightService weight.WeightService
		validator     *validator.Validate
	}
)

func NewWeightHandler(weightService weight.WeightService, validator *validator.Validate) WeightHandler {
	return &weightHandler{
		weightService: weightService,
		validator:     validator,
	}
}

func (h *weightHandler) WeighIn(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.WeighInRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWeighIn, err)
	}

	res, err := h.weightService.WeighIn(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWeighIn, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessWeighIn)
}

func (h *weightHandler) GetWeights(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	days, err := strconv.Atoi(c.Query("days", "14"))
	if err != nil || days < 1 {
		days = 14
	}

	res, err := h.weightService.GetRecentWeights(c.Context(), userID, days)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetWeights, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetWeights)
}
