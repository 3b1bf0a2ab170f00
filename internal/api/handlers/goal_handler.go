package handlers

import (
	"caltrack/domain"
	"caltrack/internal/api/presenters"
	"caltrack/pkg/goal"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	GoalHandler interface {
		GetGoal(c *fiber.Ctx) error
		SetGoal(c *fiber.Ctx) error
	}

	goalHandler struct {
		goalService goal.GoalService
		validator   *validator.Validate
	}
)

func NewGoalHandler(goalService goal.GoalService, validator *validator.Validate) GoalHandler {
	return &goalHandler{
		goalService: goalService,
		validator:   validator,
	}
}

func (h *goalHandler) GetGoal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.goalService.GetGoal(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoCalorieGoal) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetGoal, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetGoal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetGoal)
}

func (h *goalHandler) SetGoal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SetGoalRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSetGoal, err)
	}

	res, err := h.goalService.SetGoal(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSetGoal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSetGoal)
}
