package handlers

import (
	"caltrack/domain"
	"caltrack/internal/api/presenters"
	"caltrack/pkg/billing"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	BillingHandler interface {
		CreateCheckout(c *fiber.Ctx) error
		GetSubscription(c *fiber.Ctx) error
		StripeWebhook(c *fiber.Ctx) error
	}

	billingHandler struct {
		billingService billing.BillingService
		validator      *validator.Validate
	}
)

func NewBillingHandler(billingService billing.BillingService, validator *validator.Validate) BillingHandler {
	return &billingHandler{
		billingService: billingService,
		validator:      validator,
	}
}

func (h *billingHandler) CreateCheckout(c *fiber.Ctx) error {
	resolved := c.Locals("identity").(domain.Identity)
	req := new(domain.CreateCheckoutRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCheckout, err)
	}

	res, err := h.billingService.CreateCheckout(c.Context(), *req, resolved)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCheckout, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCheckout)
}

func (h *billingHandler) GetSubscription(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.billingService.GetSubscription(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSubscription, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSubscription)
}

// StripeWebhook passes the raw body through untouched: the signature covers
// the exact bytes on the wire. A processing failure returns 500 so the sender
// retries; a bad signature returns 400 so it does not.
func (h *billingHandler) StripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	res, err := h.billingService.HandleWebhook(c.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, domain.ErrWebhookSignature) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWebhook, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedWebhook, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessWebhook)
}
