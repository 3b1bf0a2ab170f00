package domain

import "errors"

var (
	MessageSuccessCheckout        = "checkout session created successfully"
	MessageSuccessGetSubscription = "subscription retrieved successfully"
	MessageSuccessWebhook         = "webhook processed successfully"
	MessageSuccessReconcile       = "reconciliation completed"

	MessageFailedCheckout        = "failed to create checkout session"
	MessageFailedGetSubscription = "failed to retrieve subscription"
	MessageFailedWebhook         = "failed to process webhook"
	MessageFailedReconcile       = "failed to run reconciliation"

	ErrWebhookSignature   = errors.New("webhook signature verification failed")
	ErrSubscriptionLookup = errors.New("subscription lookup failed")
	ErrNoStripeReference  = errors.New("user has no stripe reference")
)

// Webhook process results.
const (
	WebhookResultSynced           = "synced"
	WebhookResultIgnoredEventType = "ignored_event_type"
	WebhookResultUserNotFound     = "user_not_found"
	WebhookResultProcessingFailed = "processing_failed"
)

type (
	CreateCheckoutRequest struct {
		SuccessURL string `json:"success_url" validate:"required,url"`
		CancelURL  string `json:"cancel_url" validate:"required,url"`
	}

	CreateCheckoutResponse struct {
		URL       string `json:"url"`
		SessionID string `json:"session_id"`
	}

	SubscriptionResponse struct {
		PlanTier           string `json:"plan_tier"`
		SubscriptionStatus string `json:"subscription_status"`
		PeriodEnd          string `json:"current_period_end,omitempty"`
		PremiumSource      string `json:"premium_source"`
	}

	WebhookResponse struct {
		Duplicate bool   `json:"duplicate"`
		Result    string `json:"result,omitempty"`
	}

	ReconcileResult struct {
		Checked int `json:"checked"`
		Updated int `json:"updated"`
		Errors  int `json:"errors"`
	}
)
