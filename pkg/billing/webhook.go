package billing

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"gorm.io/gorm"
)

// WebhookTolerance bounds how old a signed webhook timestamp may be. The
// upstream system accepted any timestamp; this tolerance is a deliberate
// choice, not the library default.
const WebhookTolerance = 5 * time.Minute

// HandleWebhook verifies, deduplicates and dispatches one delivered event.
// Verification happens before anything is persisted. The unique event-id
// insert is the sole idempotency mechanism: a duplicate delivery
// short-circuits without reprocessing.
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (domain.WebhookResponse, error) {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signatureHeader,
		utils.GetConfig("STRIPE_WEBHOOK_SECRET"),
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
			Tolerance:                WebhookTolerance,
		},
	)
	if err != nil {
		log.Errorf("stripe webhook signature rejected: %v", err)
		return domain.WebhookResponse{}, domain.ErrWebhookSignature
	}

	row := &entities.StripeWebhookEvent{
		ID:            uuid.New(),
		StripeEventID: event.ID,
		EventType:     string(event.Type),
		Payload:       string(payload),
	}
	inserted, err := s.billingRepository.InsertWebhookEvent(ctx, row)
	if err != nil {
		return domain.WebhookResponse{}, err
	}
	if !inserted {
		return domain.WebhookResponse{Duplicate: true}, nil
	}

	result, profile, dispatchErr := s.dispatchEvent(ctx, &event)

	row.ProcessResult = result
	row.Processed = dispatchErr == nil
	if dispatchErr != nil {
		row.ProcessResult = domain.WebhookResultProcessingFailed
		row.ErrorMessage = dispatchErr.Error()
	}
	if profile != nil {
		row.UserID = profile.UserID
		row.SubscriptionID = profile.StripeSubscriptionID
		row.SubscriptionStatus = profile.SubscriptionStatus
	}
	if err := s.billingRepository.UpdateWebhookEvent(ctx, row); err != nil {
		log.Errorf("failed to record webhook outcome for %s: %v", event.ID, err)
	}

	if dispatchErr != nil {
		// Surface a server error so the sender's retry mechanism resends.
		return domain.WebhookResponse{}, dispatchErr
	}
	return domain.WebhookResponse{Result: result}, nil
}

func (s *billingService) dispatchEvent(ctx context.Context, event *stripe.Event) (string, *entities.UserProfile, error) {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return "", nil, err
		}
		if sess.Subscription == nil || sess.Subscription.ID == "" {
			return domain.WebhookResultIgnoredEventType, nil, nil
		}
		sub, err := s.stripeClient.GetSubscription(sess.Subscription.ID)
		if err != nil {
			return "", nil, err
		}
		return s.syncForWebhook(ctx, sub)

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return "", nil, err
		}
		return s.syncForWebhook(ctx, &sub)

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return "", nil, err
		}
		if invoice.Subscription == nil || invoice.Subscription.ID == "" {
			return domain.WebhookResultIgnoredEventType, nil, nil
		}
		// Re-fetch: the invoice embeds a stale snapshot.
		sub, err := s.stripeClient.GetSubscription(invoice.Subscription.ID)
		if err != nil {
			return "", nil, err
		}
		return s.syncForWebhook(ctx, sub)

	default:
		return domain.WebhookResultIgnoredEventType, nil, nil
	}
}

func (s *billingService) syncForWebhook(ctx context.Context, sub *stripe.Subscription) (string, *entities.UserProfile, error) {
	profile, _, err := s.syncSubscription(ctx, sub)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WebhookResultUserNotFound, nil, nil
		}
		return "", nil, err
	}
	return domain.WebhookResultSynced, profile, nil
}
