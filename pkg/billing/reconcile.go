package billing

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
)

// ReconcileSubscriptions re-fetches authoritative subscription state for
// every user with a Stripe reference and corrects local drift. One user's
// lookup failure never aborts the batch.
func (s *billingService) ReconcileSubscriptions(ctx context.Context, actor string) (domain.ReconcileResult, error) {
	profiles, err := s.billingRepository.ListProfilesWithStripeRef(ctx)
	if err != nil {
		return domain.ReconcileResult{}, err
	}

	var result domain.ReconcileResult
	for _, profile := range profiles {
		result.Checked++

		sub, err := s.fetchCurrentSubscription(profile)
		if err != nil {
			log.Errorf("reconcile: lookup failed for user %s: %v", profile.UserID, err)
			result.Errors++
			continue
		}
		if sub == nil {
			continue
		}

		changed := applySubscription(profile, sub)
		if err := s.billingRepository.SaveProfile(ctx, profile); err != nil {
			log.Errorf("reconcile: save failed for user %s: %v", profile.UserID, err)
			result.Errors++
			continue
		}
		if changed {
			result.Updated++
		}
	}

	s.recordRun(ctx, actor, result)

	if result.Errors > 0 {
		s.deliverAlert(ctx, actor, result)
	}
	return result, nil
}

// fetchCurrentSubscription prefers the stored subscription id and falls back
// to the customer's most recent subscription when the id is stale or missing.
func (s *billingService) fetchCurrentSubscription(profile *entities.UserProfile) (*stripe.Subscription, error) {
	if profile.StripeSubscriptionID != "" {
		sub, err := s.stripeClient.GetSubscription(profile.StripeSubscriptionID)
		if err == nil {
			return sub, nil
		}
		if profile.StripeCustomerID == "" {
			return nil, err
		}
		log.Warnf("reconcile: stored subscription %s stale for user %s, falling back to customer lookup", profile.StripeSubscriptionID, profile.UserID)
	}
	if profile.StripeCustomerID == "" {
		return nil, domain.ErrNoStripeReference
	}
	return s.stripeClient.LatestSubscriptionForCustomer(profile.StripeCustomerID)
}

// recordRun always appends the run summary and audit row, whatever the
// outcome of the batch.
func (s *billingService) recordRun(ctx context.Context, actor string, result domain.ReconcileResult) {
	run := &entities.SubscriptionReconcileRun{
		ID:      uuid.New(),
		Actor:   actor,
		Checked: result.Checked,
		Updated: result.Updated,
		Errors:  result.Errors,
	}
	if err := s.billingRepository.AddReconcileRun(ctx, run); err != nil {
		log.Errorf("reconcile: failed to record run summary: %v", err)
	}

	if utils.GetFeatures().AuditLog {
		entry := &entities.AuditLog{
			ID:     uuid.New(),
			Actor:  actor,
			Action: "subscription_reconcile",
			Detail: fmt.Sprintf("checked=%d updated=%d errors=%d", result.Checked, result.Updated, result.Errors),
		}
		if err := s.billingRepository.AddAuditLog(ctx, entry); err != nil {
			log.Errorf("reconcile: failed to record audit log: %v", err)
		}
	}
}

// deliverAlert is best effort: its own failure is recorded and never fails
// the reconciliation call.
func (s *billingService) deliverAlert(ctx context.Context, actor string, result domain.ReconcileResult) {
	err := s.alerter.ReconcileFailed(ctx, actor, result)

	if utils.GetFeatures().AuditLog {
		detail := "alert delivered"
		if err != nil {
			detail = fmt.Sprintf("alert delivery failed: %v", err)
		}
		entry := &entities.AuditLog{
			ID:     uuid.New(),
			Actor:  actor,
			Action: "subscription_reconcile_alert",
			Detail: detail,
		}
		if logErr := s.billingRepository.AddAuditLog(ctx, entry); logErr != nil {
			log.Errorf("reconcile: failed to record alert outcome: %v", logErr)
		}
	}
	if err != nil {
		log.Errorf("reconcile: alert delivery failed: %v", err)
	}
}
