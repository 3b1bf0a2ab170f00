package billing

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"context"
	"time"

	"github.com/stripe/stripe-go/v79"
)

type (
	BillingService interface {
		CreateCheckout(ctx context.Context, req domain.CreateCheckoutRequest, identity domain.Identity) (domain.CreateCheckoutResponse, error)
		GetSubscription(ctx context.Context, userID string) (domain.SubscriptionResponse, error)
		HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (domain.WebhookResponse, error)
		ReconcileSubscriptions(ctx context.Context, actor string) (domain.ReconcileResult, error)
		RecentRuns(ctx context.Context, limit int) ([]*entities.SubscriptionReconcileRun, error)
		RecentEvents(ctx context.Context, limit int) ([]*entities.StripeWebhookEvent, error)
	}

	billingService struct {
		billingRepository BillingRepository
		stripeClient      StripeClient
		alerter           Alerter
		now               func() time.Time
	}
)

func NewBillingService(billingRepository BillingRepository, stripeClient StripeClient, alerter Alerter) BillingService {
	return &billingService{
		billingRepository: billingRepository,
		stripeClient:      stripeClient,
		alerter:           alerter,
		now:               time.Now,
	}
}

func (s *billingService) CreateCheckout(ctx context.Context, req domain.CreateCheckoutRequest, identity domain.Identity) (domain.CreateCheckoutResponse, error) {
	profile, err := s.billingRepository.GetProfile(ctx, identity.UserID)
	if err != nil {
		return domain.CreateCheckoutResponse{}, err
	}

	customerID := profile.StripeCustomerID
	if customerID == "" {
		customerID, err = s.stripeClient.CreateCustomer(identity.UserID, profile.Email)
		if err != nil {
			return domain.CreateCheckoutResponse{}, err
		}
		profile.StripeCustomerID = customerID
		if err := s.billingRepository.SaveProfile(ctx, profile); err != nil {
			return domain.CreateCheckoutResponse{}, err
		}
	}

	sess, err := s.stripeClient.CreateCheckoutSession(customerID, utils.GetConfig("STRIPE_PRICE_ID"), req.SuccessURL, req.CancelURL)
	if err != nil {
		return domain.CreateCheckoutResponse{}, err
	}

	return domain.CreateCheckoutResponse{URL: sess.URL, SessionID: sess.ID}, nil
}

func (s *billingService) GetSubscription(ctx context.Context, userID string) (domain.SubscriptionResponse, error) {
	profile, err := s.billingRepository.GetProfile(ctx, userID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	source := domain.PremiumSourceNone
	if profile.PlanTier == domain.PlanTierPremium &&
		(profile.SubscriptionStatus == domain.SubscriptionStatusActive ||
			profile.SubscriptionStatus == domain.SubscriptionStatusTrialing) {
		source = domain.PremiumSourceSubscription
	} else if profile.PremiumPass &&
		(profile.PremiumPassExpiresAt == nil || profile.PremiumPassExpiresAt.After(s.now())) {
		source = domain.PremiumSourceAdminPass
	}

	resp := domain.SubscriptionResponse{
		PlanTier:           profile.PlanTier,
		SubscriptionStatus: profile.SubscriptionStatus,
		PremiumSource:      source,
	}
	if profile.SubscriptionPeriodEnd != nil {
		resp.PeriodEnd = profile.SubscriptionPeriodEnd.Format(time.RFC3339)
	}
	return resp, nil
}

func (s *billingService) RecentRuns(ctx context.Context, limit int) ([]*entities.SubscriptionReconcileRun, error) {
	return s.billingRepository.RecentReconcileRuns(ctx, limit)
}

func (s *billingService) RecentEvents(ctx context.Context, limit int) ([]*entities.StripeWebhookEvent, error) {
	return s.billingRepository.RecentWebhookEvents(ctx, limit)
}

// applySubscription maps external subscription state onto the profile.
// Returns whether anything observable changed.
func applySubscription(profile *entities.UserProfile, sub *stripe.Subscription) bool {
	changed := profile.SubscriptionStatus != string(sub.Status) ||
		profile.StripeSubscriptionID != sub.ID

	tier := domain.PlanTierFree
	if sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing {
		tier = domain.PlanTierPremium
	}

	profile.PlanTier = tier
	profile.SubscriptionStatus = string(sub.Status)
	profile.StripeSubscriptionID = sub.ID
	if sub.Customer != nil && sub.Customer.ID != "" {
		profile.StripeCustomerID = sub.Customer.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
		profile.SubscriptionPeriodEnd = &periodEnd
	}
	return changed
}

// syncSubscription persists external subscription state to the local user
// record it belongs to, found by customer id. Safe to call repeatedly for
// the same underlying state: the write is convergent.
func (s *billingService) syncSubscription(ctx context.Context, sub *stripe.Subscription) (*entities.UserProfile, bool, error) {
	if sub == nil || sub.Customer == nil || sub.Customer.ID == "" {
		return nil, false, domain.ErrSubscriptionLookup
	}

	profile, err := s.billingRepository.GetProfileByCustomerID(ctx, sub.Customer.ID)
	if err != nil {
		return nil, false, err
	}

	changed := applySubscription(profile, sub)
	if err := s.billingRepository.SaveProfile(ctx, profile); err != nil {
		return nil, false, err
	}
	return profile, changed, nil
}
