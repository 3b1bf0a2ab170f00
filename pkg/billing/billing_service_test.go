package billing

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v79"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

func TestMain(m *testing.M) {
	os.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	utils.LoadConfig()
	os.Exit(m.Run())
}

type fakeBillingRepo struct {
	byUser     map[string]*entities.UserProfile
	byCustomer map[string]*entities.UserProfile
	events     map[string]*entities.StripeWebhookEvent
	updates    []*entities.StripeWebhookEvent
	runs       []*entities.SubscriptionReconcileRun
	audits     []*entities.AuditLog
}

func newFakeBillingRepo() *fakeBillingRepo {
	return &fakeBillingRepo{
		byUser:     make(map[string]*entities.UserProfile),
		byCustomer: make(map[string]*entities.UserProfile),
		events:     make(map[string]*entities.StripeWebhookEvent),
	}
}

func (f *fakeBillingRepo) addProfile(profile *entities.UserProfile) {
	f.byUser[profile.UserID] = profile
	if profile.StripeCustomerID != "" {
		f.byCustomer[profile.StripeCustomerID] = profile
	}
}

func (f *fakeBillingRepo) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	profile, ok := f.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (f *fakeBillingRepo) GetProfileByCustomerID(ctx context.Context, customerID string) (*entities.UserProfile, error) {
	profile, ok := f.byCustomer[customerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (f *fakeBillingRepo) ListProfilesWithStripeRef(ctx context.Context) ([]*entities.UserProfile, error) {
	var out []*entities.UserProfile
	for _, p := range f.byUser {
		if p.StripeSubscriptionID != "" || p.StripeCustomerID != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) SaveProfile(ctx context.Context, profile *entities.UserProfile) error {
	f.addProfile(profile)
	return nil
}

func (f *fakeBillingRepo) InsertWebhookEvent(ctx context.Context, event *entities.StripeWebhookEvent) (bool, error) {
	if _, ok := f.events[event.StripeEventID]; ok {
		return false, nil
	}
	f.events[event.StripeEventID] = event
	return true, nil
}

func (f *fakeBillingRepo) UpdateWebhookEvent(ctx context.Context, event *entities.StripeWebhookEvent) error {
	f.updates = append(f.updates, event)
	return nil
}

func (f *fakeBillingRepo) RecentWebhookEvents(ctx context.Context, limit int) ([]*entities.StripeWebhookEvent, error) {
	return nil, nil
}

func (f *fakeBillingRepo) AddReconcileRun(ctx context.Context, run *entities.SubscriptionReconcileRun) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeBillingRepo) RecentReconcileRuns(ctx context.Context, limit int) ([]*entities.SubscriptionReconcileRun, error) {
	return f.runs, nil
}

func (f *fakeBillingRepo) AddAuditLog(ctx context.Context, log *entities.AuditLog) error {
	f.audits = append(f.audits, log)
	return nil
}

type fakeStripeClient struct {
	subs   map[string]*stripe.Subscription
	errIDs map[string]bool
}

func (f *fakeStripeClient) GetSubscription(id string) (*stripe.Subscription, error) {
	if f.errIDs[id] {
		return nil, errors.New("stripe unreachable")
	}
	sub, ok := f.subs[id]
	if !ok {
		return nil, errors.New("no such subscription")
	}
	return sub, nil
}

func (f *fakeStripeClient) LatestSubscriptionForCustomer(customerID string) (*stripe.Subscription, error) {
	for _, sub := range f.subs {
		if sub.Customer != nil && sub.Customer.ID == customerID {
			return sub, nil
		}
	}
	return nil, nil
}

func (f *fakeStripeClient) CreateCustomer(userID string, email string) (string, error) {
	return "cus_new", nil
}

func (f *fakeStripeClient) CreateCheckoutSession(customerID, priceID, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	return &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.example/cs_1"}, nil
}

type fakeAlerter struct {
	calls int
}

func (f *fakeAlerter) ReconcileFailed(ctx context.Context, actor string, result domain.ReconcileResult) error {
	f.calls++
	return nil
}

func activeSub(id, customerID string) *stripe.Subscription {
	return &stripe.Subscription{
		ID:               id,
		Status:           stripe.SubscriptionStatusActive,
		Customer:         &stripe.Customer{ID: customerID},
		CurrentPeriodEnd: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).Unix(),
	}
}

func newTestBillingService(repo *fakeBillingRepo, client *fakeStripeClient, alerter *fakeAlerter) *billingService {
	return &billingService{
		billingRepository: repo,
		stripeClient:      client,
		alerter:           alerter,
		now:               func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) },
	}
}

func TestApplySubscriptionMapsStatusToTier(t *testing.T) {
	profile := &entities.UserProfile{UserID: "u1", PlanTier: domain.PlanTierFree, SubscriptionStatus: "inactive"}

	changed := applySubscription(profile, activeSub("sub_1", "cus_1"))
	assert.True(t, changed)
	assert.Equal(t, domain.PlanTierPremium, profile.PlanTier)
	assert.Equal(t, "active", profile.SubscriptionStatus)
	assert.Equal(t, "sub_1", profile.StripeSubscriptionID)
	assert.Equal(t, "cus_1", profile.StripeCustomerID)
	assert.NotNil(t, profile.SubscriptionPeriodEnd)

	// Same state again is convergent, not a change.
	changed = applySubscription(profile, activeSub("sub_1", "cus_1"))
	assert.False(t, changed)

	canceled := activeSub("sub_1", "cus_1")
	canceled.Status = stripe.SubscriptionStatusCanceled
	changed = applySubscription(profile, canceled)
	assert.True(t, changed)
	assert.Equal(t, domain.PlanTierFree, profile.PlanTier)
	assert.Equal(t, "canceled", profile.SubscriptionStatus)
}

func TestReconcileIsolatesPerItemFailures(t *testing.T) {
	repo := newFakeBillingRepo()
	repo.addProfile(&entities.UserProfile{UserID: "u1", StripeCustomerID: "cus_1", StripeSubscriptionID: "sub_1", PlanTier: domain.PlanTierFree, SubscriptionStatus: "inactive"})
	repo.addProfile(&entities.UserProfile{UserID: "u2", StripeCustomerID: "cus_2", StripeSubscriptionID: "sub_2", PlanTier: domain.PlanTierPremium, SubscriptionStatus: "active"})
	repo.addProfile(&entities.UserProfile{UserID: "u3", StripeCustomerID: "", StripeSubscriptionID: "sub_err"})

	client := &fakeStripeClient{
		subs: map[string]*stripe.Subscription{
			"sub_1": activeSub("sub_1", "cus_1"),
			"sub_2": activeSub("sub_2", "cus_2"),
		},
		errIDs: map[string]bool{"sub_err": true},
	}
	alerter := &fakeAlerter{}
	svc := newTestBillingService(repo, client, alerter)

	result, err := svc.ReconcileSubscriptions(context.Background(), "test")
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Checked)
	assert.Equal(t, 1, result.Updated) // only u1 actually changed
	assert.Equal(t, 1, result.Errors)

	assert.Equal(t, domain.PlanTierPremium, repo.byUser["u1"].PlanTier)

	if assert.Len(t, repo.runs, 1) {
		assert.Equal(t, "test", repo.runs[0].Actor)
		assert.Equal(t, 3, repo.runs[0].Checked)
		assert.Equal(t, 1, repo.runs[0].Errors)
	}
	assert.Equal(t, 1, alerter.calls)
}

func TestReconcileNoErrorsNoAlert(t *testing.T) {
	repo := newFakeBillingRepo()
	repo.addProfile(&entities.UserProfile{UserID: "u1", StripeCustomerID: "cus_1", StripeSubscriptionID: "sub_1", PlanTier: domain.PlanTierPremium, SubscriptionStatus: "active"})

	client := &fakeStripeClient{subs: map[string]*stripe.Subscription{"sub_1": activeSub("sub_1", "cus_1")}}
	alerter := &fakeAlerter{}
	svc := newTestBillingService(repo, client, alerter)

	result, err := svc.ReconcileSubscriptions(context.Background(), "scheduler")
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Errors)
	assert.Zero(t, alerter.calls)
	assert.Len(t, repo.runs, 1)
}

func TestCreateCheckoutCreatesCustomerOnce(t *testing.T) {
	repo := newFakeBillingRepo()
	repo.addProfile(&entities.UserProfile{UserID: "u1", Email: "a@b.com"})
	client := &fakeStripeClient{subs: map[string]*stripe.Subscription{}}
	svc := newTestBillingService(repo, client, &fakeAlerter{})

	res, err := svc.CreateCheckout(context.Background(), domain.CreateCheckoutRequest{
		SuccessURL: "https://app.example/ok",
		CancelURL:  "https://app.example/cancel",
	}, domain.Identity{UserID: "u1"})
	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.example/cs_1", res.URL)
	assert.Equal(t, "cus_new", repo.byUser["u1"].StripeCustomerID)
}

func signStripePayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := newTestBillingService(repo, &fakeStripeClient{}, &fakeAlerter{})

	payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated","data":{"object":{}}}`)
	_, err := svc.HandleWebhook(context.Background(), payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, domain.ErrWebhookSignature)
	// Nothing may be persisted before verification passes.
	assert.Empty(t, repo.events)
}

func TestHandleWebhookIgnoresUnknownEventType(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := newTestBillingService(repo, &fakeStripeClient{}, &fakeAlerter{})

	payload := []byte(`{"id":"evt_2","type":"charge.refunded","data":{"object":{}}}`)
	res, err := svc.HandleWebhook(context.Background(), payload, signStripePayload(payload, testWebhookSecret))
	assert.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, domain.WebhookResultIgnoredEventType, res.Result)
	assert.Contains(t, repo.events, "evt_2")
}

func TestHandleWebhookDeduplicatesByEventID(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := newTestBillingService(repo, &fakeStripeClient{}, &fakeAlerter{})

	payload := []byte(`{"id":"evt_3","type":"charge.refunded","data":{"object":{}}}`)
	sig := signStripePayload(payload, testWebhookSecret)

	first, err := svc.HandleWebhook(context.Background(), payload, sig)
	assert.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := svc.HandleWebhook(context.Background(), payload, sig)
	assert.NoError(t, err)
	assert.True(t, second.Duplicate)
}

func TestHandleWebhookSyncsSubscriptionUpdate(t *testing.T) {
	repo := newFakeBillingRepo()
	repo.addProfile(&entities.UserProfile{UserID: "u1", StripeCustomerID: "cus_1", PlanTier: domain.PlanTierFree, SubscriptionStatus: "inactive"})
	svc := newTestBillingService(repo, &fakeStripeClient{}, &fakeAlerter{})

	payload := []byte(`{"id":"evt_4","type":"customer.subscription.updated","data":{"object":{"id":"sub_1","status":"active","customer":"cus_1","current_period_end":1790000000}}}`)
	res, err := svc.HandleWebhook(context.Background(), payload, signStripePayload(payload, testWebhookSecret))
	assert.NoError(t, err)
	assert.Equal(t, domain.WebhookResultSynced, res.Result)

	profile := repo.byUser["u1"]
	assert.Equal(t, domain.PlanTierPremium, profile.PlanTier)
	assert.Equal(t, "active", profile.SubscriptionStatus)
	assert.Equal(t, "sub_1", profile.StripeSubscriptionID)
}

func TestHandleWebhookUnknownCustomerIsRecordedNotRetried(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := newTestBillingService(repo, &fakeStripeClient{}, &fakeAlerter{})

	payload := []byte(`{"id":"evt_5","type":"customer.subscription.updated","data":{"object":{"id":"sub_9","status":"active","customer":"cus_missing"}}}`)
	res, err := svc.HandleWebhook(context.Background(), payload, signStripePayload(payload, testWebhookSecret))
	assert.NoError(t, err)
	assert.Equal(t, domain.WebhookResultUserNotFound, res.Result)
}
