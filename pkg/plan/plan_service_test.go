package plan

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	utils.LoadConfig()
	os.Exit(m.Run())
}

type fakePlanRepo struct {
	profile   *entities.UserProfile
	foodCount int64
	aiCount   int64
	recorded  []string
}

func (f *fakePlanRepo) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	return f.profile, nil
}

func (f *fakePlanRepo) SaveProfile(ctx context.Context, profile *entities.UserProfile) error {
	f.profile = profile
	return nil
}

func (f *fakePlanRepo) CountFoodEntries(ctx context.Context, userID string, date time.Time) (int64, error) {
	return f.foodCount, nil
}

func (f *fakePlanRepo) CountAiActions(ctx context.Context, userID string, date time.Time) (int64, error) {
	return f.aiCount, nil
}

func (f *fakePlanRepo) RecordAiAction(ctx context.Context, userID string, date time.Time, actionType string) error {
	f.recorded = append(f.recorded, actionType)
	return nil
}

func newTestPlanService(repo *fakePlanRepo, now time.Time) *planService {
	return &planService{
		planRepository: repo,
		now:            func() time.Time { return now },
	}
}

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func freeProfile() *entities.UserProfile {
	return &entities.UserProfile{
		UserID:             "u1",
		PlanTier:           domain.PlanTierFree,
		SubscriptionStatus: domain.SubscriptionStatusInactive,
	}
}

func premiumProfile() *entities.UserProfile {
	return &entities.UserProfile{
		UserID:             "u1",
		PlanTier:           domain.PlanTierPremium,
		SubscriptionStatus: domain.SubscriptionStatusActive,
	}
}

func TestEntitlementsForFreeUser(t *testing.T) {
	ent := EntitlementsFor(freeProfile(), testNow, utils.GetPlanConfig())

	assert.False(t, ent.IsPremium)
	assert.Equal(t, domain.PremiumSourceNone, ent.PremiumSource)
	assert.Equal(t, 5, *ent.FoodEntriesPerDay)
	assert.Equal(t, 5, *ent.AiActionsPerDay)
	assert.Equal(t, 20, *ent.HistoryDays)
	assert.False(t, ent.ExportEnabled)
}

func TestEntitlementsForSubscription(t *testing.T) {
	ent := EntitlementsFor(premiumProfile(), testNow, utils.GetPlanConfig())

	assert.True(t, ent.IsPremium)
	assert.Equal(t, domain.PremiumSourceSubscription, ent.PremiumSource)
	assert.Nil(t, ent.FoodEntriesPerDay)
	assert.Nil(t, ent.AiActionsPerDay)
	assert.Nil(t, ent.HistoryDays)
	assert.True(t, ent.ExportEnabled)
}

func TestEntitlementsTrialingCountsAsPremium(t *testing.T) {
	profile := premiumProfile()
	profile.SubscriptionStatus = domain.SubscriptionStatusTrialing

	ent := EntitlementsFor(profile, testNow, utils.GetPlanConfig())
	assert.True(t, ent.IsPremium)
	assert.Equal(t, domain.PremiumSourceSubscription, ent.PremiumSource)
}

func TestEntitlementsPremiumPass(t *testing.T) {
	future := testNow.Add(24 * time.Hour)
	profile := freeProfile()
	profile.PremiumPass = true
	profile.PremiumPassExpiresAt = &future

	ent := EntitlementsFor(profile, testNow, utils.GetPlanConfig())
	assert.True(t, ent.IsPremium)
	assert.Equal(t, domain.PremiumSourceAdminPass, ent.PremiumSource)
}

func TestEntitlementsExpiredPassIsFree(t *testing.T) {
	past := testNow.Add(-time.Minute)
	profile := freeProfile()
	profile.PremiumPass = true
	profile.PremiumPassExpiresAt = &past

	ent := EntitlementsFor(profile, testNow, utils.GetPlanConfig())
	assert.False(t, ent.IsPremium)
}

func TestEntitlementsPassExpiringExactlyNowIsExpired(t *testing.T) {
	exact := testNow
	profile := freeProfile()
	profile.PremiumPass = true
	profile.PremiumPassExpiresAt = &exact

	assert.False(t, IsPassPremium(profile, testNow))
}

func TestEntitlementsSubscriptionWinsOverPass(t *testing.T) {
	profile := premiumProfile()
	profile.PremiumPass = true

	ent := EntitlementsFor(profile, testNow, utils.GetPlanConfig())
	assert.Equal(t, domain.PremiumSourceSubscription, ent.PremiumSource)
}

func TestFoodEntryGateUnderLimit(t *testing.T) {
	repo := &fakePlanRepo{profile: freeProfile(), foodCount: 4}
	svc := newTestPlanService(repo, testNow)

	gate, err := svc.EnforceFoodEntryLimit(context.Background(), "u1", testNow)
	assert.NoError(t, err)
	assert.True(t, gate.OK)
}

func TestFoodEntryGateAtLimit(t *testing.T) {
	repo := &fakePlanRepo{profile: freeProfile(), foodCount: 5}
	svc := newTestPlanService(repo, testNow)

	gate, err := svc.EnforceFoodEntryLimit(context.Background(), "u1", testNow)
	assert.NoError(t, err)
	assert.False(t, gate.OK)
	assert.Equal(t, domain.GateReasonFoodLimit, gate.Reason)
	assert.Equal(t, domain.MessageQuotaFoodEntries, gate.Message)
	assert.Equal(t, 5, *gate.Limit)
	assert.Equal(t, 5, gate.Used)
}

func TestFoodEntryGatePremiumUnlimited(t *testing.T) {
	repo := &fakePlanRepo{profile: premiumProfile(), foodCount: 500}
	svc := newTestPlanService(repo, testNow)

	gate, err := svc.EnforceFoodEntryLimit(context.Background(), "u1", testNow)
	assert.NoError(t, err)
	assert.True(t, gate.OK)
}

func TestAiGateConsumesQuotaOnAdmit(t *testing.T) {
	repo := &fakePlanRepo{profile: freeProfile(), aiCount: 4}
	svc := newTestPlanService(repo, testNow)

	gate, err := svc.EnforceAiActionLimit(context.Background(), "u1", testNow, domain.AiActionExtractText)
	assert.NoError(t, err)
	assert.True(t, gate.OK)
	assert.Equal(t, []string{domain.AiActionExtractText}, repo.recorded)
}

func TestAiGateDeniedWritesNothing(t *testing.T) {
	repo := &fakePlanRepo{profile: freeProfile(), aiCount: 5}
	svc := newTestPlanService(repo, testNow)

	gate, err := svc.EnforceAiActionLimit(context.Background(), "u1", testNow, domain.AiActionExtractText)
	assert.NoError(t, err)
	assert.False(t, gate.OK)
	assert.Equal(t, domain.GateReasonAiLimit, gate.Reason)
	assert.Empty(t, repo.recorded)
}

func TestAiGatePremiumStillRecordsUsage(t *testing.T) {
	repo := &fakePlanRepo{profile: premiumProfile(), aiCount: 100}
	svc := newTestPlanService(repo, testNow)

	gate, err := svc.EnforceAiActionLimit(context.Background(), "u1", testNow, domain.AiActionExtractImage)
	assert.NoError(t, err)
	assert.True(t, gate.OK)
	assert.Len(t, repo.recorded, 1)
}

func TestHistoryGateWindowEdges(t *testing.T) {
	repo := &fakePlanRepo{profile: freeProfile()}
	svc := newTestPlanService(repo, testNow)

	loc := utils.CivilLocation()
	today := utils.CivilDate(testNow, loc)

	// Oldest visible day: today - 19 with a 20-day window.
	gate, err := svc.EnforceHistoryAccess(context.Background(), "u1", today.AddDate(0, 0, -19))
	assert.NoError(t, err)
	assert.True(t, gate.OK)

	gate, err = svc.EnforceHistoryAccess(context.Background(), "u1", today.AddDate(0, 0, -20))
	assert.NoError(t, err)
	assert.False(t, gate.OK)
	assert.Equal(t, domain.GateReasonHistoryWindow, gate.Reason)
}

func TestHistoryGatePremiumUnbounded(t *testing.T) {
	repo := &fakePlanRepo{profile: premiumProfile()}
	svc := newTestPlanService(repo, testNow)

	gate, err := svc.EnforceHistoryAccess(context.Background(), "u1", testNow.AddDate(-3, 0, 0))
	assert.NoError(t, err)
	assert.True(t, gate.OK)
}

func TestGrantAndRevokePremiumPass(t *testing.T) {
	repo := &fakePlanRepo{profile: freeProfile()}
	svc := newTestPlanService(repo, testNow)

	expires := "2026-09-30"
	err := svc.GrantPremiumPass(context.Background(), domain.GrantPassRequest{UserID: "u1", ExpiresAt: &expires})
	assert.NoError(t, err)
	assert.True(t, repo.profile.PremiumPass)
	if assert.NotNil(t, repo.profile.PremiumPassExpiresAt) {
		// Pass covers the whole named day.
		assert.Equal(t, "2026-10-01", repo.profile.PremiumPassExpiresAt.Format("2006-01-02"))
	}

	err = svc.RevokePremiumPass(context.Background(), domain.RevokePassRequest{UserID: "u1"})
	assert.NoError(t, err)
	assert.False(t, repo.profile.PremiumPass)
	assert.Nil(t, repo.profile.PremiumPassExpiresAt)
}
