package plan

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"context"
	"fmt"
	"time"
)

type (
	PlanService interface {
		GetEntitlements(ctx context.Context, userID string) (domain.Entitlements, error)
		EnforceFoodEntryLimit(ctx context.Context, userID string, date time.Time) (domain.GateResult, error)
		EnforceAiActionLimit(ctx context.Context, userID string, date time.Time, actionType string) (domain.GateResult, error)
		EnforceHistoryAccess(ctx context.Context, userID string, date time.Time) (domain.GateResult, error)
		GrantPremiumPass(ctx context.Context, req domain.GrantPassRequest) error
		RevokePremiumPass(ctx context.Context, req domain.RevokePassRequest) error
	}

	planService struct {
		planRepository PlanRepository
		now            func() time.Time
	}
)

func NewPlanService(planRepository PlanRepository) PlanService {
	return &planService{
		planRepository: planRepository,
		now:            time.Now,
	}
}

// IsSubscriptionPremium reports whether billing state alone grants premium.
func IsSubscriptionPremium(profile *entities.UserProfile) bool {
	return profile.PlanTier == domain.PlanTierPremium &&
		(profile.SubscriptionStatus == domain.SubscriptionStatusActive ||
			profile.SubscriptionStatus == domain.SubscriptionStatusTrialing)
}

// IsPassPremium reports whether an admin-granted pass grants premium at now.
// A nil expiry never expires; an expiry exactly in the past does not count.
func IsPassPremium(profile *entities.UserProfile, now time.Time) bool {
	if !profile.PremiumPass {
		return false
	}
	return profile.PremiumPassExpiresAt == nil || profile.PremiumPassExpiresAt.After(now)
}

// EntitlementsFor computes the entitlements for a profile at a point in time.
// Pure: access checks always recompute from the two underlying sources rather
// than trusting a stored plan_tier.
func EntitlementsFor(profile *entities.UserProfile, now time.Time, cfg utils.PlanConfig) domain.Entitlements {
	subscription := IsSubscriptionPremium(profile)
	pass := IsPassPremium(profile, now)

	source := domain.PremiumSourceNone
	if subscription {
		source = domain.PremiumSourceSubscription
	} else if pass {
		source = domain.PremiumSourceAdminPass
	}

	if subscription || pass {
		return domain.Entitlements{
			IsPremium:     true,
			PremiumSource: source,
			ExportEnabled: true,
		}
	}

	foodLimit := cfg.FreeFoodEntriesPerDay
	aiLimit := cfg.FreeAiActionsPerDay
	historyDays := cfg.FreeHistoryDays
	return domain.Entitlements{
		IsPremium:         false,
		PremiumSource:     domain.PremiumSourceNone,
		FoodEntriesPerDay: &foodLimit,
		AiActionsPerDay:   &aiLimit,
		HistoryDays:       &historyDays,
		ExportEnabled:     false,
		UpgradeURL:        cfg.UpgradeURL,
		MonthlyPriceCents: cfg.MonthlyPriceCents,
	}
}

func (s *planService) GetEntitlements(ctx context.Context, userID string) (domain.Entitlements, error) {
	profile, err := s.planRepository.GetProfile(ctx, userID)
	if err != nil {
		return domain.Entitlements{}, err
	}
	return EntitlementsFor(profile, s.now(), utils.GetPlanConfig()), nil
}

// EnforceFoodEntryLimit admits the entry when premium or under the daily
// limit. Check and write are separate statements: two requests at the
// boundary may both pass, overrunning by at most one. Accepted.
func (s *planService) EnforceFoodEntryLimit(ctx context.Context, userID string, date time.Time) (domain.GateResult, error) {
	ent, err := s.GetEntitlements(ctx, userID)
	if err != nil {
		return domain.GateResult{}, err
	}
	if ent.IsPremium {
		return domain.Allowed, nil
	}

	count, err := s.planRepository.CountFoodEntries(ctx, userID, date)
	if err != nil {
		return domain.GateResult{}, err
	}
	limit := *ent.FoodEntriesPerDay
	if int(count) < limit {
		return domain.Allowed, nil
	}
	return domain.GateResult{
		Reason:  domain.GateReasonFoodLimit,
		Message: domain.MessageQuotaFoodEntries,
		Limit:   ent.FoodEntriesPerDay,
		Used:    int(count),
	}, nil
}

// EnforceAiActionLimit consumes quota in the same call that checks it: when
// admitted, the usage row is written before the caller does anything else, so
// a downstream failure still costs the attempt. Premium users get the row too
// (analytics) but are never blocked.
func (s *planService) EnforceAiActionLimit(ctx context.Context, userID string, date time.Time, actionType string) (domain.GateResult, error) {
	ent, err := s.GetEntitlements(ctx, userID)
	if err != nil {
		return domain.GateResult{}, err
	}

	if !ent.IsPremium {
		count, err := s.planRepository.CountAiActions(ctx, userID, date)
		if err != nil {
			return domain.GateResult{}, err
		}
		limit := *ent.AiActionsPerDay
		if int(count) >= limit {
			return domain.GateResult{
				Reason:  domain.GateReasonAiLimit,
				Message: domain.MessageQuotaAiActions,
				Limit:   ent.AiActionsPerDay,
				Used:    int(count),
			}, nil
		}
	}

	if err := s.planRepository.RecordAiAction(ctx, userID, date, actionType); err != nil {
		return domain.GateResult{}, err
	}
	return domain.Allowed, nil
}

// GrantPremiumPass turns on ad-hoc premium for one user without touching
// billing state. The pass coexists with a subscription; a live subscription
// always wins as the reported premium source.
func (s *planService) GrantPremiumPass(ctx context.Context, req domain.GrantPassRequest) error {
	profile, err := s.planRepository.GetProfile(ctx, req.UserID)
	if err != nil {
		return err
	}

	profile.PremiumPass = true
	profile.PremiumPassExpiresAt = nil
	if req.ExpiresAt != nil {
		expires, err := utils.ParseCivilDate(*req.ExpiresAt)
		if err != nil {
			return err
		}
		// The pass covers the whole named day.
		endOfDay := expires.AddDate(0, 0, 1)
		profile.PremiumPassExpiresAt = &endOfDay
	}
	return s.planRepository.SaveProfile(ctx, profile)
}

func (s *planService) RevokePremiumPass(ctx context.Context, req domain.RevokePassRequest) error {
	profile, err := s.planRepository.GetProfile(ctx, req.UserID)
	if err != nil {
		return err
	}
	profile.PremiumPass = false
	profile.PremiumPassExpiresAt = nil
	return s.planRepository.SaveProfile(ctx, profile)
}

// EnforceHistoryAccess rejects reads strictly older than the free history
// window. The window includes today: min allowed = today - (historyDays - 1).
func (s *planService) EnforceHistoryAccess(ctx context.Context, userID string, date time.Time) (domain.GateResult, error) {
	ent, err := s.GetEntitlements(ctx, userID)
	if err != nil {
		return domain.GateResult{}, err
	}
	if ent.IsPremium {
		return domain.Allowed, nil
	}

	loc := utils.CivilLocation()
	today := utils.CivilDate(s.now(), loc)
	minAllowed := today.AddDate(0, 0, -(*ent.HistoryDays - 1))
	if date.Before(minAllowed) {
		return domain.GateResult{
			Reason: domain.GateReasonHistoryWindow,
			Message: fmt.Sprintf("%s (oldest visible day: %s)",
				domain.MessageHistoryWindow, utils.FormatCivilDate(minAllowed)),
			Limit: ent.HistoryDays,
		}, nil
	}
	return domain.Allowed, nil
}
