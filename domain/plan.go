package domain

const (
	PlanTierFree    = "free"
	PlanTierPremium = "premium"

	SubscriptionStatusActive   = "active"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusInactive = "inactive"

	PremiumSourceSubscription = "subscription"
	PremiumSourceAdminPass    = "admin_pass"
	PremiumSourceNone         = "none"

	AiActionExtractText  = "extract_text"
	AiActionExtractImage = "extract_image"

	GateReasonFoodLimit     = "food_entry_limit"
	GateReasonAiLimit       = "ai_action_limit"
	GateReasonHistoryWindow = "history_window"
)

var (
	MessageSuccessGetEntitlements = "entitlements retrieved successfully"
	MessageFailedGetEntitlements  = "failed to retrieve entitlements"

	MessageQuotaFoodEntries = "daily food entry limit reached, upgrade to premium for unlimited logging"
	MessageQuotaAiActions   = "daily AI action limit reached, upgrade to premium for unlimited AI assists"
	MessageHistoryWindow    = "that day is outside your history window, upgrade to premium to see your full history"

	MessageSuccessGrantPass  = "premium pass granted successfully"
	MessageFailedGrantPass   = "failed to grant premium pass"
	MessageSuccessRevokePass = "premium pass revoked successfully"
	MessageFailedRevokePass  = "failed to revoke premium pass"
)

type (
	// GrantPassRequest grants ad-hoc premium outside billing. A nil expiry
	// means the pass lasts until revoked.
	GrantPassRequest struct {
		UserID    string  `json:"user_id" validate:"required"`
		ExpiresAt *string `json:"expires_at" validate:"omitempty,datetime=2006-01-02"`
	}

	RevokePassRequest struct {
		UserID string `json:"user_id" validate:"required"`
	}

	// Entitlements is what the caller may do right now. Nil limits mean
	// unlimited. Always recomputed from the profile, never stored.
	Entitlements struct {
		IsPremium         bool   `json:"is_premium"`
		PremiumSource     string `json:"premium_source"` // "subscription", "admin_pass", "none"
		FoodEntriesPerDay *int   `json:"food_entries_per_day"`
		AiActionsPerDay   *int   `json:"ai_actions_per_day"`
		HistoryDays       *int   `json:"history_days"`
		ExportEnabled     bool   `json:"export_enabled"`
		UpgradeURL        string `json:"upgrade_url,omitempty"`
		MonthlyPriceCents int    `json:"monthly_price_cents,omitempty"`
	}

	// GateResult is a usage-gate outcome. When OK is false the Message is
	// returned to the end user verbatim.
	GateResult struct {
		OK      bool   `json:"ok"`
		Reason  string `json:"reason,omitempty"`
		Message string `json:"message,omitempty"`
		Limit   *int   `json:"limit,omitempty"`
		Used    int    `json:"used,omitempty"`
	}
)

// Allowed is the GateResult for an admitted action.
var Allowed = GateResult{OK: true}
