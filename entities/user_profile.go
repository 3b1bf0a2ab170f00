package entities

import "time"

type UserProfile struct {
	UserID string `gorm:"primary_key;size:191" json:"user_id"`
	Email  string `gorm:"size:255;index" json:"email,omitempty"`

	PlanTier              string     `gorm:"size:20;default:free" json:"plan_tier"` // "free", "premium"
	SubscriptionStatus    string     `gorm:"size:30;default:inactive" json:"subscription_status"`
	StripeCustomerID      string     `gorm:"size:191;index" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID  string     `gorm:"size:191;index" json:"stripe_subscription_id,omitempty"`
	SubscriptionPeriodEnd *time.Time `json:"subscription_current_period_end,omitempty"`

	PremiumPass          bool       `gorm:"default:false" json:"premium_pass"`
	PremiumPassExpiresAt *time.Time `json:"premium_pass_expires_at,omitempty"`

	GoalWeightLbs           *float64   `json:"goal_weight_lbs,omitempty"`
	GoalDate                *time.Time `json:"goal_date,omitempty"`
	GoalBodyFatPercent      *float64   `json:"goal_body_fat_percent,omitempty"`
	GoalBodyFatDate         *time.Time `json:"goal_body_fat_date,omitempty"`
	CurrentBodyFatPercent   *float64   `json:"current_body_fat_percent,omitempty"`
	CurrentBodyFatWeightLbs *float64   `json:"current_body_fat_weight_lbs,omitempty"`
	AutopilotEnabled        bool       `gorm:"default:false" json:"autopilot_enabled"`
	AutopilotMode           string     `gorm:"size:20;default:weight" json:"autopilot_mode"` // "weight", "bodyfat"
	AutopilotLastReviewWeek *time.Time `json:"autopilot_last_review_week,omitempty"`

	RolloverEnabled bool `gorm:"default:false" json:"rollover_enabled"`
	RolloverCap     int  `gorm:"default:500" json:"rollover_cap"`

	Timestamp
}
