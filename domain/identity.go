package domain

import "errors"

var (
	MessageSuccessSession       = "session issued successfully"
	MessageFailedSession        = "failed to issue session"
	MessageSuccessGetProfile    = "profile retrieved successfully"
	MessageFailedGetProfile     = "failed to retrieve profile"
	MessageSuccessUpdateProfile = "profile updated successfully"
	MessageFailedUpdateProfile  = "failed to update profile"

	ErrInvalidDeviceID = errors.New("device id must match [A-Za-z0-9._-]{12,200}")
)

type (
	// Identity is the resolved caller, passed explicitly into every handler
	// and service instead of being read from ambient state.
	Identity struct {
		UserID       string `json:"user_id"`
		IdentityType string `json:"identity_type"` // "user", "device_linked", "device_anonymous"
		Email        string `json:"email,omitempty"`
	}

	// Assertion is a verified claim from the auth layer (JWT subject).
	Assertion struct {
		Subject string
		Email   string
	}

	CreateSessionRequest struct {
		DeviceID string `json:"device_id" validate:"required,min=12,max=200"`
	}

	CreateSessionResponse struct {
		Token        string `json:"token"`
		UserID       string `json:"user_id"`
		IdentityType string `json:"identity_type"`
	}

	ProfileResponse struct {
		UserID                  string   `json:"user_id"`
		Email                   string   `json:"email,omitempty"`
		PlanTier                string   `json:"plan_tier"`
		SubscriptionStatus      string   `json:"subscription_status"`
		GoalWeightLbs           *float64 `json:"goal_weight_lbs,omitempty"`
		GoalDate                string   `json:"goal_date,omitempty"`
		GoalBodyFatPercent      *float64 `json:"goal_body_fat_percent,omitempty"`
		GoalBodyFatDate         string   `json:"goal_body_fat_date,omitempty"`
		CurrentBodyFatPercent   *float64 `json:"current_body_fat_percent,omitempty"`
		CurrentBodyFatWeightLbs *float64 `json:"current_body_fat_weight_lbs,omitempty"`
		AutopilotEnabled        bool     `json:"autopilot_enabled"`
		AutopilotMode           string   `json:"autopilot_mode"`
		RolloverEnabled         bool     `json:"rollover_enabled"`
		RolloverCap             int      `json:"rollover_cap"`
	}

	UpdateProfileRequest struct {
		GoalWeightLbs           *float64 `json:"goal_weight_lbs" validate:"omitempty,gt=0"`
		GoalDate                *string  `json:"goal_date" validate:"omitempty,datetime=2006-01-02"`
		GoalBodyFatPercent      *float64 `json:"goal_body_fat_percent" validate:"omitempty,gte=1,lte=80"`
		GoalBodyFatDate         *string  `json:"goal_body_fat_date" validate:"omitempty,datetime=2006-01-02"`
		CurrentBodyFatPercent   *float64 `json:"current_body_fat_percent" validate:"omitempty,gte=1,lte=80"`
		CurrentBodyFatWeightLbs *float64 `json:"current_body_fat_weight_lbs" validate:"omitempty,gt=0"`
		AutopilotEnabled        *bool    `json:"autopilot_enabled"`
		AutopilotMode           *string  `json:"autopilot_mode" validate:"omitempty,oneof=weight bodyfat"`
		RolloverEnabled         *bool    `json:"rollover_enabled"`
		RolloverCap             *int     `json:"rollover_cap" validate:"omitempty,gte=0,lte=2000"`
	}
)
