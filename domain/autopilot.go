package domain

var (
	MessageSuccessAutopilotReview = "autopilot review retrieved successfully"
	MessageSuccessAutopilotApply  = "autopilot decision recorded successfully"
	MessageFailedAutopilotReview  = "failed to compute autopilot review"
	MessageFailedAutopilotApply   = "failed to record autopilot decision"
	MessageAlreadyReviewed        = "autopilot already reviewed this week"
)

// Reason codes for a review that is not ready, in gate order.
const (
	ReasonAutopilotDisabled = "autopilot_disabled"
	ReasonNoCalorieGoal     = "no_calorie_goal"
	ReasonNotEnoughFoodDays = "not_enough_food_days"
	ReasonNotEnoughWeighIns = "not_enough_weighins"
	ReasonWeighInsTooClose  = "weighins_too_close"
	ReasonNoTargetWeight    = "no_target_weight"
	ReasonNoTargetBodyFat   = "no_target_bodyfat"
)

const (
	AutopilotModeWeight  = "weight"
	AutopilotModeBodyFat = "bodyfat"
)

type (
	// AutopilotReview is either a ready suggestion or a named
	// data-insufficiency state with remediation counts. Never an error.
	AutopilotReview struct {
		Ready  bool   `json:"ready"`
		Reason string `json:"reason,omitempty"`

		// Remediation hints for not-ready states.
		FoodDaysHave int `json:"food_days_have,omitempty"`
		FoodDaysNeed int `json:"food_days_need,omitempty"`
		WeighInsHave int `json:"weighins_have,omitempty"`
		WeighInsNeed int `json:"weighins_need,omitempty"`
		SpanDaysHave int `json:"span_days_have,omitempty"`
		SpanDaysNeed int `json:"span_days_need,omitempty"`

		// Populated when Ready.
		CurrentGoal         int     `json:"current_goal,omitempty"`
		SuggestedGoal       int     `json:"suggested_goal,omitempty"`
		ObservedRateLbsWeek float64 `json:"observed_rate_lbs_per_week,omitempty"`
		DesiredRateLbsWeek  float64 `json:"desired_rate_lbs_per_week,omitempty"`
		InferredMaintenance int     `json:"inferred_maintenance,omitempty"`
		TargetWeightLbs     float64 `json:"target_weight_lbs,omitempty"`
		AlreadyReviewedWeek bool    `json:"already_reviewed_week,omitempty"`
	}

	AutopilotDecisionRequest struct {
		Accept bool `json:"accept"`
	}

	AutopilotDecisionResponse struct {
		Applied       bool `json:"applied"`
		DailyCalories int  `json:"daily_calories,omitempty"`
	}
)
