package domain

import "errors"

var (
	MessageSuccessGetGoal = "calorie goal retrieved successfully"
	MessageSuccessSetGoal = "calorie goal updated successfully"
	MessageFailedGetGoal  = "failed to retrieve calorie goal"
	MessageFailedSetGoal  = "failed to update calorie goal"

	ErrNoCalorieGoal = errors.New("no calorie goal set")
)

const (
	RolloverCapMin = 0
	RolloverCapMax = 2000
)

type (
	SetGoalRequest struct {
		DailyCalories int `json:"daily_calories" validate:"required,gte=0,lte=20000"`
	}

	// RolloverResult is recomputed on every goal read, never persisted.
	RolloverResult struct {
		Enabled       bool `json:"enabled"`
		Cap           int  `json:"cap"`
		Delta         int  `json:"delta"`
		EffectiveGoal int  `json:"effective_goal"`
	}

	GoalResponse struct {
		DailyCalories int            `json:"daily_calories"`
		Rollover      RolloverResult `json:"rollover"`
	}
)
