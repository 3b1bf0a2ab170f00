package domain

import "errors"

var (
	MessageSuccessWeighIn    = "weight recorded successfully"
	MessageSuccessGetWeights = "weights retrieved successfully"
	MessageFailedWeighIn     = "failed to record weight"
	MessageFailedGetWeights  = "failed to retrieve weights"

	ErrInvalidWeight = errors.New("weight must be positive")
)

type (
	WeighInRequest struct {
		EntryDate      string   `json:"entry_date" validate:"required,datetime=2006-01-02"`
		WeightLbs      float64  `json:"weight_lbs" validate:"required,gt=0,lte=2000"`
		BodyFatPercent *float64 `json:"body_fat_percent" validate:"omitempty,gte=1,lte=80"`
	}

	WeighInResponse struct {
		EntryDate      string   `json:"entry_date"`
		WeightLbs      float64  `json:"weight_lbs"`
		BodyFatPercent *float64 `json:"body_fat_percent,omitempty"`
	}
)
