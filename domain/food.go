package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddEntry    = "food entry added successfully"
	MessageSuccessGetEntries  = "food entries retrieved successfully"
	MessageSuccessDeleteEntry = "food entry deleted successfully"
	MessageSuccessAiEntry     = "nutrition extracted and logged successfully"
	MessageSuccessExport      = "export generated successfully"

	MessageFailedAddEntry    = "failed to add food entry"
	MessageFailedGetEntries  = "failed to retrieve food entries"
	MessageFailedDeleteEntry = "failed to delete food entry"
	MessageFailedAiEntry     = "failed to extract nutrition"
	MessageFailedExport      = "failed to generate export"
	MessageExportPremiumOnly = "export is a premium feature"

	ErrEntryNotFound    = errors.New("food entry not found")
	ErrInvalidEntryDate = errors.New("invalid entry date")
	ErrInvalidCalories  = errors.New("calories must not be negative")
	ErrExtractionFailed = errors.New("nutrition extraction failed")
	ErrExportNotPremium = errors.New("export requires premium")
)

type (
	AddFoodEntryRequest struct {
		EntryDate   string   `json:"entry_date" validate:"required,datetime=2006-01-02"`
		Description string   `json:"description" validate:"required,max=500"`
		Calories    int      `json:"calories" validate:"gte=0"`
		ProteinG    *float64 `json:"protein_g" validate:"omitempty,gte=0"`
		CarbsG      *float64 `json:"carbs_g" validate:"omitempty,gte=0"`
		FatG        *float64 `json:"fat_g" validate:"omitempty,gte=0"`
	}

	AiFoodEntryRequest struct {
		EntryDate   string `json:"entry_date" validate:"required,datetime=2006-01-02"`
		Description string `json:"description" validate:"required,max=1000"`
	}

	FoodEntryResponse struct {
		ID          string    `json:"id"`
		EntryDate   string    `json:"entry_date"`
		TakenAt     time.Time `json:"taken_at"`
		Description string    `json:"description"`
		Calories    int       `json:"calories"`
		ProteinG    *float64  `json:"protein_g,omitempty"`
		CarbsG      *float64  `json:"carbs_g,omitempty"`
		FatG        *float64  `json:"fat_g,omitempty"`
		Source      string    `json:"source,omitempty"`
		Confidence  float64   `json:"confidence,omitempty"`
		Estimated   bool      `json:"estimated,omitempty"`
		Notes       string    `json:"notes,omitempty"`
	}

	DayTotalsResponse struct {
		EntryDate     string  `json:"entry_date"`
		TotalCalories int     `json:"total_calories"`
		TotalProteinG float64 `json:"total_protein_g"`
		TotalCarbsG   float64 `json:"total_carbs_g"`
		TotalFatG     float64 `json:"total_fat_g"`
		EntryCount    int     `json:"entry_count"`
	}

	ExportResponse struct {
		URL     string `json:"url"`
		Entries int    `json:"entries"`
	}
)
