package entities

import (
	"time"

	"github.com/google/uuid"
)

type FoodEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    string    `gorm:"size:191;index:idx_food_entries_user_date" json:"user_id"`
	EntryDate time.Time `gorm:"type:date;index:idx_food_entries_user_date" json:"entry_date"`
	TakenAt   time.Time `json:"taken_at"`

	Description string   `gorm:"size:500" json:"description"`
	Calories    int      `json:"calories"`
	ProteinG    *float64 `json:"protein_g,omitempty"`
	CarbsG      *float64 `json:"carbs_g,omitempty"`
	FatG        *float64 `json:"fat_g,omitempty"`

	// Provenance of AI-extracted entries.
	ExtractionSource     string  `gorm:"size:30" json:"extraction_source,omitempty"` // "manual", "ai_text", "ai_image"
	ExtractionConfidence float64 `json:"extraction_confidence,omitempty"`
	Estimated            bool    `gorm:"default:false" json:"estimated"`
	ExtractionNotes      string  `gorm:"type:text" json:"extraction_notes,omitempty"`

	Timestamp
}

// FoodEntryArchive mirrors FoodEntry for rows moved out of the hot table
// after the retention window.
type FoodEntryArchive struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"size:191;index" json:"user_id"`
	EntryDate time.Time `gorm:"type:date;index" json:"entry_date"`
	TakenAt   time.Time `json:"taken_at"`

	Description string   `gorm:"size:500" json:"description"`
	Calories    int      `json:"calories"`
	ProteinG    *float64 `json:"protein_g,omitempty"`
	CarbsG      *float64 `json:"carbs_g,omitempty"`
	FatG        *float64 `json:"fat_g,omitempty"`

	ExtractionSource     string  `gorm:"size:30" json:"extraction_source,omitempty"`
	ExtractionConfidence float64 `json:"extraction_confidence,omitempty"`
	Estimated            bool    `gorm:"default:false" json:"estimated"`
	ExtractionNotes      string  `gorm:"type:text" json:"extraction_notes,omitempty"`

	ArchivedAt time.Time `json:"archived_at"`
	Timestamp
}
