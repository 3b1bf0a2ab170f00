package entities

import (
	"time"

	"github.com/google/uuid"
)

type AiUsageEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     string    `gorm:"size:191;index:idx_ai_usage_user_date" json:"user_id"`
	EntryDate  time.Time `gorm:"type:date;index:idx_ai_usage_user_date" json:"entry_date"`
	ActionType string    `gorm:"size:50" json:"action_type"`

	Timestamp
}
