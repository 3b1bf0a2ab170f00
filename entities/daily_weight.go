package entities

import (
	"time"

	"github.com/google/uuid"
)

type DailyWeight struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         string    `gorm:"size:191;uniqueIndex:ux_daily_weights_user_date" json:"user_id"`
	EntryDate      time.Time `gorm:"type:date;uniqueIndex:ux_daily_weights_user_date" json:"entry_date"`
	WeightLbs      float64   `json:"weight_lbs"`
	BodyFatPercent *float64  `json:"body_fat_percent,omitempty"`

	Timestamp
}
