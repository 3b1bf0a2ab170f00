package entities

import "github.com/google/uuid"

// StripeWebhookEvent stores every delivered webhook once. The unique index on
// StripeEventID is the idempotency mechanism: a second delivery of the same
// event id fails the insert and is short-circuited as a duplicate.
type StripeWebhookEvent struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	StripeEventID string    `gorm:"size:191;uniqueIndex:ux_stripe_webhook_events_event_id" json:"stripe_event_id"`
	EventType     string    `gorm:"size:100;index" json:"event_type"`
	Payload       string    `gorm:"type:text" json:"payload"`

	Processed     bool   `gorm:"default:false" json:"processed"`
	ProcessResult string `gorm:"size:50" json:"process_result"` // "synced", "ignored_event_type", "user_not_found", "processing_failed"
	ErrorMessage  string `gorm:"type:text" json:"error_message,omitempty"`

	// Denormalized for observability only.
	UserID             string `gorm:"size:191;index" json:"user_id,omitempty"`
	SubscriptionID     string `gorm:"size:191" json:"subscription_id,omitempty"`
	SubscriptionStatus string `gorm:"size:30" json:"subscription_status,omitempty"`

	Timestamp
}
