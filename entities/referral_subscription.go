package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReferralSubscription is a paid subscription purchased through a referral
// flow before the buyer ever signed up. It is claimed at most once, by the
// first verified user seen with a matching email.
type ReferralSubscription struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email                string    `gorm:"size:255;index" json:"email"`
	StripeCustomerID     string    `gorm:"size:191" json:"stripe_customer_id"`
	StripeSubscriptionID string    `gorm:"size:191" json:"stripe_subscription_id"`
	SubscriptionStatus   string    `gorm:"size:30" json:"subscription_status"`

	ClaimedBy string     `gorm:"size:191;index" json:"claimed_by,omitempty"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`

	Timestamp
}
