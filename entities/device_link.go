package entities

import "github.com/google/uuid"

// DeviceLink maps a self-declared device identifier to the verified user it
// was last seen with. One device belongs to at most one user.
type DeviceLink struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DeviceID string    `gorm:"size:200;uniqueIndex:ux_device_links_device_id" json:"device_id"`
	UserID   string    `gorm:"size:191;index" json:"user_id"`

	Timestamp
}
