package entities

import "github.com/google/uuid"

type SubscriptionReconcileRun struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Actor   string    `gorm:"size:100" json:"actor"`
	Checked int       `json:"checked"`
	Updated int       `json:"updated"`
	Errors  int       `json:"errors"`

	Timestamp
}

type AuditLog struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Actor  string    `gorm:"size:100" json:"actor"`
	Action string    `gorm:"size:100;index" json:"action"`
	Detail string    `gorm:"type:text" json:"detail"`

	Timestamp
}
