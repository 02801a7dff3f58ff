package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment records a confirmed payment against an order. Gateway specifics
// stay outside this service; only the confirmation reference is kept.
type Payment struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Reference string    `gorm:"uniqueIndex" json:"reference"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
}
