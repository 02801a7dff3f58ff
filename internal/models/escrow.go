package models

import (
	"time"

	"github.com/google/uuid"
)

type EscrowStatus string

const (
	EscrowLocked   EscrowStatus = "locked"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
)

// Escrow holds a buyer-funded amount until delivery confirmation or dispute
// resolution. One row per paid order item, plus one shipping-fee row per
// store order; their amounts sum to the store order's subtotal_with_shipping.
type Escrow struct {
	BaseModel
	StoreOrderID uuid.UUID  `gorm:"type:uuid;index" json:"store_order_id"`
	StoreOrder   *StoreOrder `json:"store_order,omitempty"`
	OrderItemID  *uuid.UUID `gorm:"type:uuid" json:"order_item_id"`
	BuyerID      uuid.UUID  `gorm:"type:uuid;index" json:"buyer_id"`
	StoreID      uuid.UUID  `gorm:"type:uuid;index" json:"store_id"`
	Amount       float64    `json:"amount"`
	Status       EscrowStatus `gorm:"index" json:"status"`
	LockedAt     time.Time  `json:"locked_at"`
	ReleasedAt   *time.Time `json:"released_at"`
	RefundedAt   *time.Time `json:"refunded_at"`
}
