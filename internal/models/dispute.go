package models

import (
	"time"

	"github.com/google/uuid"
)

type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "open"
	DisputeResolved DisputeStatus = "resolved"
	DisputeClosed   DisputeStatus = "closed"
)

const (
	DisputeWonByBuyer  = "buyer"
	DisputeWonBySeller = "seller"
)

// Dispute freezes escrow release for its store order while open.
type Dispute struct {
	BaseModel
	StoreOrderID uuid.UUID   `gorm:"type:uuid;index" json:"store_order_id"`
	StoreOrder   *StoreOrder `json:"store_order,omitempty"`
	OpenedByID   uuid.UUID   `gorm:"type:uuid;index" json:"opened_by_id"`
	Category     string      `json:"category"`
	Reason       string      `json:"reason"`
	Status       DisputeStatus `gorm:"index" json:"status"`
	WonBy        string      `json:"won_by"`
	Resolution   string      `json:"resolution"`
	ResolvedByID *uuid.UUID  `gorm:"type:uuid" json:"resolved_by_id"`
	ResolvedAt   *time.Time  `json:"resolved_at"`
}
