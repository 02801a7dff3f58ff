package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks the buyer-facing order as a whole.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderAccepted  OrderStatus = "accepted"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus tracks money movement on the order.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// StoreOrderStatus tracks the per-store partition of an order.
type StoreOrderStatus string

const (
	StoreOrderPendingAcceptance StoreOrderStatus = "pending_acceptance"
	StoreOrderAccepted          StoreOrderStatus = "accepted"
	StoreOrderRejected          StoreOrderStatus = "rejected"
	StoreOrderPaid              StoreOrderStatus = "paid"
	StoreOrderDelivered         StoreOrderStatus = "delivered"
	StoreOrderCancelled         StoreOrderStatus = "cancelled"
)

// validNext is the store order transition table. Transitions only move
// forward; rejected, cancelled and delivered are terminal.
var validNext = map[StoreOrderStatus]map[StoreOrderStatus]bool{
	StoreOrderPendingAcceptance: {StoreOrderAccepted: true, StoreOrderRejected: true},
	StoreOrderAccepted:          {StoreOrderPaid: true, StoreOrderCancelled: true},
	StoreOrderPaid:              {StoreOrderDelivered: true, StoreOrderCancelled: true},
	StoreOrderRejected:          {},
	StoreOrderDelivered:         {},
	StoreOrderCancelled:         {},
}

// CanTransition reports whether a store order may move from one status to
// another.
func CanTransition(from, to StoreOrderStatus) bool {
	return validNext[from][to]
}

// TransitionSources returns every status from which a store order may move
// to the given status. Services use it as the guard of their conditional
// updates so the transition table stays the single source of truth.
func TransitionSources(to StoreOrderStatus) []StoreOrderStatus {
	ordered := []StoreOrderStatus{
		StoreOrderPendingAcceptance,
		StoreOrderAccepted,
		StoreOrderPaid,
		StoreOrderRejected,
		StoreOrderDelivered,
		StoreOrderCancelled,
	}

	var sources []StoreOrderStatus
	for _, from := range ordered {
		if validNext[from][to] {
			sources = append(sources, from)
		}
	}
	return sources
}

// IsTerminal reports whether no further transitions are possible.
func (s StoreOrderStatus) IsTerminal() bool {
	return len(validNext[s]) == 0
}

// Order is the buyer-level record created at checkout. Core fields are
// immutable after creation except status and payment fields.
type Order struct {
	BaseModel
	UserID        uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	User          *User         `json:"user,omitempty"`
	OrderNumber   string        `gorm:"uniqueIndex" json:"order_number"`
	Status        OrderStatus   `gorm:"index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"index" json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`
	ItemsSubtotal float64       `json:"items_subtotal"`
	ShippingTotal float64       `json:"shipping_total"`
	PlatformFee   float64       `json:"platform_fee"`
	GrandTotal    float64       `json:"grand_total"`
	PlacedAt      time.Time     `json:"placed_at"`

	DeliveryAddressID *uuid.UUID `gorm:"type:uuid" json:"delivery_address_id"`
	DeliveryAddress   string     `json:"delivery_address"`
	DeliveryCity      string     `json:"delivery_city"`
	DeliveryState     string     `json:"delivery_state"`

	StoreOrders []StoreOrder `json:"store_orders,omitempty"`
}

// StoreOrder is the per-store partition of an order: one row per distinct
// store in the cart at placement time.
type StoreOrder struct {
	BaseModel
	OrderID uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Order   *Order    `json:"order,omitempty"`
	StoreID uuid.UUID `gorm:"type:uuid;index" json:"store_id"`
	Store   *Store    `json:"store,omitempty"`

	Status               StoreOrderStatus `gorm:"index" json:"status"`
	Subtotal             float64          `json:"subtotal"`
	ShippingFee          float64          `json:"shipping_fee"`
	SubtotalWithShipping float64          `json:"subtotal_with_shipping"`

	DeliveryMethod        string     `json:"delivery_method"`
	DeliveryNotes         string     `json:"delivery_notes"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`

	AcceptedAt      *time.Time `json:"accepted_at"`
	RejectedAt      *time.Time `json:"rejected_at"`
	RejectionReason string     `json:"rejection_reason"`
	PaidAt          *time.Time `json:"paid_at"`
	DeliveredAt     *time.Time `json:"delivered_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is an immutable line item snapshot under a store order.
type OrderItem struct {
	BaseModel
	StoreOrderID uuid.UUID  `gorm:"type:uuid;index" json:"store_order_id"`
	ProductID    *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	VariantID    *uuid.UUID `gorm:"type:uuid" json:"variant_id"`
	ProductName  string     `json:"product_name"`
	VariantLabel string     `json:"variant_label"`
	Quantity     int        `json:"quantity"`
	UnitPrice    float64    `json:"unit_price"`
	LineTotal    float64    `json:"line_total"`
}
