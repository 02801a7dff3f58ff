package models

import "github.com/google/uuid"

// Cart is the mutable pre-order basket. One cart per buyer; cleared after
// a successful order placement.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// CartItem references a product (and optionally a variant) with the unit
// price snapshotted at add time. The snapshot is advisory only: checkout
// always recomputes from the live product row.
type CartItem struct {
	BaseModel
	CartID        uuid.UUID       `gorm:"type:uuid;index" json:"cart_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;index" json:"product_id"`
	Product       *Product        `json:"product,omitempty"`
	VariantID     *uuid.UUID      `gorm:"type:uuid" json:"variant_id"`
	Variant       *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Quantity      int             `json:"quantity"`
	SnapshotPrice float64         `json:"snapshot_price"`
}
