package models

import "github.com/google/uuid"

// Store is a seller-owned storefront. One seller owns exactly one store.
type Store struct {
	BaseModel
	OwnerID          uuid.UUID         `gorm:"type:uuid;uniqueIndex" json:"owner_id"`
	Owner            *User             `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name             string            `json:"name"`
	Slug             string            `gorm:"uniqueIndex" json:"slug"`
	Description      string            `json:"description"`
	Location         string            `json:"location"`
	IsActive         bool              `gorm:"default:true" json:"is_active"`
	Products         []Product         `json:"products,omitempty"`
	DeliveryPricings []DeliveryPricing `json:"delivery_pricings,omitempty"`
}

// DeliveryPricing is a shipping option a store offers for an area.
type DeliveryPricing struct {
	BaseModel
	StoreID  uuid.UUID `gorm:"type:uuid;index" json:"store_id"`
	Label    string    `json:"label"`
	Area     string    `json:"area"`
	Price    float64   `json:"price"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
}
