package models

import "github.com/google/uuid"

type Product struct {
	BaseModel
	StoreID       uuid.UUID        `gorm:"type:uuid;index" json:"store_id"`
	Store         *Store           `json:"store,omitempty"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         float64          `json:"price"`
	DiscountPrice float64          `json:"discount_price"`
	Quantity      int              `json:"quantity"`
	IsActive      bool             `gorm:"default:true" json:"is_active"`
	Variants      []ProductVariant `json:"variants,omitempty"`
}

type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	SKU       string    `json:"sku"`
	Label     string    `json:"label"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}

// EffectivePrice returns the price a buyer currently pays for the product.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.Price {
		return p.DiscountPrice
	}
	return p.Price
}
