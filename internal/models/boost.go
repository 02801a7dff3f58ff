package models

import "github.com/google/uuid"

type BoostStatus string

const (
	BoostActive    BoostStatus = "active"
	BoostPaused    BoostStatus = "paused"
	BoostCompleted BoostStatus = "completed"
)

// Fixed CPM/CTR model for boost accounting: every 1000 units of budget buys
// an estimated 4500 daily impressions, of which 1.2% convert to clicks.
const (
	BoostImpressionsPerThousand = 4500.0
	BoostClickThroughRate       = 0.012
)

// BoostCampaign is a paid promotional campaign for a product. Counters are
// incremented with single atomic updates; spend accrues proportionally per
// impression.
type BoostCampaign struct {
	BaseModel
	StoreID   uuid.UUID `gorm:"type:uuid;index" json:"store_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`

	DailyBudget float64     `json:"daily_budget"`
	Status      BoostStatus `gorm:"index" json:"status"`

	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	AddToCarts  int64   `json:"add_to_carts"`
	AmountSpent float64 `json:"amount_spent"`
}

// EstimatedDailyImpressions derives reach from the fixed CPM model.
func (b *BoostCampaign) EstimatedDailyImpressions() float64 {
	return b.DailyBudget / 1000.0 * BoostImpressionsPerThousand
}

// EstimatedDailyClicks applies the fixed click-through rate.
func (b *BoostCampaign) EstimatedDailyClicks() float64 {
	return b.EstimatedDailyImpressions() * BoostClickThroughRate
}

// CostPerClick is the budget spread over estimated clicks.
func (b *BoostCampaign) CostPerClick() float64 {
	clicks := b.EstimatedDailyClicks()
	if clicks == 0 {
		return 0
	}
	return b.DailyBudget / clicks
}

// SpendPerImpression is the accrual added for each recorded impression.
func (b *BoostCampaign) SpendPerImpression() float64 {
	impressions := b.EstimatedDailyImpressions()
	if impressions == 0 {
		return 0
	}
	return b.DailyBudget / impressions
}
