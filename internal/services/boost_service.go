package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

// Boost event types accepted by RecordEvent.
const (
	BoostEventImpression = "impression"
	BoostEventClick      = "click"
	BoostEventAddToCart  = "add_to_cart"
)

// BoostService manages promotional campaigns and their counters. Counter
// updates are single atomic statements guarded by the active status, so
// concurrent traffic cannot lose increments and inactive campaigns are
// silent no-ops.
type BoostService struct {
	db *gorm.DB
}

// NewBoostService constructs BoostService.
func NewBoostService(db *gorm.DB) *BoostService {
	return &BoostService{db: db}
}

// Create starts a campaign for one of the seller's products.
func (s *BoostService) Create(sellerID, productID uuid.UUID, dailyBudget float64) (*models.BoostCampaign, error) {
	if dailyBudget <= 0 {
		return nil, apperr.Validation("daily_budget must be positive")
	}

	store, err := storeForSeller(s.db, sellerID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ? AND store_id = ?", productID, store.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("product not found in your store")
		}
		return nil, apperr.Wrap("failed to load product", err)
	}

	campaign := models.BoostCampaign{
		StoreID:     store.ID,
		ProductID:   productID,
		DailyBudget: dailyBudget,
		Status:      models.BoostActive,
	}
	if err := s.db.Create(&campaign).Error; err != nil {
		return nil, apperr.Wrap("failed to create boost campaign", err)
	}

	return &campaign, nil
}

// RecordEvent increments the matching counter with one atomic update. Only
// impressions accrue spend: the CPM model prices reach, and click cost is a
// derived metric. Events against non-active campaigns match no row and do
// nothing. Callers treat failures as best-effort telemetry.
func (s *BoostService) RecordEvent(campaignID uuid.UUID, eventType string) error {
	updates := map[string]interface{}{}

	switch eventType {
	case BoostEventImpression:
		updates["impressions"] = gorm.Expr("impressions + 1")
		// Spend per impression reduces to a constant under the fixed model:
		// budget / (budget/1000 * 4500) = 1000/4500.
		updates["amount_spent"] = gorm.Expr("amount_spent + ?", 1000.0/models.BoostImpressionsPerThousand)
	case BoostEventClick:
		updates["clicks"] = gorm.Expr("clicks + 1")
	case BoostEventAddToCart:
		updates["add_to_carts"] = gorm.Expr("add_to_carts + 1")
	default:
		return apperr.Validationf("unknown boost event type %q", eventType)
	}

	result := s.db.Model(&models.BoostCampaign{}).
		Where("id = ? AND status = ?", campaignID, models.BoostActive).
		Updates(updates)
	if result.Error != nil {
		return apperr.Wrap("failed to record boost event", result.Error)
	}
	if result.RowsAffected == 0 {
		// Inactive or unknown campaign: deliberate no-op.
		return nil
	}

	// Exhausted budgets complete the campaign. Racing events past the exact
	// budget line are acceptable for telemetry.
	if err := s.db.Model(&models.BoostCampaign{}).
		Where("id = ? AND status = ? AND amount_spent >= daily_budget", campaignID, models.BoostActive).
		Update("status", models.BoostCompleted).Error; err != nil {
		return apperr.Wrap("failed to complete boost campaign", err)
	}

	return nil
}

// CampaignMetrics pairs a campaign with its derived figures.
type CampaignMetrics struct {
	models.BoostCampaign
	EstimatedDailyImpressions float64 `json:"estimated_daily_impressions"`
	EstimatedDailyClicks      float64 `json:"estimated_daily_clicks"`
	CostPerClick              float64 `json:"cost_per_click"`
}

// List returns the seller's campaigns with derived metrics.
func (s *BoostService) List(sellerID uuid.UUID) ([]CampaignMetrics, error) {
	store, err := storeForSeller(s.db, sellerID)
	if err != nil {
		return nil, err
	}

	var campaigns []models.BoostCampaign
	if err := s.db.Preload("Product").Where("store_id = ?", store.ID).
		Order("created_at desc").Find(&campaigns).Error; err != nil {
		return nil, apperr.Wrap("failed to list boost campaigns", err)
	}

	out := make([]CampaignMetrics, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, withMetrics(c))
	}
	return out, nil
}

// Get returns one of the seller's campaigns with derived metrics.
func (s *BoostService) Get(sellerID, campaignID uuid.UUID) (*CampaignMetrics, error) {
	store, err := storeForSeller(s.db, sellerID)
	if err != nil {
		return nil, err
	}

	var campaign models.BoostCampaign
	if err := s.db.Preload("Product").
		First(&campaign, "id = ? AND store_id = ?", campaignID, store.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("boost campaign not found")
		}
		return nil, apperr.Wrap("failed to load boost campaign", err)
	}

	metrics := withMetrics(campaign)
	return &metrics, nil
}

// SetStatus pauses or resumes a campaign.
func (s *BoostService) SetStatus(sellerID, campaignID uuid.UUID, status models.BoostStatus) error {
	if status != models.BoostActive && status != models.BoostPaused {
		return apperr.Validation("status must be active or paused")
	}

	store, err := storeForSeller(s.db, sellerID)
	if err != nil {
		return err
	}

	result := s.db.Model(&models.BoostCampaign{}).
		Where("id = ? AND store_id = ? AND status != ?", campaignID, store.ID, models.BoostCompleted).
		Update("status", status)
	if result.Error != nil {
		return apperr.Wrap("failed to update boost campaign", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("boost campaign not found or already completed")
	}
	return nil
}

func withMetrics(c models.BoostCampaign) CampaignMetrics {
	return CampaignMetrics{
		BoostCampaign:             c,
		EstimatedDailyImpressions: c.EstimatedDailyImpressions(),
		EstimatedDailyClicks:      c.EstimatedDailyClicks(),
		CostPerClick:              c.CostPerClick(),
	}
}
