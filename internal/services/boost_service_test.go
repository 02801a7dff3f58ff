package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

func TestBoostCreateValidation(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(f.store, "Widget", 10)

	if _, err := f.boosts.Create(f.seller.ID, widget.ID, 0); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("zero budget: expected validation error, got %v", err)
	}
	if _, err := f.boosts.Create(f.seller.ID, uuid.New(), 100); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("foreign product: expected not found, got %v", err)
	}
}

func TestBoostDerivedMetrics(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(f.store, "Widget", 10)

	campaign, err := f.boosts.Create(f.seller.ID, widget.ID, 1000)
	f.must(err)

	metrics, err := f.boosts.Get(f.seller.ID, campaign.ID)
	f.must(err)

	if !almostEqual(metrics.EstimatedDailyImpressions, 4500) {
		t.Errorf("estimated impressions = %v, want 4500", metrics.EstimatedDailyImpressions)
	}
	if !almostEqual(metrics.EstimatedDailyClicks, 54) {
		t.Errorf("estimated clicks = %v, want 54", metrics.EstimatedDailyClicks)
	}
	if !almostEqual(metrics.CostPerClick, 1000.0/54) {
		t.Errorf("cost per click = %v, want %v", metrics.CostPerClick, 1000.0/54)
	}
}

func TestBoostImpressionAccruesSpend(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(f.store, "Widget", 10)
	campaign, err := f.boosts.Create(f.seller.ID, widget.ID, 500)
	f.must(err)

	for i := 0; i < 3; i++ {
		f.must(f.boosts.RecordEvent(campaign.ID, BoostEventImpression))
	}
	f.must(f.boosts.RecordEvent(campaign.ID, BoostEventClick))
	f.must(f.boosts.RecordEvent(campaign.ID, BoostEventAddToCart))

	var reloaded models.BoostCampaign
	f.must(f.db.First(&reloaded, "id = ?", campaign.ID).Error)

	if reloaded.Impressions != 3 {
		t.Errorf("impressions = %d, want 3", reloaded.Impressions)
	}
	if reloaded.Clicks != 1 {
		t.Errorf("clicks = %d, want 1", reloaded.Clicks)
	}
	if reloaded.AddToCarts != 1 {
		t.Errorf("add_to_carts = %d, want 1", reloaded.AddToCarts)
	}

	// Only impressions accrue spend, at the fixed per-impression rate.
	want := 3 * (1000.0 / models.BoostImpressionsPerThousand)
	if !almostEqual(reloaded.AmountSpent, want) {
		t.Errorf("amount spent = %v, want %v", reloaded.AmountSpent, want)
	}
}

func TestBoostEventOnInactiveCampaignIsNoop(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(f.store, "Widget", 10)
	campaign, err := f.boosts.Create(f.seller.ID, widget.ID, 500)
	f.must(err)
	f.must(f.boosts.SetStatus(f.seller.ID, campaign.ID, models.BoostPaused))

	// Silent no-op: no error, no counter movement.
	f.must(f.boosts.RecordEvent(campaign.ID, BoostEventImpression))

	var reloaded models.BoostCampaign
	f.must(f.db.First(&reloaded, "id = ?", campaign.ID).Error)
	if reloaded.Impressions != 0 || reloaded.AmountSpent != 0 {
		t.Errorf("paused campaign moved: impressions=%d spent=%v", reloaded.Impressions, reloaded.AmountSpent)
	}

	f.must(f.boosts.RecordEvent(uuid.New(), BoostEventImpression))
}

func TestBoostUnknownEventType(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(f.store, "Widget", 10)
	campaign, err := f.boosts.Create(f.seller.ID, widget.ID, 500)
	f.must(err)

	if err := f.boosts.RecordEvent(campaign.ID, "hover"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBoostCompletesWhenBudgetExhausted(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(f.store, "Widget", 10)

	// One impression spends 1000/4500, more than this budget.
	campaign, err := f.boosts.Create(f.seller.ID, widget.ID, 0.2)
	f.must(err)

	f.must(f.boosts.RecordEvent(campaign.ID, BoostEventImpression))

	var reloaded models.BoostCampaign
	f.must(f.db.First(&reloaded, "id = ?", campaign.ID).Error)
	if reloaded.Status != models.BoostCompleted {
		t.Fatalf("campaign status = %q, want completed", reloaded.Status)
	}

	// Completed campaigns stop counting.
	f.must(f.boosts.RecordEvent(campaign.ID, BoostEventImpression))
	f.must(f.db.First(&reloaded, "id = ?", campaign.ID).Error)
	if reloaded.Impressions != 1 {
		t.Errorf("impressions = %d, want 1 after completion", reloaded.Impressions)
	}

	// And cannot be reactivated.
	if err := f.boosts.SetStatus(f.seller.ID, campaign.ID, models.BoostActive); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found reactivating completed campaign, got %v", err)
	}
}

func TestBoostListScopedToSeller(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(f.store, "Widget", 10)
	_, err := f.boosts.Create(f.seller.ID, widget.ID, 100)
	f.must(err)

	otherSeller := f.createUser("seller2@example.com", models.RoleSeller)
	f.createStore(otherSeller, "Book Nook")

	own, err := f.boosts.List(f.seller.ID)
	f.must(err)
	if len(own) != 1 {
		t.Errorf("own campaign count = %d, want 1", len(own))
	}

	others, err := f.boosts.List(otherSeller.ID)
	f.must(err)
	if len(others) != 0 {
		t.Errorf("other seller campaign count = %d, want 0", len(others))
	}
}
