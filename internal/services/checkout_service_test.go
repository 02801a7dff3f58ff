package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

func TestPreviewTotals(t *testing.T) {
	f := newFixture(t)

	widget := f.addProduct(f.store, "Widget", 10)
	gadget := f.addProduct(f.store, "Gadget", 5)
	f.addToCart(widget, 2)
	f.addToCart(gadget, 1)

	preview, err := f.checkout.Preview(f.buyer.ID, f.checkoutRequest())
	f.must(err)

	if !almostEqual(preview.ItemsSubtotal, 25) {
		t.Errorf("items subtotal = %v, want 25", preview.ItemsSubtotal)
	}
	if !almostEqual(preview.ShippingTotal, 3) {
		t.Errorf("shipping total = %v, want 3", preview.ShippingTotal)
	}
	if !almostEqual(preview.GrandTotal, 28) {
		t.Errorf("grand total = %v, want 28", preview.GrandTotal)
	}
	if len(preview.Stores) != 1 {
		t.Fatalf("store count = %d, want 1", len(preview.Stores))
	}
	if !almostEqual(preview.Stores[0].Total, 28) {
		t.Errorf("store total = %v, want 28", preview.Stores[0].Total)
	}
	if len(preview.Stores[0].Items) != 2 {
		t.Errorf("item count = %d, want 2", len(preview.Stores[0].Items))
	}
}

func TestPreviewAppliesPlatformFee(t *testing.T) {
	f := newFixture(t)
	checkout := NewCheckoutService(f.db, 5, f.notifications, nil)

	widget := f.addProduct(f.store, "Widget", 10)
	gadget := f.addProduct(f.store, "Gadget", 5)
	f.addToCart(widget, 2)
	f.addToCart(gadget, 1)

	preview, err := checkout.Preview(f.buyer.ID, f.checkoutRequest())
	f.must(err)

	if !almostEqual(preview.PlatformFee, 1.25) {
		t.Errorf("platform fee = %v, want 1.25", preview.PlatformFee)
	}
	if !almostEqual(preview.GrandTotal, 29.25) {
		t.Errorf("grand total = %v, want 29.25", preview.GrandTotal)
	}
}

func TestPreviewUsesVariantPrice(t *testing.T) {
	f := newFixture(t)

	widget := f.addProduct(f.store, "Widget", 10)
	variant := models.ProductVariant{
		ProductID: widget.ID,
		Label:     "Large",
		Price:     12,
		Quantity:  10,
		IsActive:  true,
	}
	f.mustCreate(&variant)

	item := models.CartItem{
		CartID:    f.cart.ID,
		ProductID: widget.ID,
		VariantID: &variant.ID,
		Quantity:  2,
	}
	f.mustCreate(&item)

	preview, err := f.checkout.Preview(f.buyer.ID, f.checkoutRequest())
	f.must(err)

	if !almostEqual(preview.ItemsSubtotal, 24) {
		t.Errorf("items subtotal = %v, want 24 (variant price)", preview.ItemsSubtotal)
	}
	if preview.Stores[0].Items[0].VariantLabel != "Large" {
		t.Errorf("variant label = %q, want Large", preview.Stores[0].Items[0].VariantLabel)
	}
}

func TestPreviewUsesDiscountPrice(t *testing.T) {
	f := newFixture(t)

	widget := f.addProduct(f.store, "Widget", 10)
	f.must(f.db.Model(&widget).Update("discount_price", 8).Error)
	f.addToCart(widget, 1)

	preview, err := f.checkout.Preview(f.buyer.ID, f.checkoutRequest())
	f.must(err)

	if !almostEqual(preview.ItemsSubtotal, 8) {
		t.Errorf("items subtotal = %v, want 8 (discount price)", preview.ItemsSubtotal)
	}
}

func TestPreviewEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.checkout.Preview(f.buyer.ID, f.checkoutRequest())
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPreviewRejectsInactiveProduct(t *testing.T) {
	f := newFixture(t)

	widget := f.addProduct(f.store, "Widget", 10)
	f.addToCart(widget, 1)
	f.must(f.db.Model(&widget).Update("is_active", false).Error)

	_, err := f.checkout.Preview(f.buyer.ID, f.checkoutRequest())
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPreviewRequiresDeliveryOptionPerStore(t *testing.T) {
	f := newFixture(t)

	widget := f.addProduct(f.store, "Widget", 10)
	f.addToCart(widget, 1)

	req := f.checkoutRequest()
	req.DeliveryPricingIDs = nil

	_, err := f.checkout.Preview(f.buyer.ID, req)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPreviewRejectsForeignAddress(t *testing.T) {
	f := newFixture(t)

	widget := f.addProduct(f.store, "Widget", 10)
	f.addToCart(widget, 1)

	req := f.checkoutRequest()
	req.DeliveryAddressID = uuid.New()

	_, err := f.checkout.Preview(f.buyer.ID, req)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPlaceCreatesPendingOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)

	order := f.placeStandardOrder()

	if order.Status != models.OrderPending {
		t.Errorf("order status = %q, want pending", order.Status)
	}
	if order.PaymentStatus != models.PaymentUnpaid {
		t.Errorf("payment status = %q, want unpaid", order.PaymentStatus)
	}
	if order.OrderNumber == "" {
		t.Error("order number is empty")
	}
	if !almostEqual(order.GrandTotal, 28) {
		t.Errorf("grand total = %v, want 28", order.GrandTotal)
	}

	storeOrder := order.StoreOrders[0]
	if storeOrder.Status != models.StoreOrderPendingAcceptance {
		t.Errorf("store order status = %q, want pending_acceptance", storeOrder.Status)
	}
	if len(storeOrder.Items) != 2 {
		t.Errorf("order item count = %d, want 2", len(storeOrder.Items))
	}

	var remaining int64
	f.must(f.db.Model(&models.CartItem{}).Where("cart_id = ?", f.cart.ID).Count(&remaining).Error)
	if remaining != 0 {
		t.Errorf("cart items remaining = %d, want 0", remaining)
	}

	if f.notificationCount(f.seller.ID, "New order received") != 1 {
		t.Error("seller was not notified of the new order")
	}
}

func TestPlaceSplitsOrderPerStore(t *testing.T) {
	f := newFixture(t)

	otherSeller := f.createUser("seller2@example.com", models.RoleSeller)
	otherStore := f.createStore(otherSeller, "Book Nook")
	otherPricing := f.createDeliveryPricing(otherStore, "Express", 2)

	widget := f.addProduct(f.store, "Widget", 10)
	book := f.addProduct(otherStore, "Book", 7)
	f.addToCart(widget, 1)
	f.addToCart(book, 1)

	req := f.checkoutRequest()
	req.DeliveryPricingIDs = []uuid.UUID{f.pricing.ID, otherPricing.ID}

	order, err := f.checkout.Place(f.buyer.ID, req)
	f.must(err)

	if len(order.StoreOrders) != 2 {
		t.Fatalf("store order count = %d, want 2", len(order.StoreOrders))
	}
	if !almostEqual(order.ItemsSubtotal, 17) {
		t.Errorf("items subtotal = %v, want 17", order.ItemsSubtotal)
	}
	if !almostEqual(order.ShippingTotal, 5) {
		t.Errorf("shipping total = %v, want 5", order.ShippingTotal)
	}

	for _, storeOrder := range order.StoreOrders {
		if !almostEqual(storeOrder.SubtotalWithShipping, storeOrder.Subtotal+storeOrder.ShippingFee) {
			t.Errorf("store order total %v != subtotal %v + shipping %v",
				storeOrder.SubtotalWithShipping, storeOrder.Subtotal, storeOrder.ShippingFee)
		}
	}
}

func TestPlaceSnapshotsLivePriceNotCartSnapshot(t *testing.T) {
	f := newFixture(t)

	widget := f.addProduct(f.store, "Widget", 10)
	item := f.addToCart(widget, 1)

	// Stale snapshot must not leak into the order.
	f.must(f.db.Model(&item).Update("snapshot_price", 1).Error)

	order, err := f.checkout.Place(f.buyer.ID, f.checkoutRequest())
	f.must(err)

	if !almostEqual(order.StoreOrders[0].Items[0].UnitPrice, 10) {
		t.Errorf("unit price = %v, want live price 10", order.StoreOrders[0].Items[0].UnitPrice)
	}
}
