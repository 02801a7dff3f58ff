package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

func TestAcceptSetsFeeAndRecomputesTotal(t *testing.T) {
	f := newFixture(t)

	order, storeOrder := f.acceptedStoreOrder(4)

	if storeOrder.Status != models.StoreOrderAccepted {
		t.Errorf("store order status = %q, want accepted", storeOrder.Status)
	}
	if !almostEqual(storeOrder.ShippingFee, 4) {
		t.Errorf("shipping fee = %v, want 4", storeOrder.ShippingFee)
	}
	if !almostEqual(storeOrder.SubtotalWithShipping, 29) {
		t.Errorf("subtotal with shipping = %v, want 29", storeOrder.SubtotalWithShipping)
	}
	if storeOrder.AcceptedAt == nil {
		t.Error("accepted_at not set")
	}

	if got := f.orderByID(order.ID).Status; got != models.OrderAccepted {
		t.Errorf("order status = %q, want accepted", got)
	}
	if f.notificationCount(f.buyer.ID, "Order accepted") != 1 {
		t.Error("buyer was not notified of acceptance")
	}
}

func TestAcceptTwiceIsStateError(t *testing.T) {
	f := newFixture(t)

	_, storeOrder := f.acceptedStoreOrder(4)

	_, err := f.sellerOrders.Accept(f.seller.ID, storeOrder.ID, AcceptRequest{DeliveryFee: 9})
	if !apperr.IsKind(err, apperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}

	// The first acceptance must be untouched.
	var reloaded models.StoreOrder
	f.must(f.db.First(&reloaded, "id = ?", storeOrder.ID).Error)
	if !almostEqual(reloaded.ShippingFee, 4) {
		t.Errorf("shipping fee = %v, want 4 after failed re-accept", reloaded.ShippingFee)
	}
}

func TestAcceptRejectsNegativeFee(t *testing.T) {
	f := newFixture(t)
	order := f.placeStandardOrder()

	_, err := f.sellerOrders.Accept(f.seller.ID, order.StoreOrders[0].ID, AcceptRequest{DeliveryFee: -1})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAcceptByWrongSeller(t *testing.T) {
	f := newFixture(t)
	order := f.placeStandardOrder()

	intruder := f.createUser("intruder@example.com", models.RoleSeller)
	f.createStore(intruder, "Other Shop")

	_, err := f.sellerOrders.Accept(intruder.ID, order.StoreOrders[0].ID, AcceptRequest{})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	order := f.placeStandardOrder()

	_, err := f.sellerOrders.Reject(f.seller.ID, order.StoreOrders[0].ID, "")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRejectCascadesOrderCancellation(t *testing.T) {
	f := newFixture(t)
	order := f.placeStandardOrder()

	storeOrder, err := f.sellerOrders.Reject(f.seller.ID, order.StoreOrders[0].ID, "out of stock")
	f.must(err)

	if storeOrder.Status != models.StoreOrderRejected {
		t.Errorf("store order status = %q, want rejected", storeOrder.Status)
	}
	if storeOrder.RejectionReason != "out of stock" {
		t.Errorf("rejection reason = %q, want %q", storeOrder.RejectionReason, "out of stock")
	}

	// Sole store order rejected: the whole order cancels.
	if got := f.orderByID(order.ID).Status; got != models.OrderCancelled {
		t.Errorf("order status = %q, want cancelled", got)
	}
	if f.notificationCount(f.buyer.ID, "Order rejected") != 1 {
		t.Error("buyer was not notified of rejection")
	}
}

func TestRejectLeavesOrderAliveWhileSiblingsRemain(t *testing.T) {
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

	var first, second models.StoreOrder
	for _, so := range order.StoreOrders {
		if so.StoreID == f.store.ID {
			first = so
		} else {
			second = so
		}
	}

	_, err = f.sellerOrders.Reject(f.seller.ID, first.ID, "out of stock")
	f.must(err)

	if got := f.orderByID(order.ID).Status; got != models.OrderPending {
		t.Errorf("order status = %q, want pending while a sibling is live", got)
	}

	_, err = f.sellerOrders.Reject(otherSeller.ID, second.ID, "discontinued")
	f.must(err)

	if got := f.orderByID(order.ID).Status; got != models.OrderCancelled {
		t.Errorf("order status = %q, want cancelled once all siblings settled", got)
	}
}

func TestSellerOrderListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	f.acceptedStoreOrder(3)

	accepted, total, err := f.sellerOrders.List(f.seller.ID, string(models.StoreOrderAccepted), 10, 0)
	f.must(err)
	if total != 1 || len(accepted) != 1 {
		t.Fatalf("accepted list = %d rows (total %d), want 1", len(accepted), total)
	}

	_, total, err = f.sellerOrders.List(f.seller.ID, string(models.StoreOrderRejected), 10, 0)
	f.must(err)
	if total != 0 {
		t.Errorf("rejected total = %d, want 0", total)
	}
}
