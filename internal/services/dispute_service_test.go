package services

import (
	"testing"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

func TestOpenDisputeRequiresPaidOrder(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.acceptedStoreOrder(3)

	_, err := f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_delivered", "never arrived")
	if !apperr.IsKind(err, apperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
}

func TestOpenDisputeRequiresReason(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.paidStoreOrder()

	_, err := f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_delivered", "")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOpenDisputeRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.paidStoreOrder()

	_, err := f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_delivered", "never arrived")
	f.must(err)

	_, err = f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_delivered", "still nothing")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOpenDisputeNotifiesSeller(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.paidStoreOrder()

	dispute, err := f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_as_described", "wrong color")
	f.must(err)

	if dispute.Status != models.DisputeOpen {
		t.Errorf("dispute status = %q, want open", dispute.Status)
	}
	if f.notificationCount(f.seller.ID, "Dispute opened") != 1 {
		t.Error("seller was not notified of the dispute")
	}
}

func TestResolveBuyerWonRefundsBuyer(t *testing.T) {
	f := newFixture(t)
	order, storeOrder := f.paidStoreOrder()

	dispute, err := f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_delivered", "never arrived")
	f.must(err)

	resolved, err := f.disputes.Resolve(f.adminUser.ID, dispute.ID, models.DisputeWonByBuyer, "seller missed delivery window")
	f.must(err)

	if resolved.Status != models.DisputeResolved {
		t.Errorf("dispute status = %q, want resolved", resolved.Status)
	}
	if resolved.WonBy != models.DisputeWonByBuyer {
		t.Errorf("won_by = %q, want buyer", resolved.WonBy)
	}
	if got := f.storeOrderStatus(storeOrder.ID); got != models.StoreOrderCancelled {
		t.Errorf("store order status = %q, want cancelled", got)
	}

	for _, row := range f.escrowRows(storeOrder.ID) {
		if row.Status != models.EscrowRefunded {
			t.Errorf("escrow status = %q, want refunded", row.Status)
		}
	}

	wallet := f.wallet(f.buyer.ID)
	if !almostEqual(wallet.ShoppingBalance, storeOrder.SubtotalWithShipping) {
		t.Errorf("buyer refund = %v, want %v", wallet.ShoppingBalance, storeOrder.SubtotalWithShipping)
	}

	// All escrow of the order is refunded, so the order settles as refunded.
	if got := f.orderByID(order.ID).PaymentStatus; got != models.PaymentRefunded {
		t.Errorf("order payment status = %q, want refunded", got)
	}
}

func TestResolveSellerWonReleasesEscrow(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.paidStoreOrder()

	dispute, err := f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_as_described", "wrong color")
	f.must(err)

	resolved, err := f.disputes.Resolve(f.adminUser.ID, dispute.ID, models.DisputeWonBySeller, "photos match the listing")
	f.must(err)

	if resolved.WonBy != models.DisputeWonBySeller {
		t.Errorf("won_by = %q, want seller", resolved.WonBy)
	}
	if got := f.storeOrderStatus(storeOrder.ID); got != models.StoreOrderDelivered {
		t.Errorf("store order status = %q, want delivered", got)
	}

	wallet := f.wallet(f.seller.ID)
	if !almostEqual(wallet.EarningsBalance, storeOrder.SubtotalWithShipping) {
		t.Errorf("seller earnings = %v, want %v", wallet.EarningsBalance, storeOrder.SubtotalWithShipping)
	}
}

func TestResolveTwiceIsStateError(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.paidStoreOrder()

	dispute, err := f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_delivered", "never arrived")
	f.must(err)
	_, err = f.disputes.Resolve(f.adminUser.ID, dispute.ID, models.DisputeWonBySeller, "resolved")
	f.must(err)

	_, err = f.disputes.Resolve(f.adminUser.ID, dispute.ID, models.DisputeWonByBuyer, "changed my mind")
	if !apperr.IsKind(err, apperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
}

func TestResolveRejectsUnknownWinner(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.paidStoreOrder()

	dispute, err := f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_delivered", "never arrived")
	f.must(err)

	_, err = f.disputes.Resolve(f.adminUser.ID, dispute.ID, "platform", "nobody wins")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDisputeVisibility(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.paidStoreOrder()

	dispute, err := f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_delivered", "never arrived")
	f.must(err)

	// Opener and seller can read it; a stranger cannot.
	if _, err := f.disputes.Get(f.buyer.ID, dispute.ID); err != nil {
		t.Errorf("buyer cannot read own dispute: %v", err)
	}
	if _, err := f.disputes.Get(f.seller.ID, dispute.ID); err != nil {
		t.Errorf("seller cannot read dispute on their store: %v", err)
	}

	stranger := f.createUser("stranger@example.com", models.RoleBuyer)
	if _, err := f.disputes.Get(stranger.ID, dispute.ID); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("expected authorization error for stranger, got %v", err)
	}

	sellerView, total, err := f.disputes.List(f.seller.ID, 10, 0)
	f.must(err)
	if total != 1 || len(sellerView) != 1 {
		t.Errorf("seller dispute list = %d rows (total %d), want 1", len(sellerView), total)
	}
}
