package services

import (
	"testing"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

func TestAdminCancelPaidOrderRefundsBuyer(t *testing.T) {
	f := newFixture(t)
	order, storeOrder := f.paidStoreOrder()

	cancelled, err := f.admin.CancelStoreOrder(storeOrder.ID, "seller unresponsive")
	f.must(err)

	if cancelled.Status != models.StoreOrderCancelled {
		t.Errorf("store order status = %q, want cancelled", cancelled.Status)
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

	reloadedOrder := f.orderByID(order.ID)
	if reloadedOrder.PaymentStatus != models.PaymentRefunded {
		t.Errorf("order payment status = %q, want refunded", reloadedOrder.PaymentStatus)
	}
	if reloadedOrder.Status != models.OrderCancelled {
		t.Errorf("order status = %q, want cancelled", reloadedOrder.Status)
	}

	if f.notificationCount(f.buyer.ID, "Order cancelled") != 1 {
		t.Error("buyer was not notified of cancellation")
	}
}

func TestAdminCancelAcceptedOrderSkipsRefund(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.acceptedStoreOrder(3)

	cancelled, err := f.admin.CancelStoreOrder(storeOrder.ID, "fraud review")
	f.must(err)

	if cancelled.Status != models.StoreOrderCancelled {
		t.Errorf("store order status = %q, want cancelled", cancelled.Status)
	}
	if rows := f.escrowRows(storeOrder.ID); len(rows) != 0 {
		t.Errorf("escrow rows = %d, want 0 for unpaid cancellation", len(rows))
	}
	if got := f.wallet(f.buyer.ID).ShoppingBalance; got != 0 {
		t.Errorf("buyer balance = %v, want 0", got)
	}
}

func TestAdminCancelClosesOpenDispute(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.paidStoreOrder()

	dispute, err := f.disputes.Open(f.buyer.ID, storeOrder.ID, "not_delivered", "never arrived")
	f.must(err)

	_, err = f.admin.CancelStoreOrder(storeOrder.ID, "seller unresponsive")
	f.must(err)

	// The dispute's subject is gone: it must close, not linger open.
	var reloaded models.Dispute
	f.must(f.db.First(&reloaded, "id = ?", dispute.ID).Error)
	if reloaded.Status != models.DisputeClosed {
		t.Errorf("dispute status = %q, want closed", reloaded.Status)
	}
	if reloaded.ResolvedAt == nil {
		t.Error("resolved_at not set on closed dispute")
	}

	// Resolution is off the table either way once the dispute is closed.
	if _, err := f.disputes.Resolve(f.adminUser.ID, dispute.ID, models.DisputeWonBySeller, "too late"); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("seller-win resolve after cancel: expected state error, got %v", err)
	}
	if _, err := f.disputes.Resolve(f.adminUser.ID, dispute.ID, models.DisputeWonByBuyer, "too late"); !apperr.IsKind(err, apperr.KindState) {
		t.Errorf("buyer-win resolve after cancel: expected state error, got %v", err)
	}

	// The buyer still gets the escrow back.
	for _, row := range f.escrowRows(storeOrder.ID) {
		if row.Status != models.EscrowRefunded {
			t.Errorf("escrow status = %q, want refunded", row.Status)
		}
	}
	wallet := f.wallet(f.buyer.ID)
	if !almostEqual(wallet.ShoppingBalance, storeOrder.SubtotalWithShipping) {
		t.Errorf("buyer refund = %v, want %v", wallet.ShoppingBalance, storeOrder.SubtotalWithShipping)
	}
}

func TestAdminCancelPendingOrderIsStateError(t *testing.T) {
	f := newFixture(t)
	order := f.placeStandardOrder()

	_, err := f.admin.CancelStoreOrder(order.StoreOrders[0].ID, "too early")
	if !apperr.IsKind(err, apperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
}

func TestAdminCancelDeliveredOrderIsStateError(t *testing.T) {
	f := newFixture(t)
	_, storeOrder := f.paidStoreOrder()
	_, err := f.payment.ConfirmDelivered(f.buyer.ID, storeOrder.ID)
	f.must(err)

	_, err = f.admin.CancelStoreOrder(storeOrder.ID, "too late")
	if !apperr.IsKind(err, apperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
}
