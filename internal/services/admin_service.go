package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

// AdminService covers administrative interventions in the order lifecycle.
type AdminService struct {
	db            *gorm.DB
	escrow        *EscrowService
	notifications *NotificationService
}

// NewAdminService constructs AdminService.
func NewAdminService(db *gorm.DB, escrow *EscrowService, notifications *NotificationService) *AdminService {
	return &AdminService{db: db, escrow: escrow, notifications: notifications}
}

// CancelStoreOrder administratively cancels an accepted or paid store
// order. Paid orders get their escrow refunded to the buyer.
func (s *AdminService) CancelStoreOrder(storeOrderID uuid.UUID, reason string) (*models.StoreOrder, error) {
	var storeOrder models.StoreOrder
	if err := s.db.Preload("Order").First(&storeOrder, "id = ?", storeOrderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("store order not found")
		}
		return nil, apperr.Wrap("failed to load store order", err)
	}

	wasPaid := storeOrder.Status == models.StoreOrderPaid

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.StoreOrder{}).
			Where("id = ? AND status IN ?", storeOrder.ID, models.TransitionSources(models.StoreOrderCancelled)).
			Update("status", models.StoreOrderCancelled)
		if result.Error != nil {
			return apperr.Wrap("failed to cancel store order", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.State("only accepted or paid orders can be cancelled")
		}

		// Any open dispute loses its subject once the order cancels and the
		// escrow refunds, so it closes here rather than staying open with
		// nothing left to arbitrate.
		now := time.Now()
		if err := tx.Model(&models.Dispute{}).
			Where("store_order_id = ? AND status = ?", storeOrder.ID, models.DisputeOpen).
			Updates(map[string]interface{}{
				"status":      models.DisputeClosed,
				"resolution":  "store order cancelled by an administrator",
				"resolved_at": &now,
			}).Error; err != nil {
			return apperr.Wrap("failed to close disputes", err)
		}

		if wasPaid {
			amount, err := s.escrow.Refund(tx, &storeOrder, storeOrder.Order.UserID)
			if err != nil {
				return err
			}
			if err := markOrderRefundedIfSettled(tx, storeOrder.OrderID); err != nil {
				return err
			}
			s.notifications.Notify(tx, storeOrder.Order.UserID, "Order cancelled",
				fmt.Sprintf("Order %s was cancelled. %.2f has been refunded to your wallet. Reason: %s",
					storeOrder.Order.OrderNumber, amount, reason))
		} else {
			s.notifications.Notify(tx, storeOrder.Order.UserID, "Order cancelled",
				fmt.Sprintf("Order %s was cancelled. Reason: %s", storeOrder.Order.OrderNumber, reason))
		}

		if err := cascadeOrderCancellation(tx, storeOrder.OrderID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var reloaded models.StoreOrder
	if err := s.db.First(&reloaded, "id = ?", storeOrder.ID).Error; err != nil {
		return nil, apperr.Wrap("failed to reload store order", err)
	}
	return &reloaded, nil
}
