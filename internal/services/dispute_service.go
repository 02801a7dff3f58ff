package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/events"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

// DisputeService opens and arbitrates disputes. An open dispute freezes
// escrow release for its store order until an admin resolves it.
type DisputeService struct {
	db            *gorm.DB
	escrow        *EscrowService
	notifications *NotificationService
	publisher     *events.Publisher
}

// NewDisputeService constructs DisputeService.
func NewDisputeService(db *gorm.DB, escrow *EscrowService, notifications *NotificationService, publisher *events.Publisher) *DisputeService {
	return &DisputeService{db: db, escrow: escrow, notifications: notifications, publisher: publisher}
}

// Open creates a dispute against a paid store order. Unpaid orders have no
// escrow to argue over, so they are rejected outright.
func (s *DisputeService) Open(buyerID, storeOrderID uuid.UUID, category, reason string) (*models.Dispute, error) {
	if reason == "" {
		return nil, apperr.Validation("reason is required")
	}

	var storeOrder models.StoreOrder
	if err := s.db.Preload("Order").First(&storeOrder, "id = ?", storeOrderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("store order not found")
		}
		return nil, apperr.Wrap("failed to load store order", err)
	}
	if storeOrder.Order.UserID != buyerID {
		return nil, apperr.Authorization("order does not belong to you")
	}
	if storeOrder.Status != models.StoreOrderPaid {
		return nil, apperr.State("disputes can only be opened on paid orders")
	}

	var existing int64
	if err := s.db.Model(&models.Dispute{}).
		Where("store_order_id = ? AND status = ?", storeOrderID, models.DisputeOpen).
		Count(&existing).Error; err != nil {
		return nil, apperr.Wrap("failed to check existing disputes", err)
	}
	if existing > 0 {
		return nil, apperr.Validation("a dispute is already open for this order")
	}

	dispute := models.Dispute{
		StoreOrderID: storeOrderID,
		OpenedByID:   buyerID,
		Category:     category,
		Reason:       reason,
		Status:       models.DisputeOpen,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dispute).Error; err != nil {
			return apperr.Wrap("failed to open dispute", err)
		}

		var store models.Store
		if err := tx.First(&store, "id = ?", storeOrder.StoreID).Error; err != nil {
			return apperr.Wrap("failed to load store", err)
		}
		s.notifications.Notify(tx, store.OwnerID, "Dispute opened",
			fmt.Sprintf("A dispute was opened on order %s. Escrow is frozen until it is resolved.",
				storeOrder.Order.OrderNumber))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.Event{
		Type:         events.TypeDisputeOpened,
		OrderID:      storeOrder.OrderID.String(),
		StoreOrderID: storeOrderID.String(),
		UserID:       buyerID.String(),
	})

	return &dispute, nil
}

// List returns disputes visible to the caller: those they opened, plus
// (for sellers) those raised against their store.
func (s *DisputeService) List(userID uuid.UUID, limit, offset int) ([]models.Dispute, int64, error) {
	query := s.db.Model(&models.Dispute{}).
		Where("opened_by_id = ? OR store_order_id IN (?)",
			userID,
			s.db.Model(&models.StoreOrder{}).Select("store_orders.id").
				Joins("JOIN stores ON stores.id = store_orders.store_id").
				Where("stores.owner_id = ?", userID),
		)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap("failed to count disputes", err)
	}

	var disputes []models.Dispute
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).
		Find(&disputes).Error; err != nil {
		return nil, 0, apperr.Wrap("failed to list disputes", err)
	}
	return disputes, total, nil
}

// Get returns a dispute the caller opened or is the seller for.
func (s *DisputeService) Get(userID, disputeID uuid.UUID) (*models.Dispute, error) {
	var dispute models.Dispute
	if err := s.db.Preload("StoreOrder").First(&dispute, "id = ?", disputeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("dispute not found")
		}
		return nil, apperr.Wrap("failed to load dispute", err)
	}

	if dispute.OpenedByID != userID {
		var store models.Store
		if err := s.db.First(&store, "id = ?", dispute.StoreOrder.StoreID).Error; err != nil {
			return nil, apperr.Wrap("failed to load store", err)
		}
		if store.OwnerID != userID {
			return nil, apperr.Authorization("dispute does not belong to you")
		}
	}

	return &dispute, nil
}

// Resolve settles an open dispute. Seller wins: escrow releases and the
// store order completes as delivered. Buyer wins: escrow refunds, the store
// order cancels, and the parent order's payment status flips to refunded
// once all of its escrow is refunded.
func (s *DisputeService) Resolve(adminID, disputeID uuid.UUID, wonBy, resolution string) (*models.Dispute, error) {
	if wonBy != models.DisputeWonByBuyer && wonBy != models.DisputeWonBySeller {
		return nil, apperr.Validation("won_by must be buyer or seller")
	}

	var dispute models.Dispute
	if err := s.db.Preload("StoreOrder.Order").First(&dispute, "id = ?", disputeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("dispute not found")
		}
		return nil, apperr.Wrap("failed to load dispute", err)
	}

	storeOrder := dispute.StoreOrder
	buyerID := storeOrder.Order.UserID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.Dispute{}).
			Where("id = ? AND status = ?", dispute.ID, models.DisputeOpen).
			Updates(map[string]interface{}{
				"status":         models.DisputeResolved,
				"won_by":         wonBy,
				"resolution":     resolution,
				"resolved_by_id": &adminID,
				"resolved_at":    &now,
			})
		if result.Error != nil {
			return apperr.Wrap("failed to resolve dispute", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.State("dispute is not open")
		}

		var store models.Store
		if err := tx.First(&store, "id = ?", storeOrder.StoreID).Error; err != nil {
			return apperr.Wrap("failed to load store", err)
		}

		if wonBy == models.DisputeWonBySeller {
			if err := tx.Model(&models.StoreOrder{}).
				Where("id = ? AND status IN ?", storeOrder.ID, models.TransitionSources(models.StoreOrderDelivered)).
				Updates(map[string]interface{}{
					"status":       models.StoreOrderDelivered,
					"delivered_at": &now,
				}).Error; err != nil {
				return apperr.Wrap("failed to complete store order", err)
			}

			amount, err := s.escrow.Release(tx, storeOrder)
			if err != nil {
				return err
			}
			s.notifications.Notify(tx, store.OwnerID, "Dispute resolved in your favor",
				fmt.Sprintf("%.2f from order %s has been released to your wallet.", amount, storeOrder.Order.OrderNumber))
			s.notifications.Notify(tx, buyerID, "Dispute resolved",
				fmt.Sprintf("The dispute on order %s was resolved in the seller's favor.", storeOrder.Order.OrderNumber))
			return nil
		}

		// Buyer wins: refund and cancel the store order.
		if err := tx.Model(&models.StoreOrder{}).
			Where("id = ? AND status IN ?", storeOrder.ID, models.TransitionSources(models.StoreOrderCancelled)).
			Update("status", models.StoreOrderCancelled).Error; err != nil {
			return apperr.Wrap("failed to cancel store order", err)
		}

		amount, err := s.escrow.Refund(tx, storeOrder, buyerID)
		if err != nil {
			return err
		}

		if err := markOrderRefundedIfSettled(tx, storeOrder.OrderID); err != nil {
			return err
		}

		s.notifications.Notify(tx, buyerID, "Dispute resolved in your favor",
			fmt.Sprintf("%.2f from order %s has been refunded to your wallet.", amount, storeOrder.Order.OrderNumber))
		s.notifications.Notify(tx, store.OwnerID, "Dispute resolved",
			fmt.Sprintf("The dispute on order %s was resolved in the buyer's favor.", storeOrder.Order.OrderNumber))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.Event{
		Type:         events.TypeDisputeResolved,
		OrderID:      storeOrder.OrderID.String(),
		StoreOrderID: storeOrder.ID.String(),
		UserID:       buyerID.String(),
	})

	var reloaded models.Dispute
	if err := s.db.First(&reloaded, "id = ?", dispute.ID).Error; err != nil {
		return nil, apperr.Wrap("failed to reload dispute", err)
	}
	return &reloaded, nil
}

// markOrderRefundedIfSettled flips the parent order's payment status to
// refunded once no locked or released escrow remains for any of its store
// orders.
func markOrderRefundedIfSettled(tx *gorm.DB, orderID uuid.UUID) error {
	var outstanding int64
	if err := tx.Model(&models.Escrow{}).
		Joins("JOIN store_orders ON store_orders.id = escrows.store_order_id").
		Where("store_orders.order_id = ? AND escrows.status != ?", orderID, models.EscrowRefunded).
		Count(&outstanding).Error; err != nil {
		return apperr.Wrap("failed to check escrow settlement", err)
	}
	if outstanding > 0 {
		return nil
	}

	if err := tx.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("payment_status", models.PaymentRefunded).Error; err != nil {
		return apperr.Wrap("failed to mark order refunded", err)
	}
	return nil
}
