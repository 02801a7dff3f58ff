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

// PaymentService confirms payments and drives the escrow side of the
// lifecycle. Error messages on these paths stay taxonomy-level; escrow
// internals are never echoed to the client.
type PaymentService struct {
	db            *gorm.DB
	escrow        *EscrowService
	notifications *NotificationService
	publisher     *events.Publisher
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(db *gorm.DB, escrow *EscrowService, notifications *NotificationService, publisher *events.Publisher) *PaymentService {
	return &PaymentService{db: db, escrow: escrow, notifications: notifications, publisher: publisher}
}

// ConfirmPayment marks every store order of the order as paid and locks the
// paid amounts in escrow. Each store order must currently be accepted;
// otherwise nothing persists.
func (s *PaymentService) ConfirmPayment(buyerID, orderID uuid.UUID, reference string) (*models.Order, error) {
	if reference == "" {
		return nil, apperr.Validation("payment reference is required")
	}

	var order models.Order
	if err := s.db.Preload("StoreOrders.Items").First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Wrap("failed to load order", err)
	}
	if order.UserID != buyerID {
		return nil, apperr.Authorization("order does not belong to you")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		for i := range order.StoreOrders {
			storeOrder := &order.StoreOrders[i]

			result := tx.Model(&models.StoreOrder{}).
				Where("id = ? AND status IN ?", storeOrder.ID, models.TransitionSources(models.StoreOrderPaid)).
				Updates(map[string]interface{}{
					"status":  models.StoreOrderPaid,
					"paid_at": &now,
				})
			if result.Error != nil {
				return apperr.Wrap("failed to mark store order paid", result.Error)
			}
			if result.RowsAffected == 0 {
				return apperr.State("order is not ready for payment")
			}

			if err := s.escrow.Lock(tx, storeOrder, buyerID); err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("payment_status", models.PaymentPaid).Error; err != nil {
			return apperr.Wrap("failed to update payment status", err)
		}

		payment := models.Payment{
			OrderID:   order.ID,
			UserID:    buyerID,
			Reference: reference,
			Amount:    order.GrandTotal,
			Method:    order.PaymentMethod,
			PaidAt:    now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return apperr.Wrap("failed to record payment", err)
		}

		for i := range order.StoreOrders {
			var store models.Store
			if err := tx.First(&store, "id = ?", order.StoreOrders[i].StoreID).Error; err != nil {
				return apperr.Wrap("failed to load store", err)
			}
			s.notifications.Notify(tx, store.OwnerID, "Order paid",
				fmt.Sprintf("Order %s has been paid. Funds are held in escrow until delivery.", order.OrderNumber))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.Event{
		Type:    events.TypeOrderPaid,
		OrderID: order.ID.String(),
		UserID:  buyerID.String(),
	})

	var reloaded models.Order
	if err := s.db.Preload("StoreOrders").First(&reloaded, "id = ?", order.ID).Error; err != nil {
		return nil, apperr.Wrap("failed to reload order", err)
	}
	return &reloaded, nil
}

// ConfirmDelivered is the buyer's escrow release trigger: the store order
// moves to delivered, its escrow is released and the seller wallet is
// credited. Blocked while a dispute is open.
func (s *PaymentService) ConfirmDelivered(buyerID, storeOrderID uuid.UUID) (*models.StoreOrder, error) {
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

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Checked inside the transaction so a dispute opened concurrently
		// cannot slip past the release.
		var openDisputes int64
		if err := tx.Model(&models.Dispute{}).
			Where("store_order_id = ? AND status = ?", storeOrderID, models.DisputeOpen).
			Count(&openDisputes).Error; err != nil {
			return apperr.Wrap("failed to check disputes", err)
		}
		if openDisputes > 0 {
			return apperr.State("escrow release is blocked while a dispute is open")
		}

		now := time.Now()
		result := tx.Model(&models.StoreOrder{}).
			Where("id = ? AND status IN ?", storeOrder.ID, models.TransitionSources(models.StoreOrderDelivered)).
			Updates(map[string]interface{}{
				"status":       models.StoreOrderDelivered,
				"delivered_at": &now,
			})
		if result.Error != nil {
			return apperr.Wrap("failed to mark store order delivered", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.State("order is not awaiting delivery confirmation")
		}

		amount, err := s.escrow.Release(tx, &storeOrder)
		if err != nil {
			return err
		}

		var store models.Store
		if err := tx.First(&store, "id = ?", storeOrder.StoreID).Error; err != nil {
			return apperr.Wrap("failed to load store", err)
		}
		s.notifications.Notify(tx, store.OwnerID, "Escrow released",
			fmt.Sprintf("Delivery of order %s was confirmed. %.2f has been credited to your wallet.",
				storeOrder.Order.OrderNumber, amount))

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.Event{
		Type:         events.TypeOrderDelivered,
		OrderID:      storeOrder.OrderID.String(),
		StoreOrderID: storeOrder.ID.String(),
		UserID:       buyerID.String(),
	})

	var reloaded models.StoreOrder
	if err := s.db.Preload("Items").First(&reloaded, "id = ?", storeOrder.ID).Error; err != nil {
		return nil, apperr.Wrap("failed to reload store order", err)
	}
	return &reloaded, nil
}
