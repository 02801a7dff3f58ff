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

// SellerOrderService runs the seller side of the acceptance state machine.
// Every transition is a conditional update on the expected current status so
// concurrent requests cannot double-accept or double-reject.
type SellerOrderService struct {
	db            *gorm.DB
	notifications *NotificationService
	publisher     *events.Publisher
}

// NewSellerOrderService constructs SellerOrderService.
func NewSellerOrderService(db *gorm.DB, notifications *NotificationService, publisher *events.Publisher) *SellerOrderService {
	return &SellerOrderService{db: db, notifications: notifications, publisher: publisher}
}

// AcceptRequest carries the seller's fee and delivery terms.
type AcceptRequest struct {
	DeliveryFee           float64    `json:"delivery_fee"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
	DeliveryMethod        string     `json:"delivery_method"`
	DeliveryNotes         string     `json:"delivery_notes"`
}

// Accept moves a store order from pending_acceptance to accepted, setting
// the negotiated shipping fee and recomputing the payable total.
func (s *SellerOrderService) Accept(sellerID, storeOrderID uuid.UUID, req AcceptRequest) (*models.StoreOrder, error) {
	if req.DeliveryFee < 0 {
		return nil, apperr.Validation("delivery_fee cannot be negative")
	}

	storeOrder, err := s.ownedStoreOrder(sellerID, storeOrderID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]interface{}{
			"status":                 models.StoreOrderAccepted,
			"shipping_fee":           req.DeliveryFee,
			"subtotal_with_shipping": storeOrder.Subtotal + req.DeliveryFee,
			"accepted_at":            &now,
			"delivery_method":        req.DeliveryMethod,
			"delivery_notes":         req.DeliveryNotes,
		}
		if req.EstimatedDeliveryDate != nil {
			updates["estimated_delivery_date"] = req.EstimatedDeliveryDate
		}

		result := tx.Model(&models.StoreOrder{}).
			Where("id = ? AND status IN ?", storeOrder.ID, models.TransitionSources(models.StoreOrderAccepted)).
			Updates(updates)
		if result.Error != nil {
			return apperr.Wrap("failed to accept order", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.State("order is not awaiting acceptance")
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", storeOrder.OrderID, models.OrderPending).
			Update("status", models.OrderAccepted).Error; err != nil {
			return apperr.Wrap("failed to update order status", err)
		}

		s.notifications.Notify(tx, storeOrder.Order.UserID, "Order accepted",
			fmt.Sprintf("Your order %s was accepted. Amount due: %.2f.",
				storeOrder.Order.OrderNumber, storeOrder.Subtotal+req.DeliveryFee))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.Event{
		Type:         events.TypeStoreOrderAccepted,
		OrderID:      storeOrder.OrderID.String(),
		StoreOrderID: storeOrder.ID.String(),
		UserID:       storeOrder.Order.UserID.String(),
	})

	return s.reload(storeOrder.ID)
}

// Reject moves a store order from pending_acceptance to rejected. When
// every store order of the parent is rejected or cancelled, the order
// itself cascades to cancelled.
func (s *SellerOrderService) Reject(sellerID, storeOrderID uuid.UUID, reason string) (*models.StoreOrder, error) {
	if reason == "" {
		return nil, apperr.Validation("rejection_reason is required")
	}

	storeOrder, err := s.ownedStoreOrder(sellerID, storeOrderID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.StoreOrder{}).
			Where("id = ? AND status IN ?", storeOrder.ID, models.TransitionSources(models.StoreOrderRejected)).
			Updates(map[string]interface{}{
				"status":           models.StoreOrderRejected,
				"rejection_reason": reason,
				"rejected_at":      &now,
			})
		if result.Error != nil {
			return apperr.Wrap("failed to reject order", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.State("order is not awaiting acceptance")
		}

		if err := cascadeOrderCancellation(tx, storeOrder.OrderID); err != nil {
			return err
		}

		s.notifications.Notify(tx, storeOrder.Order.UserID, "Order rejected",
			fmt.Sprintf("Your order %s was rejected: %s", storeOrder.Order.OrderNumber, reason))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.Event{
		Type:         events.TypeStoreOrderRejected,
		OrderID:      storeOrder.OrderID.String(),
		StoreOrderID: storeOrder.ID.String(),
		UserID:       storeOrder.Order.UserID.String(),
	})

	return s.reload(storeOrder.ID)
}

// List returns store orders for the seller's store, optionally filtered by
// status.
func (s *SellerOrderService) List(sellerID uuid.UUID, status string, limit, offset int) ([]models.StoreOrder, int64, error) {
	store, err := storeForSeller(s.db, sellerID)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.StoreOrder{}).Where("store_id = ?", store.ID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap("failed to count store orders", err)
	}

	var storeOrders []models.StoreOrder
	if err := query.Preload("Items").Preload("Order").
		Order("created_at desc").Limit(limit).Offset(offset).
		Find(&storeOrders).Error; err != nil {
		return nil, 0, apperr.Wrap("failed to list store orders", err)
	}

	return storeOrders, total, nil
}

// Get returns one of the seller's store orders with its items.
func (s *SellerOrderService) Get(sellerID, storeOrderID uuid.UUID) (*models.StoreOrder, error) {
	storeOrder, err := s.ownedStoreOrder(sellerID, storeOrderID)
	if err != nil {
		return nil, err
	}
	return storeOrder, nil
}

// ownedStoreOrder loads a store order and verifies it belongs to the
// seller's store.
func (s *SellerOrderService) ownedStoreOrder(sellerID, storeOrderID uuid.UUID) (*models.StoreOrder, error) {
	store, err := storeForSeller(s.db, sellerID)
	if err != nil {
		return nil, err
	}

	var storeOrder models.StoreOrder
	if err := s.db.Preload("Items").Preload("Order").
		First(&storeOrder, "id = ?", storeOrderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("store order not found")
		}
		return nil, apperr.Wrap("failed to load store order", err)
	}

	if storeOrder.StoreID != store.ID {
		return nil, apperr.Authorization("store order does not belong to your store")
	}

	return &storeOrder, nil
}

func (s *SellerOrderService) reload(storeOrderID uuid.UUID) (*models.StoreOrder, error) {
	var storeOrder models.StoreOrder
	if err := s.db.Preload("Items").Preload("Order").
		First(&storeOrder, "id = ?", storeOrderID).Error; err != nil {
		return nil, apperr.Wrap("failed to reload store order", err)
	}
	return &storeOrder, nil
}

// storeForSeller resolves the seller's store.
func storeForSeller(db *gorm.DB, sellerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := db.First(&store, "owner_id = ?", sellerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("you do not have a store")
		}
		return nil, apperr.Wrap("failed to load store", err)
	}
	return &store, nil
}

// cascadeOrderCancellation cancels the parent order once every store order
// has reached rejected or cancelled.
func cascadeOrderCancellation(tx *gorm.DB, orderID uuid.UUID) error {
	var remaining int64
	if err := tx.Model(&models.StoreOrder{}).
		Where("order_id = ? AND status NOT IN ?", orderID,
			[]models.StoreOrderStatus{models.StoreOrderRejected, models.StoreOrderCancelled}).
		Count(&remaining).Error; err != nil {
		return apperr.Wrap("failed to check sibling store orders", err)
	}
	if remaining > 0 {
		return nil
	}

	if err := tx.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", models.OrderCancelled).Error; err != nil {
		return apperr.Wrap("failed to cancel order", err)
	}
	return nil
}
