package services

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/events"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

// CheckoutService computes checkout previews and converts them into
// persisted orders. Prices are always recomputed from live product rows;
// cart snapshots and client hints are never trusted.
type CheckoutService struct {
	db            *gorm.DB
	feePercent    float64
	notifications *NotificationService
	publisher     *events.Publisher
}

// NewCheckoutService constructs CheckoutService.
func NewCheckoutService(db *gorm.DB, feePercent float64, notifications *NotificationService, publisher *events.Publisher) *CheckoutService {
	return &CheckoutService{
		db:            db,
		feePercent:    feePercent,
		notifications: notifications,
		publisher:     publisher,
	}
}

// CheckoutRequest is the shared body for preview and placement.
type CheckoutRequest struct {
	DeliveryAddressID  uuid.UUID   `json:"delivery_address_id"`
	DeliveryPricingIDs []uuid.UUID `json:"delivery_pricing_ids"`
	PaymentMethod      string      `json:"payment_method"`
}

// PreviewItem is one recomputed cart line in the breakdown.
type PreviewItem struct {
	ProductID    uuid.UUID  `json:"product_id"`
	VariantID    *uuid.UUID `json:"variant_id,omitempty"`
	ProductName  string     `json:"product_name"`
	VariantLabel string     `json:"variant_label,omitempty"`
	Quantity     int        `json:"quantity"`
	UnitPrice    float64    `json:"unit_price"`
	LineTotal    float64    `json:"line_total"`
}

// StorePreview is the per-store slice of the breakdown.
type StorePreview struct {
	StoreID           uuid.UUID     `json:"store_id"`
	StoreName         string        `json:"store_name"`
	DeliveryPricingID uuid.UUID     `json:"delivery_pricing_id"`
	Items             []PreviewItem `json:"items"`
	Subtotal          float64       `json:"subtotal"`
	ShippingFee       float64       `json:"shipping_fee"`
	Total             float64       `json:"total"`
}

// CheckoutPreview is the full pricing breakdown. Nothing is persisted to
// produce it.
type CheckoutPreview struct {
	Stores        []StorePreview `json:"stores"`
	ItemsSubtotal float64        `json:"items_subtotal"`
	ShippingTotal float64        `json:"shipping_total"`
	PlatformFee   float64        `json:"platform_fee"`
	GrandTotal    float64        `json:"grand_total"`
	PaymentMethod string         `json:"payment_method"`
}

// Preview computes the pricing breakdown for the user's current cart.
func (s *CheckoutService) Preview(userID uuid.UUID, req CheckoutRequest) (*CheckoutPreview, error) {
	preview, _, err := s.compute(s.db, userID, req)
	return preview, err
}

// Place converts a validated preview into a persisted Order with one
// StoreOrder per distinct store, then clears the cart. Atomic: either all
// rows persist or none do.
func (s *CheckoutService) Place(userID uuid.UUID, req CheckoutRequest) (*models.Order, error) {
	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		preview, address, err := s.compute(tx, userID, req)
		if err != nil {
			return err
		}

		order = &models.Order{
			UserID:            userID,
			OrderNumber:       generateOrderNumber(),
			Status:            models.OrderPending,
			PaymentStatus:     models.PaymentUnpaid,
			PaymentMethod:     preview.PaymentMethod,
			ItemsSubtotal:     preview.ItemsSubtotal,
			ShippingTotal:     preview.ShippingTotal,
			PlatformFee:       preview.PlatformFee,
			GrandTotal:        preview.GrandTotal,
			PlacedAt:          time.Now(),
			DeliveryAddressID: &address.ID,
			DeliveryAddress:   address.AddressLine,
			DeliveryCity:      address.City,
			DeliveryState:     address.State,
		}

		for _, sp := range preview.Stores {
			storeOrder := models.StoreOrder{
				StoreID:              sp.StoreID,
				Status:               models.StoreOrderPendingAcceptance,
				Subtotal:             sp.Subtotal,
				ShippingFee:          sp.ShippingFee,
				SubtotalWithShipping: sp.Total,
			}
			for _, item := range sp.Items {
				productID := item.ProductID
				storeOrder.Items = append(storeOrder.Items, models.OrderItem{
					ProductID:    &productID,
					VariantID:    item.VariantID,
					ProductName:  item.ProductName,
					VariantLabel: item.VariantLabel,
					Quantity:     item.Quantity,
					UnitPrice:    item.UnitPrice,
					LineTotal:    item.LineTotal,
				})
			}
			order.StoreOrders = append(order.StoreOrders, storeOrder)
		}

		if err := tx.Create(order).Error; err != nil {
			return apperr.Wrap("failed to place order", err)
		}

		var cart models.Cart
		if err := tx.First(&cart, "user_id = ?", userID).Error; err != nil {
			return apperr.Wrap("failed to load cart", err)
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return apperr.Wrap("failed to clear cart", err)
		}

		for _, sp := range preview.Stores {
			var store models.Store
			if err := tx.First(&store, "id = ?", sp.StoreID).Error; err != nil {
				return apperr.Wrap("failed to load store", err)
			}
			s.notifications.Notify(tx, store.OwnerID, "New order received",
				fmt.Sprintf("Order %s is awaiting your acceptance.", order.OrderNumber))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.Event{
		Type:    events.TypeOrderPlaced,
		OrderID: order.ID.String(),
		UserID:  userID.String(),
	})

	return order, nil
}

// compute recomputes the full breakdown from live rows. Shared by Preview
// (outside a transaction) and Place (inside one).
func (s *CheckoutService) compute(tx *gorm.DB, userID uuid.UUID, req CheckoutRequest) (*CheckoutPreview, *models.UserAddress, error) {
	if req.PaymentMethod == "" {
		return nil, nil, apperr.Validation("payment_method is required")
	}

	var address models.UserAddress
	if err := tx.First(&address, "id = ? AND user_id = ?", req.DeliveryAddressID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperr.Validation("delivery address not found")
		}
		return nil, nil, apperr.Wrap("failed to load delivery address", err)
	}

	var cart models.Cart
	if err := tx.Preload("Items").First(&cart, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperr.Validation("cart is empty")
		}
		return nil, nil, apperr.Wrap("failed to load cart", err)
	}
	if len(cart.Items) == 0 {
		return nil, nil, apperr.Validation("cart is empty")
	}

	// Recompute every line from the live product/variant rows.
	perStore := map[uuid.UUID]*StorePreview{}
	storeOrderKeys := []uuid.UUID{}
	var itemsSubtotal float64

	for _, item := range cart.Items {
		var product models.Product
		if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, nil, apperr.Validation("a cart item references a product that no longer exists")
			}
			return nil, nil, apperr.Wrap("failed to load product", err)
		}
		if !product.IsActive {
			return nil, nil, apperr.Validationf("product %q is no longer available", product.Name)
		}

		unitPrice := product.EffectivePrice()
		variantLabel := ""
		if item.VariantID != nil {
			var variant models.ProductVariant
			if err := tx.First(&variant, "id = ? AND product_id = ?", item.VariantID, product.ID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return nil, nil, apperr.Validationf("variant for product %q no longer exists", product.Name)
				}
				return nil, nil, apperr.Wrap("failed to load product variant", err)
			}
			if !variant.IsActive {
				return nil, nil, apperr.Validationf("variant %q is no longer available", variant.Label)
			}
			unitPrice = variant.Price
			variantLabel = variant.Label
		}

		lineTotal := unitPrice * float64(item.Quantity)
		itemsSubtotal += lineTotal

		sp, ok := perStore[product.StoreID]
		if !ok {
			sp = &StorePreview{StoreID: product.StoreID}
			perStore[product.StoreID] = sp
			storeOrderKeys = append(storeOrderKeys, product.StoreID)
		}
		sp.Items = append(sp.Items, PreviewItem{
			ProductID:    product.ID,
			VariantID:    item.VariantID,
			ProductName:  product.Name,
			VariantLabel: variantLabel,
			Quantity:     item.Quantity,
			UnitPrice:    unitPrice,
			LineTotal:    lineTotal,
		})
		sp.Subtotal += lineTotal
	}

	// Resolve selected delivery pricing rows and pin each to its store.
	selected := map[uuid.UUID]models.DeliveryPricing{}
	for _, pricingID := range req.DeliveryPricingIDs {
		var pricing models.DeliveryPricing
		if err := tx.First(&pricing, "id = ? AND is_active = ?", pricingID, true).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, nil, apperr.Validation("selected delivery pricing not found")
			}
			return nil, nil, apperr.Wrap("failed to load delivery pricing", err)
		}
		if _, ok := perStore[pricing.StoreID]; !ok {
			return nil, nil, apperr.Validation("selected delivery pricing does not belong to a store in your cart")
		}
		if _, dup := selected[pricing.StoreID]; dup {
			return nil, nil, apperr.Validation("only one delivery option may be selected per store")
		}
		selected[pricing.StoreID] = pricing
	}

	var shippingTotal float64
	stores := make([]StorePreview, 0, len(storeOrderKeys))
	for _, storeID := range storeOrderKeys {
		sp := perStore[storeID]

		var store models.Store
		if err := tx.First(&store, "id = ?", storeID).Error; err != nil {
			return nil, nil, apperr.Wrap("failed to load store", err)
		}
		sp.StoreName = store.Name

		pricing, ok := selected[storeID]
		if !ok {
			return nil, nil, apperr.Validationf("no delivery option selected for store %q", store.Name)
		}
		sp.DeliveryPricingID = pricing.ID
		sp.ShippingFee = pricing.Price
		sp.Total = sp.Subtotal + sp.ShippingFee
		shippingTotal += pricing.Price

		stores = append(stores, *sp)
	}

	platformFee := round2(itemsSubtotal * s.feePercent / 100)

	return &CheckoutPreview{
		Stores:        stores,
		ItemsSubtotal: itemsSubtotal,
		ShippingTotal: shippingTotal,
		PlatformFee:   platformFee,
		GrandTotal:    itemsSubtotal + shippingTotal + platformFee,
		PaymentMethod: req.PaymentMethod,
	}, &address, nil
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano()%1000000000000)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
