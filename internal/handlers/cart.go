package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

// CartHandler manages the buyer's basket.
type CartHandler struct {
	db *gorm.DB
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{db: db}
}

// GetCart returns the current cart with items.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.ensureCart(userID)
	if err != nil {
		return err
	}

	if err := h.db.Preload("Items.Product").Preload("Items.Variant").
		First(cart, "id = ?", cart.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": cart})
}

type addCartItemRequest struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity"`
}

// AddItem adds a product to the cart, snapshotting its current price. An
// existing line for the same product/variant has its quantity bumped.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity < 1 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "quantity must be at least 1")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ? AND is_active = ?", req.ProductID, true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "product is not available")
		}
		return err
	}

	price := product.EffectivePrice()
	if req.VariantID != nil {
		var variant models.ProductVariant
		if err := h.db.First(&variant, "id = ? AND product_id = ? AND is_active = ?",
			req.VariantID, product.ID, true).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "variant is not available")
			}
			return err
		}
		price = variant.Price
	}

	cart, err := h.ensureCart(userID)
	if err != nil {
		return err
	}

	var item models.CartItem
	query := h.db.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID)
	if req.VariantID != nil {
		query = query.Where("variant_id = ?", req.VariantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}

	if err := query.First(&item).Error; err == nil {
		item.Quantity += req.Quantity
		item.SnapshotPrice = price
		if err := h.db.Save(&item).Error; err != nil {
			return err
		}
	} else if err == gorm.ErrRecordNotFound {
		item = models.CartItem{
			CartID:        cart.ID,
			ProductID:     product.ID,
			VariantID:     req.VariantID,
			Quantity:      req.Quantity,
			SnapshotPrice: price,
		}
		if err := h.db.Create(&item).Error; err != nil {
			return err
		}
	} else {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": item})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem changes a cart line's quantity.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity < 1 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "quantity must be at least 1")
	}

	item, err := h.ownedItem(userID, itemID)
	if err != nil {
		return err
	}

	item.Quantity = req.Quantity
	if err := h.db.Save(item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": item})
}

// RemoveItem deletes a cart line.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	item, err := h.ownedItem(userID, itemID)
	if err != nil {
		return err
	}

	if err := h.db.Delete(item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "message": "item removed"})
}

func (h *CartHandler) ensureCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := h.db.First(&cart, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		cart = models.Cart{UserID: userID}
		if err := h.db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (h *CartHandler) ownedItem(userID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := h.db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "cart item not found")
		}
		return nil, err
	}
	return &item, nil
}
