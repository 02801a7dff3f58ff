package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

// StoreHandler manages seller storefronts and delivery pricing.
type StoreHandler struct {
	db *gorm.DB
}

// NewStoreHandler constructs StoreHandler.
func NewStoreHandler(db *gorm.DB) *StoreHandler {
	return &StoreHandler{db: db}
}

type storeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// CreateStore creates the seller's store. One store per seller.
func (h *StoreHandler) CreateStore(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req storeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	var existing models.Store
	if err := h.db.First(&existing, "owner_id = ?", userID).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "you already have a store")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	store := models.Store{
		OwnerID:     userID,
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
		Location:    req.Location,
		IsActive:    true,
	}
	if err := h.db.Create(&store).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": store})
}

// GetMyStore returns the seller's own store.
func (h *StoreHandler) GetMyStore(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var store models.Store
	if err := h.db.Preload("DeliveryPricings").
		First(&store, "owner_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "store not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": store})
}

// UpdateStore updates the seller's store fields.
func (h *StoreHandler) UpdateStore(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req storeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	result := h.db.Model(&models.Store{}).Where("owner_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "store not found")
	}

	return c.JSON(fiber.Map{"status": "success", "message": "store updated"})
}

// GetStore returns a public storefront by slug or ID.
func (h *StoreHandler) GetStore(c *fiber.Ctx) error {
	param := c.Params("id")

	var store models.Store
	query := h.db.Where("is_active = ?", true)
	if id, err := uuid.Parse(param); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("slug = ?", param)
	}

	if err := query.Preload("DeliveryPricings", "is_active = ?", true).
		First(&store).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "store not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": store})
}

type deliveryPricingRequest struct {
	Label string  `json:"label"`
	Area  string  `json:"area"`
	Price float64 `json:"price"`
}

// CreateDeliveryPricing adds a shipping option to the seller's store.
func (h *StoreHandler) CreateDeliveryPricing(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req deliveryPricingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Label == "" || req.Price < 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "label is required and price cannot be negative")
	}

	var store models.Store
	if err := h.db.First(&store, "owner_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "store not found")
		}
		return err
	}

	pricing := models.DeliveryPricing{
		StoreID:  store.ID,
		Label:    req.Label,
		Area:     req.Area,
		Price:    req.Price,
		IsActive: true,
	}
	if err := h.db.Create(&pricing).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": pricing})
}

// DeleteDeliveryPricing deactivates a shipping option.
func (h *StoreHandler) DeleteDeliveryPricing(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Model(&models.DeliveryPricing{}).
		Where("delivery_pricings.id = ? AND store_id IN (?)", id,
			h.db.Model(&models.Store{}).Select("id").Where("owner_id = ?", userID)).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "delivery pricing not found")
	}

	return c.JSON(fiber.Map{"status": "success", "message": "delivery pricing removed"})
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug + "-" + uuid.NewString()[:8]
}
