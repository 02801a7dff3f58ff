package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/services"
	"github.com/hafizsameer11/colala-api-sub004/internal/utils"
)

// SellerOrderHandler exposes the seller acceptance state machine.
type SellerOrderHandler struct {
	sellerOrders *services.SellerOrderService
}

// NewSellerOrderHandler constructs SellerOrderHandler.
func NewSellerOrderHandler(sellerOrders *services.SellerOrderService) *SellerOrderHandler {
	return &SellerOrderHandler{sellerOrders: sellerOrders}
}

// List returns the seller's store orders.
func (h *SellerOrderHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	storeOrders, total, err := h.sellerOrders.List(userID, c.Query("status"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   storeOrders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Get returns one of the seller's store orders.
func (h *SellerOrderHandler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	storeOrder, err := h.sellerOrders.Get(userID, id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": storeOrder})
}

// Accept moves a pending store order to accepted with the seller's terms.
func (h *SellerOrderHandler) Accept(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req services.AcceptRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	storeOrder, err := h.sellerOrders.Accept(userID, id, req)
	if err != nil {
		middleware.RecordOrderOperation("accept", false)
		return err
	}

	middleware.RecordOrderOperation("accept", true)
	return c.JSON(fiber.Map{"status": "success", "data": storeOrder})
}

type rejectRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

// Reject moves a pending store order to rejected.
func (h *SellerOrderHandler) Reject(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req rejectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	storeOrder, err := h.sellerOrders.Reject(userID, id, req.RejectionReason)
	if err != nil {
		middleware.RecordOrderOperation("reject", false)
		return err
	}

	middleware.RecordOrderOperation("reject", true)
	return c.JSON(fiber.Map{"status": "success", "data": storeOrder})
}
