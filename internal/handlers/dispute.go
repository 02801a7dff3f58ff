package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/services"
	"github.com/hafizsameer11/colala-api-sub004/internal/utils"
)

// DisputeHandler exposes dispute endpoints for buyers and sellers.
type DisputeHandler struct {
	disputes *services.DisputeService
}

// NewDisputeHandler constructs DisputeHandler.
func NewDisputeHandler(disputes *services.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

type openDisputeRequest struct {
	StoreOrderID uuid.UUID `json:"store_order_id"`
	Category     string    `json:"category"`
	Reason       string    `json:"reason"`
}

// Open creates a dispute against a paid store order.
func (h *DisputeHandler) Open(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req openDisputeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	dispute, err := h.disputes.Open(userID, req.StoreOrderID, req.Category, req.Reason)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": dispute})
}

// List returns disputes visible to the caller.
func (h *DisputeHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	disputes, total, err := h.disputes.List(userID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   disputes,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Get returns a single dispute.
func (h *DisputeHandler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	dispute, err := h.disputes.Get(userID, id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": dispute})
}
