package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/services"
	"github.com/hafizsameer11/colala-api-sub004/internal/utils"
)

// EscrowHandler exposes the buyer's escrow ledger.
type EscrowHandler struct {
	escrow *services.EscrowService
}

// NewEscrowHandler constructs EscrowHandler.
func NewEscrowHandler(escrow *services.EscrowService) *EscrowHandler {
	return &EscrowHandler{escrow: escrow}
}

// List returns the buyer's currently locked escrow rows.
func (h *EscrowHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	rows, err := h.escrow.ListLocked(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": rows})
}

// History returns released and refunded escrow rows.
func (h *EscrowHandler) History(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	rows, total, err := h.escrow.History(userID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   rows,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
