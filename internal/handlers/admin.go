package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/services"
)

// AdminHandler manages admin-only lifecycle interventions.
type AdminHandler struct {
	admin    *services.AdminService
	disputes *services.DisputeService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admin *services.AdminService, disputes *services.DisputeService) *AdminHandler {
	return &AdminHandler{admin: admin, disputes: disputes}
}

type resolveDisputeRequest struct {
	WonBy          string `json:"won_by"`
	ResolutionNote string `json:"resolution_note"`
}

// ResolveDispute arbitrates an open dispute.
func (h *AdminHandler) ResolveDispute(c *fiber.Ctx) error {
	adminID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req resolveDisputeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	dispute, err := h.disputes.Resolve(adminID, id, req.WonBy, req.ResolutionNote)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": dispute})
}

type cancelStoreOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelStoreOrder administratively cancels an accepted or paid store order.
func (h *AdminHandler) CancelStoreOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req cancelStoreOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	storeOrder, err := h.admin.CancelStoreOrder(id, req.Reason)
	if err != nil {
		middleware.RecordOrderOperation("admin_cancel", false)
		return err
	}

	middleware.RecordOrderOperation("admin_cancel", true)
	return c.JSON(fiber.Map{"status": "success", "data": storeOrder})
}
