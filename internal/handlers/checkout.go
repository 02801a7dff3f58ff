package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/services"
)

// CheckoutHandler exposes checkout preview and order placement.
type CheckoutHandler struct {
	checkout *services.CheckoutService
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Preview computes the pricing breakdown without persisting anything.
func (h *CheckoutHandler) Preview(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	preview, err := h.checkout.Preview(userID, req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": preview})
}

// Place converts the preview into a persisted order.
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.checkout.Place(userID, req)
	if err != nil {
		middleware.RecordOrderOperation("place", false)
		return err
	}

	middleware.RecordOrderOperation("place", true)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": order})
}
