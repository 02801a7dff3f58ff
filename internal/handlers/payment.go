package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/services"
)

// PaymentHandler exposes payment confirmation.
type PaymentHandler struct {
	payment *services.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payment *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payment: payment}
}

type paymentConfirmationRequest struct {
	OrderID          uuid.UUID `json:"order_id"`
	PaymentReference string    `json:"payment_reference"`
}

// Confirmation marks an order paid and locks the amounts in escrow.
func (h *PaymentHandler) Confirmation(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req paymentConfirmationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.payment.ConfirmPayment(userID, req.OrderID, req.PaymentReference)
	if err != nil {
		middleware.RecordOrderOperation("pay", false)
		return err
	}

	middleware.RecordOrderOperation("pay", true)
	return c.JSON(fiber.Map{"status": "success", "data": order})
}
