package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
	"github.com/hafizsameer11/colala-api-sub004/internal/services"
)

// BoostHandler manages boost campaigns and their telemetry events.
type BoostHandler struct {
	boosts *services.BoostService
}

// NewBoostHandler constructs BoostHandler.
func NewBoostHandler(boosts *services.BoostService) *BoostHandler {
	return &BoostHandler{boosts: boosts}
}

type createBoostRequest struct {
	ProductID   uuid.UUID `json:"product_id"`
	DailyBudget float64   `json:"daily_budget"`
}

// Create starts a campaign for a seller's product.
func (h *BoostHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createBoostRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	campaign, err := h.boosts.Create(userID, req.ProductID, req.DailyBudget)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": campaign})
}

// List returns the seller's campaigns with derived metrics.
func (h *BoostHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	campaigns, err := h.boosts.List(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": campaigns})
}

// Get returns one campaign with derived metrics.
func (h *BoostHandler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	campaign, err := h.boosts.Get(userID, id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": campaign})
}

type boostEventRequest struct {
	Type string `json:"type"`
}

// RecordEvent ingests a telemetry event. Non-critical: failures are logged
// and swallowed, the caller always gets a success envelope.
func (h *BoostHandler) RecordEvent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req boostEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.boosts.RecordEvent(id, req.Type); err != nil {
		log.Printf("[Boost] event %q on campaign %s dropped: %v", req.Type, id, err)
		middleware.RecordBoostEvent(req.Type, false)
	} else {
		middleware.RecordBoostEvent(req.Type, true)
	}

	return c.JSON(fiber.Map{"status": "success"})
}

type boostStatusRequest struct {
	Status models.BoostStatus `json:"status"`
}

// SetStatus pauses or resumes a campaign.
func (h *BoostHandler) SetStatus(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req boostStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.boosts.SetStatus(userID, id, req.Status); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "message": "campaign updated"})
}
