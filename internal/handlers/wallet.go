package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hafizsameer11/colala-api-sub004/internal/middleware"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
	"github.com/hafizsameer11/colala-api-sub004/internal/utils"
)

// WalletHandler exposes wallet balances and transaction history.
type WalletHandler struct {
	db *gorm.DB
}

// NewWalletHandler constructs WalletHandler.
func NewWalletHandler(db *gorm.DB) *WalletHandler {
	return &WalletHandler{db: db}
}

// GetWallet returns the caller's balances. A wallet row appears on first
// credit; absent rows read as zero balances.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var wallet models.Wallet
	if err := h.db.First(&wallet, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			wallet = models.Wallet{UserID: userID}
		} else {
			return err
		}
	}

	return c.JSON(fiber.Map{"status": "success", "data": wallet})
}

// ListTransactions returns the caller's wallet transactions.
func (h *WalletHandler) ListTransactions(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.WalletTransaction{}).
		Where("wallet_id IN (?)", h.db.Model(&models.Wallet{}).Select("id").Where("user_id = ?", userID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var transactions []models.WalletTransaction
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&transactions).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   transactions,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
