package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hafizsameer11/colala-api-sub004/internal/apperr"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

// EscrowService owns the escrow ledger: locking buyer funds at payment,
// releasing them to the seller wallet on delivery, refunding them to the
// buyer on dispute loss or administrative cancellation.
type EscrowService struct {
	db *gorm.DB
}

// NewEscrowService constructs EscrowService.
func NewEscrowService(db *gorm.DB) *EscrowService {
	return &EscrowService{db: db}
}

// Lock creates escrow rows for a freshly paid store order: one per order
// item plus one for the shipping fee. Their amounts sum to the store
// order's subtotal_with_shipping.
func (s *EscrowService) Lock(tx *gorm.DB, storeOrder *models.StoreOrder, buyerID uuid.UUID) error {
	now := time.Now()

	for _, item := range storeOrder.Items {
		itemID := item.ID
		escrow := models.Escrow{
			StoreOrderID: storeOrder.ID,
			OrderItemID:  &itemID,
			BuyerID:      buyerID,
			StoreID:      storeOrder.StoreID,
			Amount:       item.LineTotal,
			Status:       models.EscrowLocked,
			LockedAt:     now,
		}
		if err := tx.Create(&escrow).Error; err != nil {
			return apperr.Wrap("failed to lock escrow", err)
		}
	}

	if storeOrder.ShippingFee > 0 {
		escrow := models.Escrow{
			StoreOrderID: storeOrder.ID,
			BuyerID:      buyerID,
			StoreID:      storeOrder.StoreID,
			Amount:       storeOrder.ShippingFee,
			Status:       models.EscrowLocked,
			LockedAt:     now,
		}
		if err := tx.Create(&escrow).Error; err != nil {
			return apperr.Wrap("failed to lock escrow", err)
		}
	}

	return nil
}

// Release flips the store order's locked rows to released and credits the
// sum to the seller's earnings balance. Returns the released amount.
func (s *EscrowService) Release(tx *gorm.DB, storeOrder *models.StoreOrder) (float64, error) {
	amount, err := s.lockedAmount(tx, storeOrder.ID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	if err := tx.Model(&models.Escrow{}).
		Where("store_order_id = ? AND status = ?", storeOrder.ID, models.EscrowLocked).
		Updates(map[string]interface{}{
			"status":      models.EscrowReleased,
			"released_at": &now,
		}).Error; err != nil {
		return 0, apperr.Wrap("failed to release escrow", err)
	}

	var store models.Store
	if err := tx.First(&store, "id = ?", storeOrder.StoreID).Error; err != nil {
		return 0, apperr.Wrap("failed to load store", err)
	}

	if err := s.credit(tx, store.OwnerID, amount, "earnings_balance",
		models.WalletTxCredit, storeOrder.ID); err != nil {
		return 0, err
	}

	return amount, nil
}

// Refund flips locked rows to refunded and credits the buyer's shopping
// balance. Returns the refunded amount.
func (s *EscrowService) Refund(tx *gorm.DB, storeOrder *models.StoreOrder, buyerID uuid.UUID) (float64, error) {
	amount, err := s.lockedAmount(tx, storeOrder.ID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	if err := tx.Model(&models.Escrow{}).
		Where("store_order_id = ? AND status = ?", storeOrder.ID, models.EscrowLocked).
		Updates(map[string]interface{}{
			"status":      models.EscrowRefunded,
			"refunded_at": &now,
		}).Error; err != nil {
		return 0, apperr.Wrap("failed to refund escrow", err)
	}

	if err := s.credit(tx, buyerID, amount, "shopping_balance",
		models.WalletTxRefund, storeOrder.ID); err != nil {
		return 0, err
	}

	return amount, nil
}

// ListLocked returns the buyer's currently locked escrow rows.
func (s *EscrowService) ListLocked(buyerID uuid.UUID) ([]models.Escrow, error) {
	var rows []models.Escrow
	if err := s.db.Where("buyer_id = ? AND status = ?", buyerID, models.EscrowLocked).
		Order("locked_at desc").Find(&rows).Error; err != nil {
		return nil, apperr.Wrap("failed to list escrow", err)
	}
	return rows, nil
}

// History returns the buyer's settled escrow rows (released or refunded).
func (s *EscrowService) History(buyerID uuid.UUID, limit, offset int) ([]models.Escrow, int64, error) {
	query := s.db.Model(&models.Escrow{}).
		Where("buyer_id = ? AND status IN ?", buyerID,
			[]models.EscrowStatus{models.EscrowReleased, models.EscrowRefunded})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap("failed to count escrow history", err)
	}

	var rows []models.Escrow
	if err := query.Order("locked_at desc").Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, apperr.Wrap("failed to list escrow history", err)
	}
	return rows, total, nil
}

func (s *EscrowService) lockedAmount(tx *gorm.DB, storeOrderID uuid.UUID) (float64, error) {
	var amount float64
	if err := tx.Model(&models.Escrow{}).
		Where("store_order_id = ? AND status = ?", storeOrderID, models.EscrowLocked).
		Select("COALESCE(SUM(amount), 0)").Scan(&amount).Error; err != nil {
		return 0, apperr.Wrap("failed to sum escrow", err)
	}
	if amount == 0 {
		return 0, apperr.State("no locked escrow for this store order")
	}
	return amount, nil
}

// credit bumps a wallet balance column atomically, creating the wallet row
// on first use, and records the transaction.
func (s *EscrowService) credit(tx *gorm.DB, userID uuid.UUID, amount float64, column, txType string, storeOrderID uuid.UUID) error {
	var wallet models.Wallet
	err := tx.First(&wallet, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		wallet = models.Wallet{UserID: userID}
		if err := tx.Create(&wallet).Error; err != nil {
			return apperr.Wrap("failed to create wallet", err)
		}
	} else if err != nil {
		return apperr.Wrap("failed to load wallet", err)
	}

	if err := tx.Model(&models.Wallet{}).
		Where("id = ?", wallet.ID).
		Update(column, gorm.Expr(column+" + ?", amount)).Error; err != nil {
		return apperr.Wrap("failed to credit wallet", err)
	}

	soID := storeOrderID
	walletTx := models.WalletTransaction{
		WalletID:     wallet.ID,
		Type:         txType,
		Amount:       amount,
		Reference:    fmt.Sprintf("escrow:%s", storeOrderID),
		StoreOrderID: &soID,
	}
	if err := tx.Create(&walletTx).Error; err != nil {
		return apperr.Wrap("failed to record wallet transaction", err)
	}

	return nil
}
