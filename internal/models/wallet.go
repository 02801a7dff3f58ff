package models

import "github.com/google/uuid"

const (
	WalletTxCredit = "credit"
	WalletTxDebit  = "debit"
	WalletTxRefund = "refund"
)

// Wallet tracks a user's platform balance. Sellers are credited here on
// escrow release; buyers on refunds.
type Wallet struct {
	BaseModel
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	ShoppingBalance float64   `json:"shopping_balance"`
	EarningsBalance float64   `json:"earnings_balance"`
}

type WalletTransaction struct {
	BaseModel
	WalletID     uuid.UUID  `gorm:"type:uuid;index" json:"wallet_id"`
	Type         string     `json:"type"`
	Amount       float64    `json:"amount"`
	Reference    string     `json:"reference"`
	StoreOrderID *uuid.UUID `gorm:"type:uuid" json:"store_order_id"`
}
