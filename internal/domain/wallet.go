package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wallet is the balance sink: one row per user and currency. The recharge
// and withdrawal flows live elsewhere; this core only ever increments.
type Wallet struct {
	WalletID   uuid.UUID `gorm:"column:wallet_id;type:uuid;primaryKey" json:"wallet_id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_wallet_user_currency,priority:1" json:"user_id"`
	CurrencyID string    `gorm:"column:currency_id;type:varchar(8);not null;uniqueIndex:idx_wallet_user_currency,priority:2" json:"currency_id"`
	Balance    float64   `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Wallet) TableName() string {
	return "Wallets"
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.WalletID == uuid.Nil {
		w.WalletID = uuid.New()
	}
	return nil
}
