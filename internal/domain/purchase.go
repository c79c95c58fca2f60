package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseRecord is the append-only record of one participation purchase.
// Never mutated after creation.
type PurchaseRecord struct {
	PurchaseID          uuid.UUID `gorm:"column:purchase_id;type:uuid;primaryKey" json:"purchase_id"`
	HoldingID           uuid.UUID `gorm:"column:holding_id;type:uuid;not null;index" json:"holding_id"`
	UnitsPurchased      int64     `gorm:"column:units_purchased;not null" json:"units_purchased"`
	UnitPriceAtPurchase float64   `gorm:"column:unit_price_at_purchase;type:decimal(18,6);not null" json:"unit_price_at_purchase"`
	TotalPaid           float64   `gorm:"column:total_paid;type:decimal(18,2);not null" json:"total_paid"`
	CurrencyID          string    `gorm:"column:currency_id;type:varchar(8);not null" json:"currency_id"`
	CreatedAt           time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt           time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (PurchaseRecord) TableName() string {
	return "PurchaseRecords"
}

func (p *PurchaseRecord) BeforeCreate(tx *gorm.DB) error {
	if p.PurchaseID == uuid.Nil {
		p.PurchaseID = uuid.New()
	}
	return nil
}
