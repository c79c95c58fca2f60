package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice statuses — only paid invoices are eligible for profit distribution.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusVoid    = "void"
)

// Invoice is read-mostly here: billing owns it, the distribution engine
// reads it and stamps ProfitDistributedAt exactly once.
type Invoice struct {
	InvoiceID           uuid.UUID  `gorm:"column:invoice_id;type:uuid;primaryKey" json:"invoice_id"`
	SubscriptionID      uuid.UUID  `gorm:"column:subscription_id;type:uuid;not null;index" json:"subscription_id"`
	TaxBaseAmount       float64    `gorm:"column:tax_base_amount;type:decimal(18,2);not null" json:"tax_base_amount"`
	CurrencyID          string     `gorm:"column:currency_id;type:varchar(8);not null" json:"currency_id"`
	Status              string     `gorm:"column:status;type:varchar(20);not null" json:"status"`
	Active              bool       `gorm:"column:active;not null;default:true" json:"active"`
	ProfitDistributedAt *time.Time `gorm:"column:profit_distributed_at" json:"profit_distributed_at"`
	CreatedAt           time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Invoice) TableName() string {
	return "Invoices"
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.InvoiceID == uuid.Nil {
		i.InvoiceID = uuid.New()
	}
	return nil
}

// Subscription resolves an invoice to its optional seller.
type Subscription struct {
	SubscriptionID uuid.UUID  `gorm:"column:subscription_id;type:uuid;primaryKey" json:"subscription_id"`
	BuyerUserID    uuid.UUID  `gorm:"column:buyer_user_id;type:uuid;not null" json:"buyer_user_id"`
	SellerID       *uuid.UUID `gorm:"column:seller_id;type:uuid" json:"seller_id"`
	CreatedAt      time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Subscription) TableName() string {
	return "Subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.SubscriptionID == uuid.Nil {
		s.SubscriptionID = uuid.New()
	}
	return nil
}
