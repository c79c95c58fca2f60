package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DistributionShare roles.
const (
	ShareRoleSeller      = "seller"
	ShareRoleParticipant = "participant"
	ShareRoleCompany     = "company"
)

// DistributionShare kinds. KindRounding marks the company row that carries
// the per-holder rounding remainder, distinct from the baseline company cut.
const (
	ShareKindBase     = "base"
	ShareKindRounding = "rounding"
)

// ProfitKindSubscriptionSale is the only profit kind this engine emits.
const ProfitKindSubscriptionSale = "subscription-sale"

// DistributionShare is one ledger row of a distribution run: how much one
// beneficiary received from one invoice. Immutable once written; the unique
// index makes a second run for the same invoice fail at insert time.
type DistributionShare struct {
	ShareID           uuid.UUID  `gorm:"column:share_id;type:uuid;primaryKey" json:"share_id"`
	InvoiceID         uuid.UUID  `gorm:"column:invoice_id;type:uuid;not null;index;uniqueIndex:idx_share_once,priority:1" json:"invoice_id"`
	BeneficiaryUserID *uuid.UUID `gorm:"column:beneficiary_user_id;type:uuid;uniqueIndex:idx_share_once,priority:3" json:"beneficiary_user_id"`
	Role              string     `gorm:"column:role;type:varchar(20);not null;uniqueIndex:idx_share_once,priority:2" json:"role"`
	Kind              string     `gorm:"column:kind;type:varchar(20);not null;default:base;uniqueIndex:idx_share_once,priority:4" json:"kind"`
	Amount            float64    `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	CurrencyID        string     `gorm:"column:currency_id;type:varchar(8);not null" json:"currency_id"`
	ProfitKind        string     `gorm:"column:profit_kind;type:varchar(30);not null" json:"profit_kind"`
	CreatedAt         time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (DistributionShare) TableName() string {
	return "DistributionShares"
}

func (s *DistributionShare) BeforeCreate(tx *gorm.DB) error {
	if s.ShareID == uuid.Nil {
		s.ShareID = uuid.New()
	}
	return nil
}

// DistributionConfig holds the percentage split per mode. One active row;
// the engine refuses to run without it. Company percentages are stored
// explicitly rather than derived, so the configured split is auditable.
type DistributionConfig struct {
	ConfigID                 uuid.UUID `gorm:"column:config_id;type:uuid;primaryKey" json:"config_id"`
	SellerFirstPct           float64   `gorm:"column:seller_first_pct;type:decimal(5,2);not null" json:"seller_first_pct"`
	SellerRecurringPct       float64   `gorm:"column:seller_recurring_pct;type:decimal(5,2);not null" json:"seller_recurring_pct"`
	ParticipantsFirstPct     float64   `gorm:"column:participants_first_pct;type:decimal(5,2);not null" json:"participants_first_pct"`
	ParticipantsRecurringPct float64   `gorm:"column:participants_recurring_pct;type:decimal(5,2);not null" json:"participants_recurring_pct"`
	CompanyFirstPct          float64   `gorm:"column:company_first_pct;type:decimal(5,2);not null" json:"company_first_pct"`
	CompanyRecurringPct      float64   `gorm:"column:company_recurring_pct;type:decimal(5,2);not null" json:"company_recurring_pct"`
	Active                   bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt                time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt                time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (DistributionConfig) TableName() string {
	return "DistributionConfigs"
}

func (c *DistributionConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ConfigID == uuid.Nil {
		c.ConfigID = uuid.New()
	}
	return nil
}

// SellerPct returns the seller percentage for the given mode.
func (c *DistributionConfig) SellerPct(firstSale bool) float64 {
	if firstSale {
		return c.SellerFirstPct
	}
	return c.SellerRecurringPct
}

// ParticipantsPct returns the participant-pool percentage for the given mode.
func (c *DistributionConfig) ParticipantsPct(firstSale bool) float64 {
	if firstSale {
		return c.ParticipantsFirstPct
	}
	return c.ParticipantsRecurringPct
}

// CompanyPct returns the company baseline percentage for the given mode.
func (c *DistributionConfig) CompanyPct(firstSale bool) float64 {
	if firstSale {
		return c.CompanyFirstPct
	}
	return c.CompanyRecurringPct
}
