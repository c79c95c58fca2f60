package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParticipantHolding is one user's position in the participation pool.
// Created on first purchase; UnitsOwned only ever grows.
type ParticipantHolding struct {
	HoldingID        uuid.UUID `gorm:"column:holding_id;type:uuid;primaryKey" json:"holding_id"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	UnitsOwned       int64     `gorm:"column:units_owned;not null;default:0" json:"units_owned"`
	OwnershipPercent float64   `gorm:"column:ownership_percent;type:decimal(9,6);not null;default:0" json:"ownership_percent"`
	CreatedAt        time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (ParticipantHolding) TableName() string {
	return "ParticipantHoldings"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (h *ParticipantHolding) BeforeCreate(tx *gorm.DB) error {
	if h.HoldingID == uuid.Nil {
		h.HoldingID = uuid.New()
	}
	return nil
}
