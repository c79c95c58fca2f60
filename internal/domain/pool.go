package domain

import (
	"time"

	"github.com/google/uuid"
)

// PoolID is the well-known id of the singleton participation pool row.
// Seeded once at bootstrap; both purchase and distribution update it in place.
var PoolID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// ParticipationPool is the company-wide pool of sellable participation units.
// Version guards concurrent updates: every write is conditional on the
// version read inside the same transaction and bumps it by one.
type ParticipationPool struct {
	PoolID          uuid.UUID `gorm:"column:pool_id;type:uuid;primaryKey" json:"pool_id"`
	TotalUnits      int64     `gorm:"column:total_units;not null" json:"total_units"`
	RemainingUnits  int64     `gorm:"column:remaining_units;not null" json:"remaining_units"`
	TotalValueSold  float64   `gorm:"column:total_value_sold;type:decimal(18,2);not null;default:0" json:"total_value_sold"`
	GlobalPoolValue float64   `gorm:"column:global_pool_value;type:decimal(18,2);not null;default:0" json:"global_pool_value"`
	UnitPrice       float64   `gorm:"column:unit_price;type:decimal(18,6);not null;default:0" json:"unit_price"`
	Version         int64     `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt       time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (ParticipationPool) TableName() string {
	return "ParticipationPools"
}
