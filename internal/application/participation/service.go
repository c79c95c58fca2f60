package participation

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/constants"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/domain"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/infrastructure/cache"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotEligible       = errors.New("User is not a member of the investors group")
	ErrPoolNotConfigured = errors.New("Participation pool is not configured")
	ErrInsufficientUnits = errors.New("Insufficient participation units remaining")
	ErrPoolConflict      = errors.New("Participation pool was updated concurrently")
	ErrHoldingNotFound   = errors.New("No participation holding found for this user")
)

type Service struct {
	DB    *gorm.DB
	Cache *cache.PoolCache
}

// Purchase acquires units from the pool for a user (transactional).
// Checks eligibility and inventory, appends a PurchaseRecord, updates the
// holding and the pool, and writes one audit entry. All or nothing.
func (s *Service) Purchase(ctx context.Context, userID uuid.UUID, unitsRequested int64, unitPrice float64, currencyID string) (*domain.PurchaseRecord, error) {
	var record domain.PurchaseRecord

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var membership domain.GroupMembership
		if err := tx.Where("user_id = ? AND group_name = ?", userID, constants.InvestorsGroup).First(&membership).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotEligible
			}
			return err
		}

		var pool domain.ParticipationPool
		if err := tx.Where("pool_id = ?", domain.PoolID).First(&pool).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPoolNotConfigured
			}
			return err
		}

		if unitsRequested > pool.RemainingUnits {
			return ErrInsufficientUnits
		}

		var holding domain.ParticipantHolding
		err := tx.Where("user_id = ?", userID).First(&holding).Error
		if err == gorm.ErrRecordNotFound {
			holding = domain.ParticipantHolding{UserID: userID}
			if err := tx.Create(&holding).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		totalPaid := money.Mul(unitsRequested, unitPrice)
		newUnitsOwned := holding.UnitsOwned + unitsRequested

		record = domain.PurchaseRecord{
			HoldingID:           holding.HoldingID,
			UnitsPurchased:      unitsRequested,
			UnitPriceAtPurchase: unitPrice,
			TotalPaid:           totalPaid,
			CurrencyID:          currencyID,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		holding.UnitsOwned = newUnitsOwned
		holding.OwnershipPercent = money.OwnershipPercent(newUnitsOwned, pool.TotalUnits)
		if err := tx.Save(&holding).Error; err != nil {
			return err
		}

		res := tx.Model(&domain.ParticipationPool{}).
			Where("pool_id = ? AND version = ?", pool.PoolID, pool.Version).
			Updates(map[string]interface{}{
				"remaining_units":  pool.RemainingUnits - unitsRequested,
				"total_value_sold": money.Add(pool.TotalValueSold, totalPaid),
				"version":          pool.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPoolConflict
		}

		eventData, _ := json.Marshal(map[string]interface{}{
			"holding_id":      holding.HoldingID,
			"units_purchased": unitsRequested,
			"unit_price":      unitPrice,
			"total_paid":      totalPaid,
			"currency_id":     currencyID,
		})
		return tx.Create(&domain.AuditEntry{
			EventType:   domain.AuditParticipationPurchased,
			ActorUserID: &userID,
			EventData:   datatypes.JSON(eventData),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx)
	log.Info().
		Str("user_id", userID.String()).
		Int64("units", unitsRequested).
		Float64("total_paid", record.TotalPaid).
		Msg("Participation purchased")
	return &record, nil
}

// PoolSummary returns the pool dashboard read model, served from Redis
// when warm.
func (s *Service) PoolSummary(ctx context.Context) (*cache.PoolSummary, error) {
	if cached := s.Cache.Get(ctx); cached != nil {
		return cached, nil
	}

	var pool domain.ParticipationPool
	if err := s.DB.WithContext(ctx).Where("pool_id = ?", domain.PoolID).First(&pool).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPoolNotConfigured
		}
		return nil, err
	}

	summary := &cache.PoolSummary{
		TotalUnits:      pool.TotalUnits,
		RemainingUnits:  pool.RemainingUnits,
		TotalValueSold:  pool.TotalValueSold,
		GlobalPoolValue: pool.GlobalPoolValue,
		UnitPrice:       pool.UnitPrice,
	}
	s.Cache.Set(ctx, summary)
	return summary, nil
}

// HoldingWithPurchases is the "my holding" read model.
type HoldingWithPurchases struct {
	Holding   domain.ParticipantHolding `json:"holding"`
	Purchases []domain.PurchaseRecord   `json:"purchases"`
}

// HoldingForUser returns a user's holding with its purchase history.
func (s *Service) HoldingForUser(ctx context.Context, userID uuid.UUID) (*HoldingWithPurchases, error) {
	var holding domain.ParticipantHolding
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&holding).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrHoldingNotFound
		}
		return nil, err
	}

	var purchases []domain.PurchaseRecord
	if err := s.DB.WithContext(ctx).
		Where("holding_id = ?", holding.HoldingID).
		Order(`"createdAt" ASC`).
		Find(&purchases).Error; err != nil {
		return nil, err
	}

	return &HoldingWithPurchases{Holding: holding, Purchases: purchases}, nil
}
