package participation

import (
	"context"
	"testing"
	"time"

	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/constants"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/domain"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/infrastructure/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupParticipationTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.GroupMembership{},
		&domain.ParticipationPool{}, &domain.ParticipantHolding{},
		&domain.PurchaseRecord{}, &domain.AuditEntry{},
	))
	return &Service{DB: db}, db
}

func seedPool(t *testing.T, db *gorm.DB, total, remaining int64) {
	require.NoError(t, db.Create(&domain.ParticipationPool{
		PoolID:         domain.PoolID,
		TotalUnits:     total,
		RemainingUnits: remaining,
	}).Error)
}

func seedInvestor(t *testing.T, db *gorm.DB) uuid.UUID {
	userID := uuid.New()
	require.NoError(t, db.Create(&domain.GroupMembership{
		UserID:    userID,
		GroupName: constants.InvestorsGroup,
	}).Error)
	return userID
}

func TestPurchase_FirstPurchaseCreatesHolding(t *testing.T) {
	svc, db := setupParticipationTest(t)
	seedPool(t, db, 1000, 1000)
	userID := seedInvestor(t, db)

	record, err := svc.Purchase(context.Background(), userID, 250, 10.50, "PYG")
	require.NoError(t, err)

	assert.Equal(t, int64(250), record.UnitsPurchased)
	assert.Equal(t, 10.50, record.UnitPriceAtPurchase)
	assert.Equal(t, 2625.00, record.TotalPaid)
	assert.Equal(t, "PYG", record.CurrencyID)

	var holding domain.ParticipantHolding
	require.NoError(t, db.Where("user_id = ?", userID).First(&holding).Error)
	assert.Equal(t, int64(250), holding.UnitsOwned)
	assert.Equal(t, 25.0, holding.OwnershipPercent)

	var pool domain.ParticipationPool
	require.NoError(t, db.Where("pool_id = ?", domain.PoolID).First(&pool).Error)
	assert.Equal(t, int64(750), pool.RemainingUnits)
	assert.Equal(t, 2625.00, pool.TotalValueSold)
	assert.Equal(t, int64(1), pool.Version)

	var audits []domain.AuditEntry
	require.NoError(t, db.Where("event_type = ?", domain.AuditParticipationPurchased).Find(&audits).Error)
	assert.Len(t, audits, 1)
}

func TestPurchase_SecondPurchaseAccumulates(t *testing.T) {
	svc, db := setupParticipationTest(t)
	seedPool(t, db, 1000, 1000)
	userID := seedInvestor(t, db)
	ctx := context.Background()

	_, err := svc.Purchase(ctx, userID, 100, 10, "PYG")
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, userID, 200, 12, "PYG")
	require.NoError(t, err)

	var holding domain.ParticipantHolding
	require.NoError(t, db.Where("user_id = ?", userID).First(&holding).Error)
	assert.Equal(t, int64(300), holding.UnitsOwned)
	assert.Equal(t, 30.0, holding.OwnershipPercent)

	var records []domain.PurchaseRecord
	require.NoError(t, db.Where("holding_id = ?", holding.HoldingID).Find(&records).Error)
	assert.Len(t, records, 2)

	var pool domain.ParticipationPool
	require.NoError(t, db.Where("pool_id = ?", domain.PoolID).First(&pool).Error)
	assert.Equal(t, int64(700), pool.RemainingUnits)
	assert.Equal(t, 3400.00, pool.TotalValueSold)
}

func TestPurchase_NotEligible(t *testing.T) {
	svc, db := setupParticipationTest(t)
	seedPool(t, db, 1000, 1000)

	_, err := svc.Purchase(context.Background(), uuid.New(), 10, 10, "PYG")
	assert.ErrorIs(t, err, ErrNotEligible)

	var count int64
	db.Model(&domain.PurchaseRecord{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPurchase_PoolMissing(t *testing.T) {
	svc, db := setupParticipationTest(t)
	userID := seedInvestor(t, db)

	_, err := svc.Purchase(context.Background(), userID, 10, 10, "PYG")
	assert.ErrorIs(t, err, ErrPoolNotConfigured)
}

func TestPurchase_InsufficientUnitsLeavesPoolUnchanged(t *testing.T) {
	svc, db := setupParticipationTest(t)
	seedPool(t, db, 1000, 50)
	userID := seedInvestor(t, db)

	_, err := svc.Purchase(context.Background(), userID, 51, 10, "PYG")
	assert.ErrorIs(t, err, ErrInsufficientUnits)

	var pool domain.ParticipationPool
	require.NoError(t, db.Where("pool_id = ?", domain.PoolID).First(&pool).Error)
	assert.Equal(t, int64(50), pool.RemainingUnits)
	assert.Equal(t, 0.0, pool.TotalValueSold)
	assert.Equal(t, int64(0), pool.Version)

	var count int64
	db.Model(&domain.ParticipantHolding{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPurchase_OwnershipBoundHeldAcrossUsers(t *testing.T) {
	svc, db := setupParticipationTest(t)
	seedPool(t, db, 1000, 1000)
	ctx := context.Background()

	u1 := seedInvestor(t, db)
	u2 := seedInvestor(t, db)

	_, err := svc.Purchase(ctx, u1, 600, 10, "PYG")
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, u2, 400, 10, "PYG")
	require.NoError(t, err)

	// pool is exhausted, nothing more can be sold
	_, err = svc.Purchase(ctx, u1, 1, 10, "PYG")
	assert.ErrorIs(t, err, ErrInsufficientUnits)

	var totalOwned int64
	require.NoError(t, db.Model(&domain.ParticipantHolding{}).
		Select("COALESCE(SUM(units_owned), 0)").Scan(&totalOwned).Error)
	assert.Equal(t, int64(1000), totalOwned)

	var pool domain.ParticipationPool
	require.NoError(t, db.Where("pool_id = ?", domain.PoolID).First(&pool).Error)
	assert.Equal(t, int64(0), pool.RemainingUnits)
}

func TestPoolSummary_CachesAndInvalidates(t *testing.T) {
	svc, db := setupParticipationTest(t)
	seedPool(t, db, 1000, 1000)
	userID := seedInvestor(t, db)

	mr := miniredis.RunT(t)
	svc.Cache = &cache.PoolCache{
		Rdb: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		TTL: time.Minute,
	}
	ctx := context.Background()

	first, err := svc.PoolSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), first.RemainingUnits)

	// a purchase drops the cached entry; the next read sees fresh state
	_, err = svc.Purchase(ctx, userID, 100, 10, "PYG")
	require.NoError(t, err)

	second, err := svc.PoolSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(900), second.RemainingUnits)
	assert.Equal(t, 1000.00, second.TotalValueSold)
}

func TestHoldingForUser(t *testing.T) {
	svc, db := setupParticipationTest(t)
	seedPool(t, db, 1000, 1000)
	userID := seedInvestor(t, db)
	ctx := context.Background()

	_, err := svc.HoldingForUser(ctx, userID)
	assert.ErrorIs(t, err, ErrHoldingNotFound)

	_, err = svc.Purchase(ctx, userID, 100, 10, "PYG")
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, userID, 50, 11, "PYG")
	require.NoError(t, err)

	got, err := svc.HoldingForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.Holding.UnitsOwned)
	assert.Len(t, got.Purchases, 2)
}
