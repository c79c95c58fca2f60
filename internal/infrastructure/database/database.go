package database

import (
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN (Postgres pooler URL).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer, Supabase, Render).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for all models owned or read by this service.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.GroupMembership{},
		&domain.ParticipationPool{},
		&domain.ParticipantHolding{},
		&domain.PurchaseRecord{},
		&domain.Subscription{},
		&domain.Invoice{},
		&domain.DistributionConfig{},
		&domain.DistributionShare{},
		&domain.Wallet{},
		&domain.AuditEntry{},
	)
}
