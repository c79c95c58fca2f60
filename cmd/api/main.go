package main

import (
	"context"
	"fmt"

	distsvc "github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/application/distribution"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/config"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/domain"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/infrastructure/cache"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/infrastructure/database"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/interfaces/router"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		panic("app create: " + err.Error())
	}

	// Verify connections before printing startup banner
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			panic("Postgres: get DB: " + err.Error())
		}
		if err := sqlDB.Ping(); err != nil {
			panic("Postgres connection failed: " + err.Error())
		}
		if err := database.AutoMigrate(db); err != nil {
			panic("Postgres migrate failed: " + err.Error())
		}
		fmt.Println("Postgres connected")
		checkPoolSeeded(db)
	}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			panic("Redis connection failed: " + err.Error())
		}
		fmt.Println("Redis connected")
	}

	if db != nil {
		sweeper := &distsvc.Sweeper{
			DB:      db,
			Service: &distsvc.Service{DB: db, Cache: &cache.PoolCache{Rdb: rdb}},
		}
		if err := sweeper.Start(cfg.DistributionCron); err != nil {
			panic("sweeper start: " + err.Error())
		}
		defer sweeper.Stop()
	}

	fmt.Printf("Server running at http://localhost:%s\n", cfg.Port)
	fmt.Printf("Health check: http://localhost:%s/health/json\n", cfg.Port)
	fmt.Println("---")

	if err := app.Listen(":" + cfg.Port); err != nil {
		panic(err)
	}
}

// checkPoolSeeded warns when the pool singleton is missing: purchases and
// distributions will reject until the seed data is loaded.
func checkPoolSeeded(db *gorm.DB) {
	var pool domain.ParticipationPool
	if err := db.Where("pool_id = ?", domain.PoolID).First(&pool).Error; err != nil {
		log.Warn().Err(err).Msg("Participation pool not seeded; purchase and distribution will reject")
	}
}
