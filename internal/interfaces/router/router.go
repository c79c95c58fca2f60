package router

import (
	distsvc "github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/application/distribution"
	partsvc "github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/application/participation"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/config"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/constants"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/infrastructure/cache"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/infrastructure/database"
	disthandler "github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/interfaces/handlers/distribution"
	healthhandler "github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/interfaces/handlers/health"
	parthandler "github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/interfaces/handlers/participation"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and route
// registration, and returns the DB and Redis client for startup checks
// and the sweeper.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		sessionHandler, redisClient, err := middleware.Session(middleware.SessionConfig{
			RedisURL: cfg.RedisURL,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redisClient
		app.Use(sessionHandler)
	}

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb}
	app.Get("/health/json", hh.JSON)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	if db != nil {
		poolCache := &cache.PoolCache{Rdb: rdb}

		// Participation
		ps := &partsvc.Service{DB: db, Cache: poolCache}
		ph := &parthandler.Handlers{Service: ps, DefaultCurrency: cfg.CompanyCurrency}
		pg := app.Group("/api/v1/participations", middleware.RequireAuth())
		pg.Post("/purchase", middleware.AuthorizePermission(constants.PurchaseParticipation), ph.Purchase)
		pg.Get("/pool", middleware.AuthorizePermission(constants.ViewData), ph.Pool)
		pg.Get("/my-holding", middleware.AuthorizePermission(constants.ViewData), ph.MyHolding)

		// Distribution
		ds := &distsvc.Service{DB: db, Cache: poolCache}
		dh := &disthandler.Handlers{Service: ds}
		dg := app.Group("/api/v1/distributions", middleware.RequireAuth())
		dg.Post("/run", middleware.AuthorizePermission(constants.RunDistribution), dh.Run)
		dg.Get("/invoice/:invoice_id", middleware.AuthorizePermission(constants.ViewData), dh.SharesForInvoice)
	}

	return app, db, rdb, nil
}
