package health

import (
	"context"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb *redis.Client
	DB  DBPinger
}

// JSON GET /health/json — liveness with dependency status.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	deps := map[string]string{
		"database": "disconnected",
		"redis":    "disconnected",
	}
	status := "degraded"

	if h.DB != nil {
		if err := h.DB.Ping(); err == nil {
			deps["database"] = "connected"
		}
	}
	if h.Rdb != nil {
		if err := h.Rdb.Ping(context.Background()).Err(); err == nil {
			deps["redis"] = "connected"
		}
	}
	if deps["database"] == "connected" && deps["redis"] == "connected" {
		status = "ok"
	}

	return c.JSON(fiber.Map{
		"service": "cuentaverificada-api",
		"status":  status,
		"runtime": fiber.Map{
			"uptimeSeconds": int64(time.Since(startTime).Seconds()),
			"goVersion":     runtime.Version(),
		},
		"dependencies": deps,
	})
}
