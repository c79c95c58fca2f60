package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// SessionConfig for the Redis-backed session store shared with the auth
// service. This service only reads sessions; login/logout live elsewhere.
type SessionConfig struct {
	RedisURL string
}

const (
	sessionCookieName = "cuentaverificada.sid"
	sessionPrefix     = "session:"
	sessionMaxAge     = 24 * time.Hour
)

// Session returns a Fiber middleware that loads the session user from
// Redis into Locals("user"), and the Redis client for reuse (health
// checks, pool cache). Reading a session refreshes its TTL.
func Session(cfg SessionConfig) (fiber.Handler, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opt)

	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(sessionCookieName)
		// cookie may be "s:id" or "s:id.signature"; use first part as id
		if strings.HasPrefix(sessionID, "s:") {
			parts := strings.SplitN(sessionID[2:], ".", 2)
			sessionID = parts[0]
		}

		c.Locals("user", nil)
		if sessionID != "" {
			key := sessionPrefix + sessionID
			b, err := rdb.Get(context.Background(), key).Bytes()
			if err == nil {
				var data map[string]interface{}
				if json.Unmarshal(b, &data) == nil {
					if u, ok := data["user"]; ok {
						c.Locals("user", u)
					}
					rdb.Expire(context.Background(), key, sessionMaxAge)
				}
			}
		}
		return c.Next()
	}, rdb, nil
}
