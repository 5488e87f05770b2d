package app

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	u "museshop/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	memoryStorage "github.com/gofiber/storage/memory/v2"
	redisStorage "github.com/gofiber/storage/redis/v2"
	"github.com/rs/xid"
)

const internalPasswordHeader = "X-Internal-Password"

var (
	errWrongPassword = errors.New("invalid internal password")

	rateLimitStore fiber.Storage
)

// internalAuth guards the internal pages with the shared password.
func internalAuth(cfg u.Config) fiber.Handler {
	return keyauth.New(keyauth.Config{
		KeyLookup: "header:" + internalPasswordHeader,
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if !passwordMatches(cfg, key) {
				return false, errWrongPassword
			}
			return true, nil
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if err == nil {
				err = fiber.ErrUnauthorized
			}
			u.Warn("Internal page access denied", "ip", c.IP(), "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    fiber.StatusUnauthorized,
					"message": err.Error(),
				},
			})
		},
	})
}

func passwordMatches(cfg u.Config, key string) bool {
	want := cfg.Server.InternalPassword
	if want == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(want)) == 1
}

func clientKey(c *fiber.Ctx) string {
	sum := sha256.Sum256([]byte(c.IP() + c.Get("User-Agent")))
	return hex.EncodeToString(sum[:])
}

// userRateLimitMiddleware limits POST requests per client when enabled.
func userRateLimitMiddleware(cfg u.Config) fiber.Handler {
	if cfg.RateLimiter.UserLimit <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	return limiter.New(limiter.Config{
		Max:               cfg.RateLimiter.UserLimit,
		Expiration:        cfg.RateLimiter.Interval,
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage:           rateLimitStore,
		// Only form and API submissions are limited. Calls carrying the
		// internal password come from the shop's own backend.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() != fiber.MethodPost || passwordMatches(cfg, c.Get(internalPasswordHeader))
		},
		KeyGenerator: clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			u.Warn("Rate limit exceeded", "user", clientKey(c), "path", c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Too Many Requests",
			})
		},
	})
}

// canonicalHostMiddleware redirects requests for any other host to the
// configured canonical host.
func canonicalHostMiddleware(cfg u.Config) fiber.Handler {
	canonical := cfg.Server.CanonicalHost
	return func(c *fiber.Ctx) error {
		if canonical == "" || c.Hostname() == canonical {
			return c.Next()
		}
		// RequestURI is path plus query even for absolute-form request targets.
		target := c.Protocol() + "://" + canonical + string(c.Request().URI().RequestURI())
		status := fiber.StatusMovedPermanently
		if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
			status = fiber.StatusPermanentRedirect
		}
		return c.Redirect(target, status)
	}
}

func newRateLimitStore(cfg u.Config) fiber.Storage {
	var store fiber.Storage = memoryStorage.New() // safe default
	if cfg.Cache.RedisHost == "" {
		return store
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				u.Error("Redis limiter store init panicked, falling back to memory", "panic", r)
			}
		}()
		store = redisStorage.New(redisStorage.Config{
			Addrs:    []string{cfg.Cache.RedisHost},
			Database: cfg.Cache.RateLimitDB,
		})
		u.Info("Using Redis for rate limiting", "addr", cfg.Cache.RedisHost, "db", cfg.Cache.RateLimitDB)
	}()
	return store
}

// RegisterMiddleware attaches global middleware to the app
func RegisterMiddleware(app *fiber.App, cfg u.Config) {
	rateLimitStore = newRateLimitStore(cfg)

	app.Use(cors.New())

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	app.Use(healthcheck.New())

	app.Use(canonicalHostMiddleware(cfg))

	if cfg.RateLimiter.EnableUserLimiter || cfg.RateLimiter.UserLimit > 0 {
		app.Use(userRateLimitMiddleware(cfg))
	}

	app.Use(func(c *fiber.Ctx) error {
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = c.GetRespHeader(fiber.HeaderXRequestID)
		}
		u.Info("Incoming request", "method", c.Method(), "path", c.Path(), "request_id", requestID)
		return c.Next()
	})
}
