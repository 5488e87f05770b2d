package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	memoryStorage "github.com/gofiber/storage/memory/v2"

	u "museshop/internal/utils"
)

func limitedApp(cfg u.Config) *fiber.App {
	rateLimitStore = memoryStorage.New()

	app := fiber.New()
	app.Use(userRateLimitMiddleware(cfg))
	app.Post("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func limitCfg() u.Config {
	cfg := u.Config{}
	cfg.RateLimiter.EnableUserLimiter = true
	cfg.RateLimiter.UserLimit = 2
	cfg.RateLimiter.Interval = time.Hour
	cfg.Server.InternalPassword = "hunter2"
	return cfg
}

func makeReq(method, password string) *http.Request {
	req := httptest.NewRequest(method, "/", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = "1.2.3.4:5678"
	if password != "" {
		req.Header.Set(internalPasswordHeader, password)
	}
	return req
}

func TestUserRateLimitMiddleware(t *testing.T) {
	app := limitedApp(limitCfg())

	for i := 0; i < 2; i++ {
		resp, err := app.Test(makeReq(fiber.MethodPost, ""), -1)
		if err != nil {
			t.Fatalf("request %d failed: %v", i+1, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200 but got %d", resp.StatusCode)
		}
	}

	resp, err := app.Test(makeReq(fiber.MethodPost, ""), -1)
	if err != nil {
		t.Fatalf("third request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 but got %d", resp.StatusCode)
	}

	// Page loads are never limited.
	resp, err = app.Test(makeReq(fiber.MethodGet, ""), -1)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected GET to pass, got %d", resp.StatusCode)
	}
}

func TestInternalPasswordBypassesUserLimit(t *testing.T) {
	app := limitedApp(limitCfg())

	for i := 0; i < 3; i++ {
		_, _ = app.Test(makeReq(fiber.MethodPost, ""), -1)
	}
	resp, _ := app.Test(makeReq(fiber.MethodPost, "wrong"), -1)
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("wrong password must not bypass the limiter, got %d", resp.StatusCode)
	}

	resp, err := app.Test(makeReq(fiber.MethodPost, "hunter2"), -1)
	if err != nil {
		t.Fatalf("authenticated request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected internal caller to bypass the limit, got %d", resp.StatusCode)
	}
}

func TestUserRateLimitDisabled(t *testing.T) {
	cfg := limitCfg()
	cfg.RateLimiter.UserLimit = 0
	app := limitedApp(cfg)

	for i := 0; i < 5; i++ {
		resp, _ := app.Test(makeReq(fiber.MethodPost, ""), -1)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d: expected 200 with limiter off, got %d", i+1, resp.StatusCode)
		}
	}
}
