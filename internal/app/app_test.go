package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museshop/internal/checkout"
	"museshop/internal/mailer"
	"museshop/internal/quote"
	"museshop/internal/render"
	"museshop/internal/signing"
	u "museshop/internal/utils"
)

func minimalConfig() u.Config {
	var cfg u.Config
	cfg.Server.BaseURL = "https://shop.example.com"
	cfg.Server.InternalPassword = "hunter2"
	cfg.Mail.ShopEmail = "owner@example.com"
	cfg.Mail.Language = "en"
	cfg.Quote.Region = "Val Gardena"
	cfg.Quote.Timezone = "Europe/Rome"
	cfg.Quote.SigningSecret = "app-secret"
	return cfg
}

func newTestApp(t *testing.T, cfg u.Config) *fiber.App {
	t.Helper()
	codec, err := signing.NewCodec(cfg.Quote.SigningSecret)
	require.NoError(t, err)
	r, err := render.New()
	require.NoError(t, err)

	d := mailer.NewDispatcher(mailer.LogSender{}, time.Second)
	wf := quote.New(quote.Deps{
		Settings: quote.SettingsFromConfig(cfg),
		Codec:    codec,
		Notifier: d,
		Renderer: r,
	})
	return SetupApp(cfg, Deps{
		Workflow: wf,
		Orders:   checkout.NewService(cfg.Mail, d, r),
		Renderer: r,
		Mail:     d,
	})
}

func TestSetupApp_RoutesAndJSON404(t *testing.T) {
	app := newTestApp(t, minimalConfig())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/does-not-exist", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/livez", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodPost, "/cleaning-quote", strings.NewReader(`{"region":"Garda"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/quote/decision?token=x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInternalStatus_RequiresPassword(t *testing.T) {
	app := newTestApp(t, minimalConfig())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/internal/status", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/internal/status", nil)
	req.Header.Set(internalPasswordHeader, "nope")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/internal/status", nil)
	req.Header.Set(internalPasswordHeader, "hunter2")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInternalStatus_AbsentWithoutPassword(t *testing.T) {
	cfg := minimalConfig()
	cfg.Server.InternalPassword = ""
	app := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/internal/status", nil)
	req.Header.Set(internalPasswordHeader, "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCanonicalHostRedirect(t *testing.T) {
	cfg := minimalConfig()
	cfg.Server.CanonicalHost = "shop.example.com"
	app := newTestApp(t, cfg)

	tests := []struct {
		name     string
		method   string
		target   string
		host     string
		status   int
		location string
	}{
		{"absolute form", http.MethodGet, "http://www.example.com/some/page?x=1", "", http.StatusMovedPermanently, "http://shop.example.com/some/page?x=1"},
		{"origin form", http.MethodGet, "/some/page?x=1", "www.example.com", http.StatusMovedPermanently, "http://shop.example.com/some/page?x=1"},
		{"no query", http.MethodHead, "/p", "www.example.com", http.StatusMovedPermanently, "http://shop.example.com/p"},
		{"post keeps method", http.MethodPost, "/checkout", "www.example.com", http.StatusPermanentRedirect, "http://shop.example.com/checkout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			if tc.host != "" {
				req.Host = tc.host
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.location, resp.Header.Get("Location"))
		})
	}

	req := httptest.NewRequest(http.MethodGet, "http://shop.example.com/nothing-here", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPasswordMatches(t *testing.T) {
	cfg := minimalConfig()
	assert.True(t, passwordMatches(cfg, "hunter2"))
	assert.False(t, passwordMatches(cfg, "hunter"))
	assert.False(t, passwordMatches(cfg, ""))

	cfg.Server.InternalPassword = ""
	assert.False(t, passwordMatches(cfg, ""))
}

func TestNewRateLimitStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := minimalConfig()
	cfg.Cache.RedisHost = mr.Addr()

	store := newRateLimitStore(cfg)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Set("client", []byte("1"), time.Minute))
	got, err := store.Get("client")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
	assert.True(t, mr.Exists("client"))

	cfg.Cache.RedisHost = ""
	mem := newRateLimitStore(cfg)
	require.NoError(t, mem.Set("client", []byte("2"), time.Minute))
	got, err = mem.Get("client")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}
