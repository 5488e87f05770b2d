package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"museshop/internal/app"
	"museshop/internal/checkout"
	"museshop/internal/mailer"
	"museshop/internal/quote"
	"museshop/internal/render"
	"museshop/internal/replay"
	"museshop/internal/signing"
	u "museshop/internal/utils"
)

// drainer is satisfied by the mail dispatcher.
type drainer interface {
	Wait(ctx context.Context) error
}

func main() {
	cfg := u.LoadConfig()
	u.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)
	u.SetLogLevel(cfg.Logger.Level)

	deps, dispatcher, closeFn, err := buildDeps(cfg)
	if err != nil {
		u.Error("Startup failed", "error", err)
		os.Exit(1)
	}
	defer closeFn()

	app := app.SetupApp(cfg, deps)

	idleConnsClosed := make(chan struct{})
	startServer(app, cfg, dispatcher, idleConnsClosed)
	<-idleConnsClosed
}

// buildDeps wires the domain services from cfg.
func buildDeps(cfg u.Config) (app.Deps, *mailer.Dispatcher, func(), error) {
	noop := func() {}

	codec, err := signing.NewCodec(cfg.Quote.SigningSecret)
	if err != nil {
		return app.Deps{}, nil, noop, err
	}
	renderer, err := render.New()
	if err != nil {
		return app.Deps{}, nil, noop, err
	}
	sender, err := mailer.NewSender(cfg.Mail)
	if err != nil {
		return app.Deps{}, nil, noop, fmt.Errorf("mail sender: %w", err)
	}
	if cfg.Mail.SMTPHost == "" {
		u.Warn("No SMTP host configured, emails will only be logged")
	}
	dispatcher := mailer.NewDispatcher(sender, cfg.Mail.SendTimeout)

	qdeps := quote.Deps{
		Settings: quote.SettingsFromConfig(cfg),
		Codec:    codec,
		Notifier: dispatcher,
		Renderer: renderer,
	}
	closeFn := noop
	if cfg.Quote.SingleUseLinks {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisHost,
			DB:   cfg.Cache.ReplayDB,
		})
		qdeps.Guard = replay.NewRedisGuard(rdb, cfg.Quote.SingleUseTTL)
		closeFn = func() { _ = rdb.Close() }
		u.Info("Single-use decision links enabled", "addr", cfg.Cache.RedisHost, "db", cfg.Cache.ReplayDB)
	}

	return app.Deps{
		Workflow: quote.New(qdeps),
		Orders:   checkout.NewService(cfg.Mail, dispatcher, renderer),
		Renderer: renderer,
		Mail:     dispatcher,
	}, dispatcher, closeFn, nil
}

// startServer starts the Fiber app and listens for shutdown signals
func startServer(app *fiber.App, cfg u.Config, mail drainer, idleConnsClosed chan struct{}) {
	go func() {
		if err := app.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			u.Error("Server error", "error", err)
		}
	}()

	// Listen for OS termination signals
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint
	signal.Stop(sigint)

	u.Warn("Shutdown signal received, closing server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		u.Error("Server forced to shutdown", "error", err)
	}

	// Background emails queued before shutdown still go out.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer drainCancel()
	if err := mail.Wait(drainCtx); err != nil {
		u.Error("Pending emails abandoned", "error", err)
	}

	close(idleConnsClosed)
	u.Info("Server stopped cleanly")
}
