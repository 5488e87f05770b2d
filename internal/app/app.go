package app

import (
	"museshop/internal/checkout"
	"museshop/internal/handlers"
	"museshop/internal/quote"
	"museshop/internal/render"
	u "museshop/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
)

// Deps are the domain services the routes are bound to.
type Deps struct {
	Workflow *quote.Workflow
	Orders   *checkout.Service
	Renderer *render.Renderer
	Mail     handlers.StatsSource
}

// SetupApp creates and configures a new Fiber app instance
func SetupApp(cfg u.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			} else {
				u.Error("Unhandled error", "path", c.Path(), "error", err)
			}

			u.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		},
	})

	RegisterMiddleware(app, cfg)
	RegisterRoutes(app, cfg, deps)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

// RegisterRoutes mounts all route handlers to the app
func RegisterRoutes(app *fiber.App, cfg u.Config, deps Deps) {
	qs := handlers.NewQuoteService(cfg, deps.Workflow, deps.Renderer)
	app.Post("/cleaning-quote", qs.HandleSubmit)
	app.Get(quote.DecisionPath, qs.HandleDecisionPage)
	app.Post(quote.DecisionPath, qs.HandleDecide)

	cs := handlers.NewCheckoutService(cfg, deps.Orders)
	app.Post("/checkout", cs.HandlePlace)

	// The internal page does not exist until a password is configured.
	if cfg.Server.InternalPassword != "" {
		ss := handlers.NewStatusService(cfg, deps.Mail)
		internal := app.Group("/internal", internalAuth(cfg))
		internal.Get("/status", ss.HandleStatus)
		internal.Get("/monitor", monitor.New())
	}

	if cfg.Server.StaticDir != "" {
		app.Static("/", cfg.Server.StaticDir)
	}
}
