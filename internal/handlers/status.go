package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"museshop/internal/mailer"
	u "museshop/internal/utils"
)

// StatsSource reports mail delivery counters.
type StatsSource interface {
	Stats() mailer.Stats
}

// StatusService serves the password-protected internal status page.
type StatusService struct {
	Mail    StatsSource
	cfg     u.Config
	started time.Time
}

func NewStatusService(cfg u.Config, mail StatsSource) *StatusService {
	return &StatusService{Mail: mail, cfg: cfg, started: time.Now()}
}

// HandleStatus returns delivery counters and the non-secret settings.
func (svc *StatusService) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"uptime_secs": int64(time.Since(svc.started).Seconds()),
		"mail":        svc.Mail.Stats(),
		"smtp":        svc.cfg.Mail.SMTPHost != "",
		"language":    svc.cfg.Mail.Language,
		"quote": fiber.Map{
			"region":           svc.cfg.Quote.Region,
			"timezone":         svc.cfg.Quote.Timezone,
			"single_use_links": svc.cfg.Quote.SingleUseLinks,
		},
	})
}
