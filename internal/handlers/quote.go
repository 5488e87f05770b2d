package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"museshop/internal/eligibility"
	"museshop/internal/mailer"
	"museshop/internal/messages"
	"museshop/internal/quote"
	"museshop/internal/render"
	u "museshop/internal/utils"
)

// QuoteService serves the cleaning-quote endpoints.
type QuoteService struct {
	Workflow *quote.Workflow
	Renderer *render.Renderer

	lang     string
	region   string
	echoLink bool
}

// NewQuoteService binds the quote endpoints to a workflow.
func NewQuoteService(cfg u.Config, wf *quote.Workflow, r *render.Renderer) *QuoteService {
	return &QuoteService{
		Workflow: wf,
		Renderer: r,
		lang:     cfg.Mail.Language,
		region:   cfg.Quote.Region,
		echoLink: cfg.Quote.EchoDecisionLink,
	}
}

// HandleSubmit accepts a cleaning-quote request.
func (svc *QuoteService) HandleSubmit(c *fiber.Ctx) error {
	var sub quote.Submission
	if err := c.BodyParser(&sub); err != nil {
		return fail(c, fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrInvalidRequest))
	}

	res, err := svc.Workflow.Submit(c.UserContext(), sub)
	if err != nil {
		status, msg := svc.submitError(err)
		if status >= fiber.StatusInternalServerError {
			u.Error("Cleaning quote failed", "error", err)
		}
		return fail(c, status, msg)
	}

	out := fiber.Map{"success": true}
	if svc.echoLink {
		out["decisionUrl"] = res.DecisionURL
	}
	return c.JSON(out)
}

func (svc *QuoteService) submitError(err error) (int, string) {
	switch {
	case errors.Is(err, eligibility.ErrRegionRejected):
		return fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrRegion, svc.region)
	case errors.Is(err, eligibility.ErrInvalidApartmentID):
		return fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrApartmentID)
	case errors.Is(err, eligibility.ErrInsufficientLeadTime):
		return fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrLeadTime)
	case errors.Is(err, quote.ErrInvalidContact):
		return fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrContact)
	}
	return fiber.StatusInternalServerError, render.Text(svc.lang, messages.ErrInternal)
}

// HandleDecisionPage renders the accept/deny form for a decision link.
func (svc *QuoteService) HandleDecisionPage(c *fiber.Ctx) error {
	req, err := svc.Workflow.Inspect(c.Query("token"))
	if err != nil {
		u.Warn("Rejected decision link", "error", err, "ip", c.IP())
		return resultPage(c, svc.Renderer, svc.lang, fiber.StatusBadRequest, "", render.Text(svc.lang, messages.ErrInvalidLink))
	}

	html, err := svc.Renderer.Render(svc.lang, render.DecisionForm, struct {
		Request quote.Request
		Action  string
		Token   string
	}{req, quote.DecisionPath, c.Query("token")})
	if err != nil {
		return err
	}
	return sendHTML(c, fiber.StatusOK, html)
}

type decisionInput struct {
	Token  string          `json:"token"`
	Action string          `json:"action"`
	Price  json.RawMessage `json:"price"`
}

// HandleDecide applies a reviewer decision. Form posts get an HTML page back,
// JSON posts get the JSON envelope.
func (svc *QuoteService) HandleDecide(c *fiber.Ctx) error {
	asJSON := c.Is("json")

	var in decisionInput
	var rawPrice string
	if asJSON {
		if err := json.Unmarshal(c.Body(), &in); err != nil {
			return svc.decideFailure(c, asJSON, fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrInvalidRequest))
		}
		rawPrice = jsonPrice(in.Price)
	} else {
		in.Token = c.FormValue("token")
		in.Action = c.FormValue("action")
		rawPrice = c.FormValue("price")
	}

	action, err := quote.ParseAction(in.Action)
	if err != nil {
		return svc.decideFailure(c, asJSON, fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrInvalidAction))
	}
	price, err := quote.ParsePrice(rawPrice)
	if err != nil && action == quote.Accept {
		return svc.decideFailure(c, asJSON, fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrMissingPrice))
	}

	out, err := svc.Workflow.Decide(c.UserContext(), in.Token, quote.Decision{Action: action, Price: price})
	if err != nil {
		status, msg := svc.decideError(err)
		if status >= fiber.StatusInternalServerError {
			u.Error("Cleaning quote decision failed", "error", err)
		} else {
			u.Warn("Cleaning quote decision rejected", "error", err, "ip", c.IP())
		}
		return svc.decideFailure(c, asJSON, status, msg)
	}

	word := render.Text(svc.lang, messages.QuoteActionDenied)
	if out.Action == quote.Accept {
		word = render.Text(svc.lang, messages.QuoteActionAccepted)
	}
	if asJSON {
		body := fiber.Map{"success": true, "action": string(out.Action)}
		if out.Action == quote.Accept {
			body["price"] = out.Price
		}
		return c.JSON(body)
	}
	return resultPage(c, svc.Renderer, svc.lang, fiber.StatusOK, word, "")
}

func (svc *QuoteService) decideError(err error) (int, string) {
	switch {
	case errors.Is(err, quote.ErrInvalidDecisionLink), errors.Is(err, quote.ErrWrongPayloadType):
		return fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrInvalidLink)
	case errors.Is(err, quote.ErrInvalidAction):
		return fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrInvalidAction)
	case errors.Is(err, quote.ErrMissingPrice):
		return fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrMissingPrice)
	case errors.Is(err, quote.ErrAlreadyDecided):
		return fiber.StatusConflict, render.Text(svc.lang, messages.ErrAlreadyDecided)
	case errors.Is(err, mailer.ErrDeliveryFailed):
		return fiber.StatusInternalServerError, render.Text(svc.lang, messages.ErrDeliveryFailure)
	}
	return fiber.StatusInternalServerError, render.Text(svc.lang, messages.ErrInternal)
}

func (svc *QuoteService) decideFailure(c *fiber.Ctx, asJSON bool, status int, msg string) error {
	if asJSON {
		return fail(c, status, msg)
	}
	return resultPage(c, svc.Renderer, svc.lang, status, "", msg)
}

// jsonPrice accepts the price as a JSON number or string.
func jsonPrice(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return s
}
