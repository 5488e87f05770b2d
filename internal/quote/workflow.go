// Package quote implements the cleaning-quote workflow.
//
// A submission is validated, turned into a Request and signed into a decision
// token. The token travels by email to the shop owner, whose later decision
// (accept with a price, or deny) is verified against the token alone. Nothing
// is stored server-side: an outstanding token is the only trace of a request
// awaiting a decision.
package quote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"museshop/internal/eligibility"
	"museshop/internal/mailer"
	"museshop/internal/messages"
	"museshop/internal/render"
	"museshop/internal/signing"
	u "museshop/internal/utils"
)

// DecisionPath is the route the decision link points to.
const DecisionPath = "/quote/decision"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Notifier delivers rendered notifications.
type Notifier interface {
	Deliver(ctx context.Context, msgs ...mailer.Message) error
	DeliverAsync(label string, msgs ...mailer.Message)
}

// Guard optionally makes decision links single-use.
type Guard interface {
	Claim(ctx context.Context, token string) (bool, error)
	Release(ctx context.Context, token string) error
}

// Settings are the workflow's slice of the application config.
type Settings struct {
	BaseURL   string
	ShopEmail string
	Language  string
	Rules     eligibility.Rules
	CCFor     func(region string) string
}

// SettingsFromConfig derives workflow settings from the application config.
func SettingsFromConfig(cfg u.Config) Settings {
	return Settings{
		BaseURL:   cfg.Server.BaseURL,
		ShopEmail: cfg.Mail.ShopEmail,
		Language:  cfg.Mail.Language,
		Rules: eligibility.Rules{
			Region:   cfg.Quote.Region,
			Location: cfg.Quote.Location(),
		},
		CCFor: cfg.Mail.CCFor,
	}
}

// Deps bundles the workflow's collaborators. Guard and Now are optional.
type Deps struct {
	Settings Settings
	Codec    *signing.Codec
	Notifier Notifier
	Renderer *render.Renderer
	Guard    Guard
	Now      func() time.Time
}

// Workflow drives submissions and decisions. It holds no mutable state and is
// safe for concurrent use.
type Workflow struct {
	settings Settings
	codec    *signing.Codec
	notifier Notifier
	renderer *render.Renderer
	guard    Guard
	now      func() time.Time
}

// New returns a workflow over deps.
func New(deps Deps) *Workflow {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Workflow{
		settings: deps.Settings,
		codec:    deps.Codec,
		notifier: deps.Notifier,
		renderer: deps.Renderer,
		guard:    deps.Guard,
		now:      now,
	}
}

// Result is returned by a successful submission.
type Result struct {
	Request     Request
	Token       string
	DecisionURL string
}

// Outcome is returned by a successful decision.
type Outcome struct {
	Request Request
	Action  Action
	Price   string
}

// Submit validates sub, mints a decision token and queues the owner and
// requester notifications. It returns as soon as the token exists; delivery
// happens in the background and its failures are only logged.
func (w *Workflow) Submit(ctx context.Context, sub Submission) (Result, error) {
	now := w.now()
	if err := w.settings.Rules.Check(sub.Region, sub.ApartmentID, sub.DateISO, now); err != nil {
		return Result{}, err
	}
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	if err := checkContact(sub); err != nil {
		return Result{}, err
	}

	req := Request{
		Type:        PayloadType,
		Region:      sub.Region,
		Name:        sub.Name,
		Email:       sub.Email,
		ApartmentID: sub.ApartmentID,
		DateISO:     sub.DateISO,
		RequestedAt: now.UnixMilli(),
	}
	token, err := w.codec.Sign(req)
	if err != nil {
		return Result{}, fmt.Errorf("sign request: %w", err)
	}
	res := Result{Request: req, Token: token, DecisionURL: w.decisionURL(token)}

	msgs, err := w.submissionMessages(res)
	if err != nil {
		return Result{}, err
	}
	w.notifier.DeliverAsync("cleaning-quote", msgs...)

	u.Info("Cleaning quote requested", "apartment_id", req.ApartmentID, "date", req.DateISO)
	return res, nil
}

// Inspect verifies token and returns the embedded request.
func (w *Workflow) Inspect(token string) (Request, error) {
	var req Request
	if err := w.codec.VerifyInto(token, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidDecisionLink, err)
	}
	if req.Type != PayloadType {
		return Request{}, ErrWrongPayloadType
	}
	return req, nil
}

// Decide applies d to the request carried by token and notifies the requester
// and the owner. Both sends are attempted and awaited; if either fails the
// error wraps mailer.ErrDeliveryFailed.
func (w *Workflow) Decide(ctx context.Context, token string, d Decision) (Outcome, error) {
	req, err := w.Inspect(token)
	if err != nil {
		return Outcome{}, err
	}
	if d.Action != Accept && d.Action != Deny {
		return Outcome{}, ErrInvalidAction
	}
	if d.Action == Accept && !validPrice(d.Price) {
		return Outcome{}, ErrMissingPrice
	}

	out := Outcome{Request: req, Action: d.Action, Price: render.Text(w.settings.Language, messages.QuoteNoPrice)}
	if d.Action == Accept {
		out.Price = render.EUR(*d.Price)
	}
	msgs, err := w.decisionMessages(out)
	if err != nil {
		return Outcome{}, err
	}

	if w.guard != nil {
		ok, err := w.guard.Claim(ctx, token)
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			return Outcome{}, ErrAlreadyDecided
		}
	}

	if err := w.notifier.Deliver(ctx, msgs...); err != nil {
		if w.guard != nil {
			if rerr := w.guard.Release(ctx, token); rerr != nil {
				u.Warn("Failed to release decision link", "error", rerr)
			}
		}
		return Outcome{}, err
	}

	u.Info("Cleaning quote decided", "apartment_id", req.ApartmentID, "date", req.DateISO, "action", string(d.Action))
	return out, nil
}

func (w *Workflow) decisionURL(token string) string {
	return w.settings.BaseURL + DecisionPath + "?token=" + url.QueryEscape(token)
}

func (w *Workflow) submissionMessages(res Result) ([]mailer.Message, error) {
	lang := w.settings.Language
	req := res.Request

	ownerHTML, err := w.renderer.Render(lang, render.QuoteOwner, struct {
		Request     Request
		DecisionURL string
	}{req, res.DecisionURL})
	if err != nil {
		return nil, err
	}
	ackHTML, err := w.renderer.Render(lang, render.QuoteAck, struct{ Request Request }{req})
	if err != nil {
		return nil, err
	}

	return []mailer.Message{
		{
			To:      w.settings.ShopEmail,
			Cc:      w.cc(req.Region),
			Subject: render.Text(lang, messages.QuoteOwnerSubject, req.Name, req.ApartmentID),
			HTML:    ownerHTML,
		},
		{
			To:      req.Email,
			Subject: render.Text(lang, messages.QuoteAckSubject, req.ApartmentID, req.DateISO),
			HTML:    ackHTML,
		},
	}, nil
}

func (w *Workflow) decisionMessages(out Outcome) ([]mailer.Message, error) {
	lang := w.settings.Language
	req := out.Request
	accepted := out.Action == Accept

	actionKey, subjectKey := messages.QuoteActionDenied, messages.QuoteDeniedSubject
	if accepted {
		actionKey, subjectKey = messages.QuoteActionAccepted, messages.QuoteAcceptedSubject
	}
	data := struct {
		Request  Request
		Accepted bool
		Action   string
		Price    string
	}{req, accepted, render.Text(lang, actionKey), out.Price}

	customerHTML, err := w.renderer.Render(lang, render.QuoteDecisionCustomer, data)
	if err != nil {
		return nil, err
	}
	ownerHTML, err := w.renderer.Render(lang, render.QuoteDecisionOwner, data)
	if err != nil {
		return nil, err
	}

	return []mailer.Message{
		{
			To:      req.Email,
			Subject: render.Text(lang, subjectKey, req.ApartmentID, req.DateISO),
			HTML:    customerHTML,
		},
		{
			To:      w.settings.ShopEmail,
			Cc:      w.cc(req.Region),
			Subject: render.Text(lang, messages.QuoteRecordedSubject, data.Action, req.Name, req.ApartmentID),
			HTML:    ownerHTML,
		},
	}, nil
}

func (w *Workflow) cc(region string) []string {
	if w.settings.CCFor == nil {
		return nil
	}
	if cc := w.settings.CCFor(region); cc != "" {
		return []string{cc}
	}
	return nil
}

// checkContact validates the contact fields; the eligibility rules have
// already run by then.
func checkContact(sub Submission) error {
	err := validate.Struct(sub)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ErrInvalidContact
	}
	return fmt.Errorf("validate submission: %w", err)
}
