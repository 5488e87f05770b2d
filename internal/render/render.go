// Package render turns notification and page data into localized HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"museshop/internal/messages"
)

// Template names.
const (
	QuoteOwner            = "quote_owner.html"
	QuoteAck              = "quote_ack.html"
	QuoteDecisionCustomer = "quote_decision_customer.html"
	QuoteDecisionOwner    = "quote_decision_owner.html"
	OrderOwner            = "order_owner.html"
	OrderCustomer         = "order_customer.html"
	DecisionForm          = "decision_form.html"
	DecisionResult        = "decision_result.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded templates with a per-language "t" function
// that formats message catalog keys.
type Renderer struct {
	base *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	base, err := template.New("render").
		Funcs(template.FuncMap{"t": func(key string, args ...any) string { return key }}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{base: base}, nil
}

// Render executes template name in lang.
func (r *Renderer) Render(lang, name string, data any) (string, error) {
	tpl, err := r.base.Clone()
	if err != nil {
		return "", fmt.Errorf("clone templates: %w", err)
	}
	p := messages.Printer(lang)
	tpl.Funcs(template.FuncMap{
		"t": func(key string, args ...any) string { return p.Sprintf(key, args...) },
	})

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Text formats a catalog key in lang, for subjects and plain messages.
func Text(lang, key string, args ...any) string {
	return messages.Printer(lang).Sprintf(key, args...)
}

// EUR formats an amount in euros with two decimals, e.g. "€80.00".
func EUR(amount float64) string {
	if amount == 0 {
		amount = 0 // -0 would print as "€-0.00"
	}
	return "€" + strconv.FormatFloat(amount, 'f', 2, 64)
}

// EURCents formats an amount given in cents, e.g. 8050 -> "€80.50".
func EURCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€%d.%02d", sign, cents/100, cents%100)
}
