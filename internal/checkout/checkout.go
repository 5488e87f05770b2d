// Package checkout accepts shop orders and notifies the owner and the customer.
// Orders are not stored; the emails are the record.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/xid"

	"museshop/internal/mailer"
	"museshop/internal/messages"
	"museshop/internal/render"
	u "museshop/internal/utils"
)

var (
	ErrEmptyCart      = errors.New("empty cart")
	ErrInvalidItem    = errors.New("invalid cart item")
	ErrInvalidContact = errors.New("invalid contact details")
)

// Bounds matching the validate tags on Item.
const (
	maxQuantity  = 99
	maxUnitCents = 1e9
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Item is one cart line. UnitPrice is in euros.
type Item struct {
	SKU       string  `json:"sku" validate:"max=64"`
	Name      string  `json:"name" validate:"required,max=200"`
	Quantity  int     `json:"quantity" validate:"gte=1,lte=99"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0,lt=10000000"`
}

// Order is the checkout payload.
type Order struct {
	Name   string `json:"name" validate:"required,max=200"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone,omitempty" validate:"max=40"`
	Region string `json:"region"`
	Notes  string `json:"notes,omitempty" validate:"max=2000"`
	Items  []Item `json:"items" validate:"required,min=1,max=50,dive"`
}

// Receipt identifies an accepted order.
type Receipt struct {
	Ref        string `json:"orderRef"`
	TotalCents int64  `json:"totalCents"`
}

// Notifier hands messages off for background delivery.
type Notifier interface {
	DeliverAsync(label string, msgs ...mailer.Message)
}

// Service places orders.
type Service struct {
	shopEmail string
	language  string
	ccFor     func(region string) string
	notifier  Notifier
	renderer  *render.Renderer
	newRef    func() string
}

// NewService builds a checkout service from the mail config.
func NewService(cfg u.MailConfig, notifier Notifier, renderer *render.Renderer) *Service {
	return &Service{
		shopEmail: cfg.ShopEmail,
		language:  cfg.Language,
		ccFor:     cfg.CCFor,
		notifier:  notifier,
		renderer:  renderer,
		newRef:    func() string { return xid.New().String() },
	}
}

type line struct {
	Quantity int
	Name     string
	Subtotal string
}

// Place validates o, assigns a reference and queues the notifications. It
// returns without waiting for delivery.
func (s *Service) Place(ctx context.Context, o Order) (Receipt, error) {
	o = normalize(o)
	if err := check(o); err != nil {
		return Receipt{}, err
	}

	total, lines, err := price(o.Items)
	if err != nil {
		return Receipt{}, err
	}

	rec := Receipt{Ref: s.newRef(), TotalCents: total}
	data := struct {
		Order Order
		Ref   string
		Lines []line
		Total string
	}{o, rec.Ref, lines, render.EURCents(total)}

	ownerHTML, err := s.renderer.Render(s.language, render.OrderOwner, data)
	if err != nil {
		return Receipt{}, err
	}
	customerHTML, err := s.renderer.Render(s.language, render.OrderCustomer, data)
	if err != nil {
		return Receipt{}, err
	}

	owner := mailer.Message{
		To:      s.shopEmail,
		Subject: render.Text(s.language, messages.OrderOwnerSubject, rec.Ref, o.Name),
		HTML:    ownerHTML,
	}
	if cc := s.ccFor(o.Region); cc != "" {
		owner.Cc = []string{cc}
	}
	customer := mailer.Message{
		To:      o.Email,
		Subject: render.Text(s.language, messages.OrderCustomerSubject, rec.Ref),
		HTML:    customerHTML,
	}
	s.notifier.DeliverAsync("checkout", owner, customer)

	u.Info("Order placed", "ref", rec.Ref, "items", len(o.Items), "total_cents", total)
	return rec, nil
}

func normalize(o Order) Order {
	o.Name = strings.TrimSpace(o.Name)
	o.Email = strings.TrimSpace(o.Email)
	o.Phone = strings.TrimSpace(o.Phone)
	items := make([]Item, len(o.Items))
	for i, it := range o.Items {
		it.Name = strings.TrimSpace(it.Name)
		items[i] = it
	}
	if o.Items != nil {
		o.Items = items
	}
	return o
}

// check runs the struct rules and maps the first failure to a sentinel.
func check(o Order) error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate order: %w", err)
	}
	fe := verrs[0]
	switch {
	case strings.Contains(fe.Namespace(), ".Items["):
		return ErrInvalidItem
	case fe.Field() == "Items" && fe.Tag() == "max":
		return ErrInvalidItem
	case fe.Field() == "Items":
		return ErrEmptyCart
	}
	return ErrInvalidContact
}

func price(items []Item) (int64, []line, error) {
	if len(items) == 0 {
		return 0, nil, ErrEmptyCart
	}
	var total int64
	lines := make([]line, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 || it.Quantity > maxQuantity {
			return 0, nil, ErrInvalidItem
		}
		cents := math.Round(it.UnitPrice * 100)
		if math.IsNaN(cents) || cents < 0 || cents >= maxUnitCents {
			return 0, nil, ErrInvalidItem
		}
		unit := int64(cents)
		if unit > math.MaxInt64/int64(it.Quantity) {
			return 0, nil, ErrInvalidItem
		}
		sub := unit * int64(it.Quantity)
		if sub > math.MaxInt64-total {
			return 0, nil, ErrInvalidItem
		}
		total += sub
		lines = append(lines, line{Quantity: it.Quantity, Name: it.Name, Subtotal: render.EURCents(sub)})
	}
	return total, lines, nil
}
