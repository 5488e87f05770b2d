package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"museshop/internal/checkout"
	"museshop/internal/messages"
	"museshop/internal/render"
	u "museshop/internal/utils"
)

// CheckoutService serves POST /checkout.
type CheckoutService struct {
	Orders *checkout.Service
	lang   string
}

// NewCheckoutService binds the checkout endpoint to an order service.
func NewCheckoutService(cfg u.Config, orders *checkout.Service) *CheckoutService {
	return &CheckoutService{Orders: orders, lang: cfg.Mail.Language}
}

// HandlePlace accepts an order and returns its reference.
func (svc *CheckoutService) HandlePlace(c *fiber.Ctx) error {
	var o checkout.Order
	if err := c.BodyParser(&o); err != nil {
		return fail(c, fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrInvalidRequest))
	}

	rec, err := svc.Orders.Place(c.UserContext(), o)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"success": true, "orderRef": rec.Ref})
	case errors.Is(err, checkout.ErrEmptyCart):
		return fail(c, fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrEmptyCart))
	case errors.Is(err, checkout.ErrInvalidItem):
		return fail(c, fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrInvalidItem))
	case errors.Is(err, checkout.ErrInvalidContact):
		return fail(c, fiber.StatusBadRequest, render.Text(svc.lang, messages.ErrContact))
	}
	u.Error("Checkout failed", "error", err)
	return fail(c, fiber.StatusInternalServerError, render.Text(svc.lang, messages.ErrInternal))
}
