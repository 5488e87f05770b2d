package handlers

import (
	"github.com/gofiber/fiber/v2"

	"museshop/internal/render"
)

// fail writes the JSON failure envelope used by the public endpoints.
func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func sendHTML(c *fiber.Ctx, status int, html string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).SendString(html)
}

// resultPage renders the decision outcome page. A non-empty errMsg renders the
// error variant.
func resultPage(c *fiber.Ctx, r *render.Renderer, lang string, status int, action, errMsg string) error {
	html, err := r.Render(lang, render.DecisionResult, struct {
		Action string
		Error  string
	}{action, errMsg})
	if err != nil {
		return err
	}
	return sendHTML(c, status, html)
}
