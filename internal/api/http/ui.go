package http

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed ui/index.html
var indexPage []byte

// ServeUI serves the embedded single-page UI.
func ServeUI(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(indexPage)
}
