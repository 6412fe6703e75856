package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/helmet/v2"
)

// SecureHeaders sets helmet's headers for a JSON-only API. Cross-origin
// resource policy is relaxed so the allowed browser origins can read replies.
func SecureHeaders() fiber.Handler {
	return helmet.New(helmet.Config{
		ContentSecurityPolicy:     "default-src 'none'; frame-ancestors 'none';",
		CrossOriginResourcePolicy: "cross-origin",
		ReferrerPolicy:            "no-referrer",
	})
}
