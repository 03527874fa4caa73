package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "bookstore/internal/log"
	"bookstore/internal/services"
)

// RequireAdmin lets the request through only with a valid admin bearer token.
// The token's name claim is stored in Locals("admin").
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := auth.Authorize(bearer(c))
		if err != nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": err.Error()})
			return fail(c, "authz", "", err)
		}
		c.Locals("admin", claims.Name)
		return c.Next()
	}
}

// bearer returns the credential after the scheme. Any scheme is accepted so a
// present but wrong credential is refused as forbidden rather than missing.
func bearer(c *fiber.Ctx) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	_, tok, ok := strings.Cut(h, " ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(tok)
}
