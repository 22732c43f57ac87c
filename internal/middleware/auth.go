// Package middleware provides HTTP middleware for the service.
// Authentication happens at the API gateway; this package only consumes
// the identity the gateway attaches to forwarded requests.
package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/paylane/ledger-service/internal/utils/response"
)

// UserIDHeader carries the authenticated user set by the gateway.
const UserIDHeader = "X-User-Id"

// GatewayIdentity requires a positive numeric user id in the identity
// header and stores it in the request context as "userID".
func GatewayIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(UserIDHeader)
		if raw == "" {
			return response.Unauthorized(c)
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return response.Unauthorized(c)
		}
		c.Locals("userID", uint(id))
		return c.Next()
	}
}
