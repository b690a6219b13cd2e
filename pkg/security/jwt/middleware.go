package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

const claimsLocalKey = "claims"

// Verifier checks a raw token and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// NewAuthMiddleware returns a Fiber middleware that reads the token from the
// session cookie or an Authorization header ("Bearer <token>" or "<token>").
// When required is false a missing or invalid token lets the request through
// as a guest; otherwise it is rejected with 401.
// On success the claims are stored in c.Locals and available via ClaimsFrom.
func NewAuthMiddleware(v Verifier, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			if required {
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
			}
			return c.Next()
		}
		claims, err := v.Verify(tokenStr)
		if err != nil {
			if required {
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
			}
			return c.Next()
		}
		c.Locals(claimsLocalKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the verified claims of the current request, if any.
func ClaimsFrom(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsLocalKey).(*Claims)
	return claims, ok && claims != nil
}

func tokenFromRequest(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies(CookieName)); v != "" {
		return v
	}
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authHeader == "" {
		return ""
	}
	// Support both "Bearer <token>" and "<token>" (no prefix).
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return authHeader
}
