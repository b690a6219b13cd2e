package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/acquisitions/pkg/security/jwt"
)

// CookieOptions holds the deployment-dependent session cookie attributes.
type CookieOptions struct {
	Secure   bool
	SameSite string
	MaxAge   time.Duration
}

// CookieOptionsFor returns strict, secure cookies in production and lax ones
// elsewhere so plain-HTTP local runs keep working.
func CookieOptionsFor(production bool) CookieOptions {
	if production {
		return CookieOptions{Secure: true, SameSite: fiber.CookieSameSiteStrictMode, MaxAge: jwt.TokenTTL}
	}
	return CookieOptions{SameSite: fiber.CookieSameSiteLaxMode, MaxAge: jwt.TokenTTL}
}

func (o CookieOptions) set(c *fiber.Ctx, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     jwt.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(o.MaxAge.Seconds()),
		Expires:  time.Now().Add(o.MaxAge),
		HTTPOnly: true,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	})
}

// clear overwrites the cookie with an empty, already expired one.
func (o CookieOptions) clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     jwt.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		HTTPOnly: true,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	})
}
