package gate

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/acquisitions/pkg/auth"
	"github.com/artem13815/acquisitions/pkg/logging"
	"github.com/artem13815/acquisitions/pkg/security/jwt"
)

// Mode controls whether denials are enforced.
type Mode string

const (
	ModeLive   Mode = "LIVE"
	ModeDryRun Mode = "DRY_RUN"
)

// ParseMode defaults to ModeLive for anything but DRY_RUN.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeDryRun)) {
		return ModeDryRun
	}
	return ModeLive
}

var denyMessages = map[Reason]string{
	ReasonBot:       "Automated requests are not allowed",
	ReasonShield:    "Request blocked by security policy",
	ReasonRateLimit: "Too many requests",
}

var denyLogMessages = map[Reason]string{
	ReasonBot:       "bot request blocked",
	ReasonShield:    "shield blocked request",
	ReasonRateLimit: "rate limit exceeded",
}

// NewMiddleware consults d before every request. The budget follows the role
// of verified claims placed by the jwt middleware, guests otherwise.
// A failing decider ends the request with 500; it is never bypassed.
func NewMiddleware(d Decider, mode Mode, log logging.Logger) fiber.Handler {
	if log == nil {
		log = logging.Nop()
	}
	return func(c *fiber.Ctx) error {
		role := auth.RoleGuest
		req := Request{
			IP:        c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
			Method:    c.Method(),
			Path:      c.Path(),
			Query:     string(c.Request().URI().QueryString()),
		}
		if claims, ok := jwt.ClaimsFrom(c); ok {
			role = claims.Role
			req.Subject = strconv.FormatInt(claims.UserID, 10)
		}
		budget := BudgetFor(role)

		decision, err := d.Decide(c.UserContext(), req, budget)
		if err != nil {
			log.Error(c.UserContext(), "security gate error", "error", err, "path", req.Path)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Internal server error",
				"message": "Something went wrong with security middleware",
			})
		}
		if decision.Allowed {
			return c.Next()
		}

		log.Warn(c.UserContext(), denyLogMessages[decision.Reason],
			"ip", req.IP,
			"user_agent", req.UserAgent,
			"path", req.Path,
			"method", req.Method,
			"budget", budget.Name,
			"mode", string(mode),
		)
		if mode == ModeDryRun {
			return c.Next()
		}
		msg, ok := denyMessages[decision.Reason]
		if !ok {
			msg = "Request denied"
		}
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"error":   "Forbidden",
			"message": msg,
		})
	}
}
