package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/acquisitions/api/http/handlers"
)

// Guards are the per-route middlewares built from the token verifier and the
// security gate.
type Guards struct {
	// Identity attaches verified claims when a token is present.
	Identity fiber.Handler
	// RequireAuth rejects requests without a valid token.
	RequireAuth fiber.Handler
	// Gate is the rate/abuse gate; it runs after Identity.
	Gate fiber.Handler
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, auth *handlers.AuthHandler, health *handlers.HealthHandler, g Guards) {
	app.Get("/", health.Root)
	app.Get("/health", health.Health)
	app.Get("/ready", health.Ready)

	api := app.Group("/api", g.Identity, g.Gate)
	api.Get("/", health.API)

	a := api.Group("/auth")
	a.Post("/sign-up", auth.SignUp)
	a.Post("/sign-in", auth.SignIn)
	a.Post("/sign-out", auth.SignOut)
	a.Get("/me", g.RequireAuth, auth.Me)
}
