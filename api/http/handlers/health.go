package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/acquisitions/pkg/health"
	"github.com/artem13815/acquisitions/pkg/logging"
)

// HealthHandler serves the greeting, liveness and readiness probes.
type HealthHandler struct {
	svc health.ReadinessUseCase
	log logging.Logger
}

func NewHealthHandler(svc health.ReadinessUseCase, log logging.Logger) *HealthHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &HealthHandler{svc: svc, log: log}
}

// Root: plain-text greeting.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	h.log.Info(c.UserContext(), "hello from acquisitions")
	return c.Status(fiber.StatusOK).SendString("Hello from acquisitions")
}

// Health: basic liveness check.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"uptime":    h.svc.Uptime().Seconds(),
	})
}

// API: service banner.
// @Summary API status
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /api [get]
func (h *HealthHandler) API(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   "Acquisition api is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"uptime":    h.svc.Uptime().Seconds(),
	})
}

// Ready: readiness check with dependency pings.
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.svc.Ready(ctx); err != nil {
		h.log.Warn(ctx, "readiness check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not_ready"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ready"})
}
