package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/artem13815/acquisitions/pkg/logging"
)

const requestIDHeader = "X-Request-ID"

// NewApp builds the Fiber app with the process-wide error handler and the
// common middleware stack.
func NewApp(log logging.Logger, corsOrigin string) *fiber.App {
	if log == nil {
		log = logging.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      "acquisitions",
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	app.Use(helmet.New())
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
	}))
	return app
}

// ErrorHandler answers errors no handler mapped. *fiber.Error keeps its code
// and message; anything else is a generic 500 and only the log sees details.
func ErrorHandler(log logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}
		log.Error(c.UserContext(), "unhandled error",
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals(requestIDHeader),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

// RequestLogger tags each request with an id and writes one access log line.
func RequestLogger(log logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(requestIDHeader, id)
		c.Set(requestIDHeader, id)

		err := c.Next()
		if err != nil {
			// let the error handler set the final status before logging it
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		log.Info(c.UserContext(), "request",
			"request_id", id,
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"ip", c.IP(),
			"user_agent", c.Get(fiber.HeaderUserAgent),
			"latency", time.Since(start).String(),
		)
		return nil
	}
}
