// @title         acquisitions API
// @version       1.0
// @description   Authentication API: signup, sign-in, sign-out with JWT session cookies and per-role rate limiting.
// @BasePath      /
// @schemes       http
// @host          localhost:3000
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	swagger "github.com/gofiber/swagger"

	_ "github.com/artem13815/acquisitions/docs"

	// internal imports
	apihttp "github.com/artem13815/acquisitions/api/http"
	"github.com/artem13815/acquisitions/api/http/handlers"
	"github.com/artem13815/acquisitions/pkg/auth"
	"github.com/artem13815/acquisitions/pkg/config"
	"github.com/artem13815/acquisitions/pkg/health"
	"github.com/artem13815/acquisitions/pkg/health/checkers"
	"github.com/artem13815/acquisitions/pkg/logging"
	"github.com/artem13815/acquisitions/pkg/repository/memory"
	pgrepo "github.com/artem13815/acquisitions/pkg/repository/postgres"
	"github.com/artem13815/acquisitions/pkg/security/gate"
	"github.com/artem13815/acquisitions/pkg/security/jwt"
	"github.com/artem13815/acquisitions/pkg/security/password"
	"github.com/artem13815/acquisitions/pkg/storage/postgres"
	"github.com/artem13815/acquisitions/pkg/storage/redis"
)

func main() {
	// Load configuration from env/.env
	cfg, err := config.Load()
	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err != nil {
		fatal(ctx, log, "load config", err)
	}
	if cfg.InsecureSecret() {
		log.Warn(ctx, "JWT_SECRET is not set; using the insecure development default", "env", cfg.Env)
	}
	if err := cfg.Validate(); err != nil {
		fatal(ctx, log, "invalid config", err)
	}

	var (
		userRepo auth.UserRepository
		probes   []health.Checker
	)
	switch cfg.StorageDriver {
	case "memory":
		log.Warn(ctx, "using in-memory user store; data is lost on restart")
		userRepo = memory.NewUserRepository()
	default:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fatal(ctx, log, "postgres connect", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			fatal(ctx, log, "postgres migrate", err)
		}
		userRepo = pgrepo.NewUserRepository(pool)
		probes = append(probes, checkers.NewPostgresChecker(pool))
	}

	// Rate window: shared through Redis when configured, per process otherwise.
	var window gate.Window
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			fatal(ctx, log, "redis connect", err)
		}
		defer rdb.Close()
		window = gate.NewRedisWindow(rdb)
		probes = append(probes, checkers.NewRedisChecker(rdb))
	} else {
		mw := gate.NewMemoryWindow()
		go mw.RunSweeper(ctx, time.Minute)
		window = mw
	}

	// Token generator
	tokens := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer)
	authUC := auth.NewAuthService(userRepo, password.NewHasher(cfg.BcryptCost), tokens, log.With("component", "auth"))

	authHandler := handlers.NewAuthHandler(authUC, handlers.CookieOptionsFor(cfg.IsProduction()), log.With("component", "http"))
	healthHandler := handlers.NewHealthHandler(health.NewService(probes...), log)

	app := apihttp.NewApp(log, cfg.CORSOrigin)
	apihttp.Register(app, authHandler, healthHandler, apihttp.Guards{
		Identity:    jwt.NewAuthMiddleware(tokens, false),
		RequireAuth: jwt.NewAuthMiddleware(tokens, true),
		Gate:        gate.NewMiddleware(gate.NewGuard(window), gate.ParseMode(cfg.GateMode), log.With("component", "gate")),
	})

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "shutdown", "error", err)
		}
	}()

	// Start server
	log.Info(ctx, "HTTP server listening", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageDriver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		fatal(ctx, log, "server stopped", err)
	}
}

func fatal(ctx context.Context, log logging.Logger, msg string, err error) {
	log.Error(ctx, msg, "error", err)
	os.Exit(1)
}
