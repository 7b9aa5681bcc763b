package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/account_balance/internal/account"
	"github.com/congo-pay/account_balance/internal/auth"
	"github.com/congo-pay/account_balance/internal/config"
	"github.com/congo-pay/account_balance/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger

	// Accounts overrides the account store; defaults to Postgres when DB is
	// set and to an empty in-memory store otherwise.
	Accounts account.Repository
	// Registry receives the HTTP metrics; a fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.DB == nil && d.Accounts == nil && !d.Cfg.IsDev() {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	registry := d.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	metrics, err := middleware.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	} else {
		app.Use(middleware.Audit(d.Logger))
	}
	app.Use(metrics.Handler())

	RegisterHealthRoutes(app, d)
	RegisterMetricsRoute(app, registry)

	accounts := d.Accounts
	if accounts == nil {
		if d.DB != nil {
			accounts = account.NewPostgresRepository(d.DB)
		} else {
			d.Logger.Warn("no database configured, serving accounts from an empty in-memory store")
			accounts = account.NewMemoryRepository()
		}
	}

	verifier := auth.NewJWTVerifier(d.Cfg.JWTSecret, d.Cfg.JWTIssuer, d.Logger)
	accountHandler := account.NewHandler(d.Cfg.BillingURI, verifier, account.NewReader(accounts), d.Logger)
	limiter := middleware.RateLimit(d.Cache, d.Cfg.RateLimit, d.Logger)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	RegisterAccountRoutes(api, app.Group("/api"), accountHandler, limiter)

	return nil
}
