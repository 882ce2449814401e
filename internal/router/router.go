package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/classroom-api/internal/config"
	"github.com/noah-isme/classroom-api/internal/handler"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	AccountHandler    *handler.AccountHandler
	ClassHandler      *handler.ClassHandler
	GoalHandler       *handler.GoalHandler
	TaskHandler       *handler.TaskHandler
	AttendanceHandler *handler.AttendanceHandler
	ChatHandler       *handler.ChatHandler
	ProfileHandler    *handler.ProfileHandler
	JWTMiddleware     fiber.Handler
	// AuthLimiter guards the public auth routes. Built from config when nil.
	AuthLimiter       fiber.Handler
	HealthProbes      []handler.HealthProbe
	// LimiterStorage backs the default AuthLimiter. In-memory when nil.
	LimiterStorage    fiber.Storage
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes...))

	// Public routes must be registered before the JWT middleware below.
	if deps.AuthHandler != nil {
		limiter := deps.AuthLimiter
		if limiter == nil {
			limiter = middleware.RateLimit(middleware.RateLimitConfig{
				Name:    "auth",
				Max:     cfg.AuthRateLimitMax,
				Window:  cfg.AuthRateLimitWindow,
				Storage: deps.LimiterStorage,
			})
		}
		deps.AuthHandler.Register(api, limiter)
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}
	protected := api.Group("", jwtMiddleware)

	registrars := []interface{ Register(fiber.Router) }{}
	if deps.AccountHandler != nil {
		registrars = append(registrars, deps.AccountHandler)
	}
	if deps.ClassHandler != nil {
		registrars = append(registrars, deps.ClassHandler)
	}
	if deps.GoalHandler != nil {
		registrars = append(registrars, deps.GoalHandler)
	}
	if deps.TaskHandler != nil {
		registrars = append(registrars, deps.TaskHandler)
	}
	if deps.AttendanceHandler != nil {
		registrars = append(registrars, deps.AttendanceHandler)
	}
	if deps.ChatHandler != nil {
		registrars = append(registrars, deps.ChatHandler)
	}
	if deps.ProfileHandler != nil {
		registrars = append(registrars, deps.ProfileHandler)
	}

	for _, registrar := range registrars {
		registrar.Register(protected)
	}
}
