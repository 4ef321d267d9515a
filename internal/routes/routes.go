package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/handlers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	deps *apps.Deps,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	temaHandler *handlers.TemaHandler,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/password/forgot", authHandler.ForgotPassword)
	auth.Post("/password/reset", authHandler.ResetPassword)

	users := api.Group("/users")
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", deps.Auth, userHandler.Update)
	users.Delete("/:id", deps.Auth, userHandler.Delete)

	temas := api.Group("/temas")
	temas.Get("/", temaHandler.List)
	temas.Get("/:id", temaHandler.Get)
	temas.Get("/:id/subtemas", temaHandler.ListByTema)
	temas.Post("/", deps.Auth, temaHandler.Create)
	temas.Put("/:id", deps.Auth, temaHandler.Update)
	temas.Delete("/:id", deps.Auth, temaHandler.Delete)

	subtemas := api.Group("/subtemas")
	subtemas.Get("/", temaHandler.ListSubtemas)
	subtemas.Get("/:id", temaHandler.GetSubtema)
	subtemas.Post("/", deps.Auth, temaHandler.CreateSubtema)
	subtemas.Put("/:id", deps.Auth, temaHandler.UpdateSubtema)
	subtemas.Delete("/:id", deps.Auth, temaHandler.DeleteSubtema)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", deps.Auth, deps.Admin)
	admin.Put("/users/:id/monitor", userHandler.SetMonitor)

	for _, p := range plugins {
		p.RegisterRoutes(api, deps)
	}
}
