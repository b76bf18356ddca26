package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/movie-catalog/api-gateway/config"
	"github.com/tair/movie-catalog/api-gateway/health"
	"github.com/tair/movie-catalog/api-gateway/middleware"
	"github.com/tair/movie-catalog/api-gateway/proxy"
	"github.com/tair/movie-catalog/pkg/auth"
)

// RouteDefinition maps a path prefix to a backend service
type RouteDefinition struct {
	Prefix      string
	ServiceName string
	Description string
	RequireAuth bool
}

// Routes holds all route definitions. Browsing the catalog and popularity
// rankings is public; favourites and profiles require a token.
var Routes = []RouteDefinition{
	{
		Prefix:      "/auth",
		ServiceName: "user",
		Description: "Authentication endpoints (login, register)",
		RequireAuth: false,
	},
	{
		Prefix:      "/users",
		ServiceName: "user",
		Description: "User profile endpoints",
		RequireAuth: true,
	},
	{
		Prefix:      "/movies",
		ServiceName: "movie",
		Description: "Movie catalog browsing",
		RequireAuth: false,
	},
	{
		Prefix:      "/favourites",
		ServiceName: "favourite",
		Description: "Favourite registration and listing",
		RequireAuth: true,
	},
	{
		Prefix:      "/popular",
		ServiceName: "popularity",
		Description: "Favourite counters and rankings",
		RequireAuth: false,
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, tokens *auth.Manager) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream probes)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks downstream services)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed service health checks
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		return c.JSON(healthChecker.CheckAllServices(ctx))
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Movie Catalog API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy, tokens)
	}
}

func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy, tokens *auth.Manager) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler
	if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware(tokens))
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	// Also handle the exact prefix path
	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
