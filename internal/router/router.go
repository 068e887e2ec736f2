// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/lost-pet-registry/internal/config"
	"github.com/iliyamo/lost-pet-registry/internal/handler"
	"github.com/iliyamo/lost-pet-registry/internal/middleware"
)

// Handlers groups everything the router needs to wire the HTTP surface.
type Handlers struct {
	Auth   *handler.AuthHandler
	Pets   *handler.PetHandler
	Search *handler.SearchHandler
	Report *handler.ReportHandler
}

// Register wires all routes on the provided Echo instance. Owner-scoped
// routes sit behind the JWT middleware; public routes (signup, login,
// proximity search, report intake, health) take none. The report endpoint is
// rate limited and the proximity search response-cached when Redis is
// available; with rdb nil both middlewares pass through.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Public auth endpoints.
	e.POST("/auth/signup", h.Auth.Signup)
	e.POST("/auth/login", h.Auth.Login)

	// Public browse: proximity search against the index only.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/pets-near", h.Search.PetsNear, cache)

	// Public report intake, rate limited per IP.
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	e.POST("/reports", h.Report.Create, limit)

	// Owner-scoped operations require a valid bearer token.
	auth := e.Group("", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", h.Auth.Me)
	auth.POST("/pets", h.Pets.Create)
	auth.PUT("/pets/:id", h.Pets.Update)
	auth.GET("/my/pets", h.Pets.ListMine)
}
