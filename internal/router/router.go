// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/irodav/travel-listing-api/internal/config"
	"github.com/irodav/travel-listing-api/internal/handler"
	"github.com/irodav/travel-listing-api/internal/middleware"
)

// Register mounts all routes on the provided Echo instance. The redis
// client may be nil, in which case caching and rate limiting are
// disabled and every endpoint still works.
func Register(e *echo.Echo, lh *handler.ListingHandler, bh *handler.BookingHandler, rh *handler.ReviewHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	v1.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	// The bulk listing display is the hottest read; cache it.
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	v1.GET("/listings", lh.List, cache)

	v1.POST("/listings", lh.Create)
	v1.GET("/listings/:id", lh.Get)
	v1.PUT("/listings/:id", lh.Update)
	v1.DELETE("/listings/:id", lh.Delete)
	v1.GET("/listings/:id/reviews", rh.ListByProperty)

	v1.GET("/bookings", bh.List)
	v1.POST("/bookings", bh.Create)
	v1.GET("/bookings/:id", bh.Get)
	v1.PATCH("/bookings/:id", bh.UpdateStatus)
	v1.DELETE("/bookings/:id", bh.Delete)

	v1.POST("/reviews", rh.Create)
	v1.DELETE("/reviews/:id", rh.Delete)
}
