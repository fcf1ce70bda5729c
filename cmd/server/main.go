package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/irodav/travel-listing-api/internal/config"
	"github.com/irodav/travel-listing-api/internal/database"
	"github.com/irodav/travel-listing-api/internal/handler"
	"github.com/irodav/travel-listing-api/internal/queue"
	"github.com/irodav/travel-listing-api/internal/repository"
	"github.com/irodav/travel-listing-api/internal/router"
	queuepublisher "github.com/irodav/travel-listing-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema bootstrap: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	listings := repository.NewListingRepo(db)
	bookings := repository.NewBookingRepo(db)
	reviews := repository.NewReviewRepo(db)

	lh := handler.NewListingHandler(listings, users)
	bh := handler.NewBookingHandler(bookings, listings, users, queuepublisher.New())
	rh := handler.NewReviewHandler(reviews, listings, users)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	// Drain booking events into logs/booking.log in the background.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, lh, bh, rh, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
