// Command seed populates the database with sample data for development
// and demos. With --clear it first deletes reviews, bookings and
// listings (in dependency order) and then every non-privileged user.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/irodav/travel-listing-api/internal/config"
	"github.com/irodav/travel-listing-api/internal/database"
	"github.com/irodav/travel-listing-api/internal/repository"
	"github.com/irodav/travel-listing-api/internal/seed"
)

func main() {
	var (
		clear   bool
		rngSeed int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with sample listings, bookings and reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg := config.Load()

			db, err := database.Open(cfg)
			if err != nil {
				return fmt.Errorf("database open: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := database.EnsureSchema(ctx, db); err != nil {
				return err
			}

			if rngSeed == 0 {
				rngSeed = time.Now().UnixNano()
			}
			s := &seed.Seeder{
				Users:      repository.NewUserRepo(db),
				Listings:   repository.NewListingRepo(db),
				Bookings:   repository.NewBookingRepo(db),
				Reviews:    repository.NewReviewRepo(db),
				Rand:       rand.New(rand.NewSource(rngSeed)),
				BcryptCost: cfg.BcryptCost,
			}
			sum, err := s.Run(ctx, clear)
			if err != nil {
				return err
			}
			fmt.Printf("seeding complete: %d users, %d listings, %d bookings, %d reviews\n",
				sum.Users, sum.Listings, sum.Bookings, sum.Reviews)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "delete existing data before seeding")
	cmd.Flags().Int64Var(&rngSeed, "seed", 0, "RNG seed for reproducible fixtures (0 = time-based)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
