// Package seed populates the store with sample users, listings,
// bookings and reviews for development and demos. Values are
// randomized but every generated row satisfies the entity invariants.
// The seeder talks to storage through narrow interfaces so it can be
// exercised against a fake in tests.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/irodav/travel-listing-api/internal/model"
	"github.com/irodav/travel-listing-api/internal/repository"
)

// UserStore is the user surface the seeder needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	DeleteNonStaff(ctx context.Context) (int64, error)
}

// ListingStore is the listing surface the seeder needs.
type ListingStore interface {
	Create(ctx context.Context, l *model.Listing) error
	DeleteAll(ctx context.Context) (int64, error)
}

// BookingStore is the booking surface the seeder needs.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	DeleteAll(ctx context.Context) (int64, error)
}

// ReviewStore is the review surface the seeder needs.
type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	DeleteAll(ctx context.Context) (int64, error)
}

// Seeder generates the sample data set. Rand must be non-nil; pass a
// seeded source for reproducible fixtures.
type Seeder struct {
	Users      UserStore
	Listings   ListingStore
	Bookings   BookingStore
	Reviews    ReviewStore
	Rand       *rand.Rand
	BcryptCost int
}

// Summary reports how many rows each phase created.
type Summary struct {
	Users    int
	Listings int
	Bookings int
	Reviews  int
}

type userSpec struct {
	username, email, firstName, lastName string
}

var userSpecs = []userSpec{
	{"john_host", "john@example.com", "John", "Doe"},
	{"jane_host", "jane@example.com", "Jane", "Smith"},
	{"mike_guest", "mike@example.com", "Mike", "Johnson"},
	{"sarah_guest", "sarah@example.com", "Sarah", "Williams"},
	{"david_host", "david@example.com", "David", "Brown"},
	{"emma_guest", "emma@example.com", "Emma", "Davis"},
}

type listingSpec struct {
	name, description, location, price string
}

var listingSpecs = []listingSpec{
	{"Cozy Beach House", "Beautiful beachfront property with stunning ocean views. Perfect for families and couples seeking a relaxing getaway.", "Malibu, California", "250.00"},
	{"Mountain Retreat Cabin", "Secluded cabin in the mountains with hiking trails nearby. Ideal for nature lovers and adventure seekers.", "Aspen, Colorado", "180.00"},
	{"Downtown Luxury Apartment", "Modern apartment in the heart of the city with all amenities. Walking distance to restaurants, shops, and entertainment.", "New York, NY", "300.00"},
	{"Countryside Villa", "Spacious villa surrounded by vineyards and rolling hills. Features a private pool and outdoor dining area.", "Tuscany, Italy", "450.00"},
	{"Tropical Paradise Bungalow", "Charming bungalow steps from pristine beaches. Includes hammocks, outdoor shower, and tropical garden.", "Bali, Indonesia", "120.00"},
	{"Historic City Loft", "Renovated loft in a historic building with exposed brick and high ceilings. Perfect for urban explorers.", "Boston, Massachusetts", "220.00"},
	{"Lakefront Cottage", "Peaceful cottage on a private lake with dock and kayaks included. Great for fishing and water activities.", "Lake Tahoe, Nevada", "195.00"},
	{"Desert Oasis Villa", "Stunning modern villa with infinity pool overlooking desert landscape. Solar-powered and eco-friendly.", "Scottsdale, Arizona", "350.00"},
}

var reviewComments = []string{
	"Amazing place! Highly recommended for anyone visiting the area.",
	"Great location and very clean. The host was very responsive.",
	"Beautiful property with stunning views. Would definitely stay again.",
	"Good value for money. Some minor issues but overall satisfied.",
	"Exactly as described. Perfect for our family vacation.",
	"Outstanding experience. The property exceeded our expectations.",
	"Nice place but could use some updates. Still enjoyable though.",
	"Wonderful stay! The amenities were top-notch.",
	"Very comfortable and well-maintained. Great communication with host.",
	"Decent property but not quite what we expected from the photos.",
}

// bookingStatusPool biases generated bookings towards confirmed.
var bookingStatusPool = []model.BookingStatus{
	model.StatusPending,
	model.StatusConfirmed,
	model.StatusConfirmed,
	model.StatusConfirmed,
	model.StatusCanceled,
}

const bookingCount = 15

// Run executes the seeding passes. With clear set, existing reviews,
// bookings and listings are deleted first (in dependency order),
// followed by all non-privileged users. The multi-insert loops are not
// one atomic unit; a failure partway through leaves partial data.
func (s *Seeder) Run(ctx context.Context, clear bool) (Summary, error) {
	var sum Summary
	if clear {
		log.Printf("clearing existing data")
		if err := s.clearAll(ctx); err != nil {
			return sum, err
		}
	}

	users, err := s.createUsers(ctx)
	if err != nil {
		return sum, err
	}
	sum.Users = len(users)
	log.Printf("created %d users", sum.Users)

	listings, err := s.createListings(ctx, users)
	if err != nil {
		return sum, err
	}
	sum.Listings = len(listings)
	log.Printf("created %d listings", sum.Listings)

	nBookings, err := s.createBookings(ctx, listings, users)
	if err != nil {
		return sum, err
	}
	sum.Bookings = nBookings
	log.Printf("created %d bookings", sum.Bookings)

	nReviews, err := s.createReviews(ctx, listings, users)
	if err != nil {
		return sum, err
	}
	sum.Reviews = nReviews
	log.Printf("created %d reviews", sum.Reviews)

	return sum, nil
}

func (s *Seeder) clearAll(ctx context.Context) error {
	if _, err := s.Reviews.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear reviews: %w", err)
	}
	if _, err := s.Bookings.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear bookings: %w", err)
	}
	if _, err := s.Listings.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear listings: %w", err)
	}
	if _, err := s.Users.DeleteNonStaff(ctx); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	return nil
}

// createUsers is idempotent on username: existing accounts are reused,
// missing ones are created with a development password hash.
func (s *Seeder) createUsers(ctx context.Context) ([]model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), s.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	users := make([]model.User, 0, len(userSpecs))
	for _, spec := range userSpecs {
		existing, err := s.Users.GetByUsername(ctx, spec.username)
		if err == nil {
			users = append(users, *existing)
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup user %s: %w", spec.username, err)
		}
		u := model.User{
			Username:     spec.username,
			Email:        spec.email,
			FirstName:    spec.firstName,
			LastName:     spec.lastName,
			PasswordHash: string(hash),
		}
		if err := s.Users.Create(ctx, &u); err != nil {
			return nil, fmt.Errorf("create user %s: %w", spec.username, err)
		}
		users = append(users, u)
	}
	return users, nil
}

// createListings assigns the fixed listings round-robin across host
// users. Listings are inserted unconditionally on every run.
func (s *Seeder) createListings(ctx context.Context, users []model.User) ([]model.Listing, error) {
	hosts := filterByRole(users, "host")
	if len(hosts) == 0 {
		return nil, errors.New("no host users to own listings")
	}
	listings := make([]model.Listing, 0, len(listingSpecs))
	for i, spec := range listingSpecs {
		price, err := decimal.NewFromString(spec.price)
		if err != nil {
			return nil, fmt.Errorf("bad price for %s: %w", spec.name, err)
		}
		l := model.Listing{
			HostID:        hosts[i%len(hosts)].ID,
			Name:          spec.name,
			Description:   spec.description,
			Location:      spec.location,
			PricePerNight: price,
		}
		if err := s.Listings.Create(ctx, &l); err != nil {
			return nil, fmt.Errorf("create listing %s: %w", spec.name, err)
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// createBookings generates random stays: the start is a random offset
// in [-30, +60] days from today, the duration 2..14 days, and the
// total is price_per_night times the whole-day duration, exact in
// fixed point.
func (s *Seeder) createBookings(ctx context.Context, listings []model.Listing, users []model.User) (int, error) {
	guests := filterByRole(users, "guest")
	if len(guests) == 0 {
		return 0, errors.New("no guest users to book listings")
	}
	today := truncateToDay(time.Now().UTC())
	for i := 0; i < bookingCount; i++ {
		listing := listings[s.Rand.Intn(len(listings))]
		guest := guests[s.Rand.Intn(len(guests))]
		startOffset := s.Rand.Intn(91) - 30 // -30..+60
		duration := s.Rand.Intn(13) + 2     // 2..14
		start := today.AddDate(0, 0, startOffset)
		end := start.AddDate(0, 0, duration)

		b := model.Booking{
			PropertyID: listing.PropertyID,
			UserID:     guest.ID,
			StartDate:  start,
			EndDate:    end,
			TotalPrice: listing.PricePerNight.Mul(decimal.NewFromInt(int64(duration))),
			Status:     bookingStatusPool[s.Rand.Intn(len(bookingStatusPool))],
		}
		if err := s.Bookings.Create(ctx, &b); err != nil {
			return i, fmt.Errorf("create booking %d: %w", i, err)
		}
	}
	return bookingCount, nil
}

// createReviews picks a random subset of at most 6 listings and gives
// each 1..3 reviews from distinct guests, rated 3..5 with a canned
// comment.
func (s *Seeder) createReviews(ctx context.Context, listings []model.Listing, users []model.User) (int, error) {
	guests := filterByRole(users, "guest")
	if len(guests) == 0 {
		return 0, errors.New("no guest users to review listings")
	}
	picked := make([]model.Listing, len(listings))
	copy(picked, listings)
	s.Rand.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if len(picked) > 6 {
		picked = picked[:6]
	}

	created := 0
	for _, listing := range picked {
		n := s.Rand.Intn(3) + 1 // 1..3
		if n > len(guests) {
			n = len(guests)
		}
		reviewers := make([]model.User, len(guests))
		copy(reviewers, guests)
		s.Rand.Shuffle(len(reviewers), func(i, j int) { reviewers[i], reviewers[j] = reviewers[j], reviewers[i] })
		for _, guest := range reviewers[:n] {
			rv := model.Review{
				PropertyID: listing.PropertyID,
				UserID:     guest.ID,
				Rating:     s.Rand.Intn(3) + 3, // 3..5
				Comment:    reviewComments[s.Rand.Intn(len(reviewComments))],
			}
			if err := s.Reviews.Create(ctx, &rv); err != nil {
				return created, fmt.Errorf("create review for %s: %w", listing.Name, err)
			}
			created++
		}
	}
	return created, nil
}

// filterByRole selects users whose username carries the given role
// marker, matching the fixed seed account naming.
func filterByRole(users []model.User, role string) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(u.Username, role) {
			out = append(out, u)
		}
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
