package seed

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/irodav/travel-listing-api/internal/model"
	"github.com/irodav/travel-listing-api/internal/repository"
)

// memStore is an in-memory stand-in for the repositories. It records
// clear calls so ordering can be asserted.
type memStore struct {
	users    map[string]*model.User
	listings []*model.Listing
	bookings []*model.Booking
	reviews  []*model.Review
	cleared  []string
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*model.User{}}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return prefix + "-" + strconv.Itoa(m.nextID)
}

type memUsers struct{ *memStore }

func (m memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m memUsers) Create(_ context.Context, u *model.User) error {
	u.ID = m.id("u")
	cp := *u
	m.users[u.Username] = &cp
	return nil
}

func (m memUsers) DeleteNonStaff(_ context.Context) (int64, error) {
	n := int64(len(m.users))
	for k := range m.users {
		delete(m.users, k)
	}
	m.cleared = append(m.cleared, "users")
	return n, nil
}

type memListings struct{ *memStore }

func (m memListings) Create(_ context.Context, l *model.Listing) error {
	l.PropertyID = m.id("p")
	cp := *l
	m.listings = append(m.listings, &cp)
	return nil
}

func (m memListings) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(m.listings))
	m.memStore.listings = nil
	m.memStore.cleared = append(m.memStore.cleared, "listings")
	return n, nil
}

type memBookings struct{ *memStore }

func (m memBookings) Create(_ context.Context, b *model.Booking) error {
	b.BookingID = m.id("b")
	cp := *b
	m.bookings = append(m.bookings, &cp)
	return nil
}

func (m memBookings) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(m.bookings))
	m.memStore.bookings = nil
	m.memStore.cleared = append(m.memStore.cleared, "bookings")
	return n, nil
}

type memReviews struct{ *memStore }

func (m memReviews) Create(_ context.Context, rv *model.Review) error {
	for _, existing := range m.reviews {
		if existing.PropertyID == rv.PropertyID && existing.UserID == rv.UserID {
			return repository.ErrDuplicateReview
		}
	}
	rv.ReviewID = m.id("r")
	cp := *rv
	m.memStore.reviews = append(m.memStore.reviews, &cp)
	return nil
}

func (m memReviews) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(m.reviews))
	m.memStore.reviews = nil
	m.memStore.cleared = append(m.memStore.cleared, "reviews")
	return n, nil
}

func newTestSeeder(store *memStore, seed int64) *Seeder {
	return &Seeder{
		Users:      memUsers{store},
		Listings:   memListings{store},
		Bookings:   memBookings{store},
		Reviews:    memReviews{store},
		Rand:       rand.New(rand.NewSource(seed)),
		BcryptCost: bcrypt.MinCost,
	}
}

func TestRunCounts(t *testing.T) {
	store := newMemStore()
	s := newTestSeeder(store, 1)

	sum, err := s.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 6, sum.Users)
	assert.Equal(t, 8, sum.Listings)
	assert.Equal(t, 15, sum.Bookings)
	assert.GreaterOrEqual(t, sum.Reviews, 1)
	assert.LessOrEqual(t, sum.Reviews, 18)

	assert.Len(t, store.users, 6)
	assert.Len(t, store.listings, 8)
	assert.Len(t, store.bookings, 15)
	assert.Equal(t, sum.Reviews, len(store.reviews))
}

func TestRunGeneratedRowsSatisfyInvariants(t *testing.T) {
	store := newMemStore()
	s := newTestSeeder(store, 42)

	_, err := s.Run(context.Background(), false)
	require.NoError(t, err)

	prices := map[string]decimal.Decimal{}
	for _, l := range store.listings {
		assert.True(t, l.PricePerNight.IsPositive(), "listing %s price", l.Name)
		prices[l.PropertyID] = l.PricePerNight
	}

	for _, b := range store.bookings {
		assert.True(t, b.EndDate.After(b.StartDate), "booking %s dates", b.BookingID)
		assert.True(t, b.Status.Valid(), "booking %s status", b.BookingID)
		nights := b.Nights()
		want := prices[b.PropertyID].Mul(decimal.NewFromInt(int64(nights)))
		assert.True(t, b.TotalPrice.Equal(want),
			"booking %s total %s != %s x %d nights", b.BookingID, b.TotalPrice, prices[b.PropertyID], nights)
	}

	seen := map[string]bool{}
	for _, rv := range store.reviews {
		assert.GreaterOrEqual(t, rv.Rating, 3)
		assert.LessOrEqual(t, rv.Rating, 5)
		assert.NotEmpty(t, rv.Comment)
		pair := rv.PropertyID + "/" + rv.UserID
		assert.False(t, seen[pair], "duplicate review pair %s", pair)
		seen[pair] = true
	}
}

func TestRunIsIdempotentOnUsers(t *testing.T) {
	store := newMemStore()
	s := newTestSeeder(store, 7)

	_, err := s.Run(context.Background(), false)
	require.NoError(t, err)
	firstIDs := map[string]string{}
	for name, u := range store.users {
		firstIDs[name] = u.ID
	}

	// Second run without clear reuses the accounts but re-inserts
	// listings and bookings.
	sum, err := s.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Users)
	assert.Len(t, store.users, 6)
	for name, u := range store.users {
		assert.Equal(t, firstIDs[name], u.ID, "user %s recreated", name)
	}
	assert.Len(t, store.listings, 16)
	assert.Len(t, store.bookings, 30)
}

func TestRunClearOrder(t *testing.T) {
	store := newMemStore()
	s := newTestSeeder(store, 3)

	_, err := s.Run(context.Background(), false)
	require.NoError(t, err)

	sum, err := s.Run(context.Background(), true)
	require.NoError(t, err)

	require.Len(t, store.cleared, 4)
	assert.Equal(t, []string{"reviews", "bookings", "listings", "users"}, store.cleared)

	// Fresh rows after the wipe.
	assert.Equal(t, 6, sum.Users)
	assert.Len(t, store.listings, 8)
	assert.Len(t, store.bookings, 15)
}

func TestRunAssignsListingsToHosts(t *testing.T) {
	store := newMemStore()
	s := newTestSeeder(store, 11)

	_, err := s.Run(context.Background(), false)
	require.NoError(t, err)

	hostIDs := map[string]bool{}
	for name, u := range store.users {
		if u.IsStaff {
			continue
		}
		if strings.Contains(name, "host") {
			hostIDs[u.ID] = true
		}
	}
	require.NotEmpty(t, hostIDs)
	for _, l := range store.listings {
		assert.True(t, hostIDs[l.HostID], "listing %s owned by non-host %s", l.Name, l.HostID)
	}
}
