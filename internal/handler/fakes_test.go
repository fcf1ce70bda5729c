package handler

import (
	"context"
	"time"

	"github.com/irodav/travel-listing-api/internal/model"
	"github.com/irodav/travel-listing-api/internal/queue"
	"github.com/irodav/travel-listing-api/internal/repository"
)

// In-memory fakes for the store interfaces. They implement just enough
// behaviour for the handlers under test: id assignment, timestamps and
// the repository sentinels.

type fakeUsers struct {
	users map[string]*model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*model.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

type fakeListings struct {
	listings map[string]*model.Listing
	users    *fakeUsers
	nextID   int
}

func newFakeListings(users *fakeUsers, listings ...*model.Listing) *fakeListings {
	f := &fakeListings{listings: map[string]*model.Listing{}, users: users}
	for _, l := range listings {
		f.listings[l.PropertyID] = l
	}
	return f
}

func (f *fakeListings) Create(_ context.Context, l *model.Listing) error {
	f.nextID++
	l.PropertyID = "p-generated"
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	f.listings[l.PropertyID] = &cp
	return nil
}

func (f *fakeListings) GetByID(_ context.Context, id string) (*model.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListings) GetWithHost(ctx context.Context, id string) (*model.Listing, *model.User, error) {
	l, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	host, err := f.users.GetByID(ctx, l.HostID)
	if err != nil {
		return nil, nil, err
	}
	return l, host, nil
}

func (f *fakeListings) List(ctx context.Context) ([]repository.ListingSummary, error) {
	out := make([]repository.ListingSummary, 0, len(f.listings))
	for _, l := range f.listings {
		host, _ := f.users.GetByID(ctx, l.HostID)
		name := ""
		if host != nil {
			name = host.Username
		}
		out = append(out, repository.ListingSummary{
			PropertyID:    l.PropertyID,
			Name:          l.Name,
			Location:      l.Location,
			PricePerNight: l.PricePerNight,
			HostName:      name,
		})
	}
	return out, nil
}

func (f *fakeListings) Update(_ context.Context, l *model.Listing) error {
	if _, ok := f.listings[l.PropertyID]; !ok {
		return repository.ErrNotFound
	}
	l.UpdatedAt = time.Now().UTC()
	cp := *l
	f.listings[l.PropertyID] = &cp
	return nil
}

func (f *fakeListings) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.listings[id]
	return ok, nil
}

func (f *fakeListings) Delete(_ context.Context, id string) error {
	if _, ok := f.listings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.listings, id)
	return nil
}

type fakeBookings struct {
	bookings map[string]*model.Booking
	listings *fakeListings
	users    *fakeUsers
}

func newFakeBookings(listings *fakeListings, users *fakeUsers, bookings ...*model.Booking) *fakeBookings {
	f := &fakeBookings{bookings: map[string]*model.Booking{}, listings: listings, users: users}
	for _, b := range bookings {
		f.bookings[b.BookingID] = b
	}
	return f
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	b.BookingID = "b-generated"
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	b.CreatedAt = time.Now().UTC()
	cp := *b
	f.bookings[b.BookingID] = &cp
	return nil
}

func (f *fakeBookings) GetDetail(ctx context.Context, id string) (*repository.BookingDetail, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	listing, host, err := f.listings.GetWithHost(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	guest, err := f.users.GetByID(ctx, b.UserID)
	if err != nil {
		return nil, err
	}
	return &repository.BookingDetail{Booking: *b, Listing: *listing, Host: *host, Guest: *guest}, nil
}

func (f *fakeBookings) List(ctx context.Context, propertyID, userID string) ([]repository.BookingSummary, error) {
	out := make([]repository.BookingSummary, 0, len(f.bookings))
	for _, b := range f.bookings {
		if propertyID != "" && b.PropertyID != propertyID {
			continue
		}
		if userID != "" && b.UserID != userID {
			continue
		}
		listing, _, _ := f.listings.GetWithHost(ctx, b.PropertyID)
		guest, _ := f.users.GetByID(ctx, b.UserID)
		s := repository.BookingSummary{
			BookingID:  b.BookingID,
			StartDate:  b.StartDate,
			EndDate:    b.EndDate,
			Status:     b.Status,
			TotalPrice: b.TotalPrice,
		}
		if listing != nil {
			s.PropertyName = listing.Name
		}
		if guest != nil {
			s.UserName = guest.Username
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id string, status model.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookings) Delete(_ context.Context, id string) error {
	if _, ok := f.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

type fakeReviews struct {
	reviews map[string]*model.Review
	users   *fakeUsers
}

func newFakeReviews(users *fakeUsers, reviews ...*model.Review) *fakeReviews {
	f := &fakeReviews{reviews: map[string]*model.Review{}, users: users}
	for _, rv := range reviews {
		f.reviews[rv.ReviewID] = rv
	}
	return f
}

func (f *fakeReviews) Create(ctx context.Context, rv *model.Review) error {
	if ok, _ := f.ExistsForPair(ctx, rv.PropertyID, rv.UserID); ok {
		return repository.ErrDuplicateReview
	}
	rv.ReviewID = "r-generated"
	rv.CreatedAt = time.Now().UTC()
	cp := *rv
	f.reviews[rv.ReviewID] = &cp
	return nil
}

func (f *fakeReviews) ExistsForPair(_ context.Context, propertyID, userID string) (bool, error) {
	for _, rv := range f.reviews {
		if rv.PropertyID == propertyID && rv.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviews) ListByProperty(_ context.Context, propertyID string) ([]repository.ReviewWithUser, error) {
	out := make([]repository.ReviewWithUser, 0)
	for _, rv := range f.reviews {
		if rv.PropertyID != propertyID {
			continue
		}
		u, _ := f.users.GetByID(context.Background(), rv.UserID)
		item := repository.ReviewWithUser{Review: *rv}
		if u != nil {
			item.User = *u
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeReviews) Delete(_ context.Context, id string) error {
	if _, ok := f.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

// stubBookings overrides Create with a fixed error to exercise the
// failure paths.
type stubBookings struct {
	*fakeBookings
	createErr error
}

func (s *stubBookings) Create(ctx context.Context, b *model.Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	return s.fakeBookings.Create(ctx, b)
}

// fakePublisher records published events.
type fakePublisher struct {
	events []queue.BookingCreatedEvent
}

func (f *fakePublisher) PublishBookingCreated(_ context.Context, event queue.BookingCreatedEvent) error {
	f.events = append(f.events, event)
	return nil
}
