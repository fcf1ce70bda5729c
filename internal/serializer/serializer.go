// Package serializer maps persisted entities onto their external JSON
// representations. Full representations expand related rows inline
// (host on a listing, listing and guest on a booking or review); list
// representations flatten relations to scalar fields to keep bulk
// payloads small. Write payloads are the handlers' concern; this
// package only builds responses.
package serializer

import (
	"time"

	"github.com/irodav/travel-listing-api/internal/model"
	"github.com/irodav/travel-listing-api/internal/repository"
)

// dateLayout is the calendar-date wire format.
const dateLayout = "2006-01-02"

// UserResponse is the public shape of an account. Password hashes and
// staff flags never leave the service.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ListingResponse is the full representation of a listing with the
// host expanded inline. Decimals wire as strings with two fractional
// digits; timestamps as RFC3339 UTC.
type ListingResponse struct {
	PropertyID    string       `json:"property_id"`
	Host          UserResponse `json:"host"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Location      string       `json:"location"`
	PricePerNight string       `json:"price_per_night"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
}

// ListingSummaryResponse is the reduced representation used by bulk
// listing displays.
type ListingSummaryResponse struct {
	PropertyID    string `json:"property_id"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	PricePerNight string `json:"price_per_night"`
	HostName      string `json:"host_name"`
}

// BookingResponse is the full representation of a booking with the
// listing and guest expanded inline.
type BookingResponse struct {
	BookingID  string          `json:"booking_id"`
	Property   ListingResponse `json:"property"`
	User       UserResponse    `json:"user"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	TotalPrice string          `json:"total_price"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
}

// BookingSummaryResponse is the reduced representation used by booking
// list displays.
type BookingSummaryResponse struct {
	BookingID    string `json:"booking_id"`
	PropertyName string `json:"property_name"`
	UserName     string `json:"user_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Status       string `json:"status"`
	TotalPrice   string `json:"total_price"`
}

// ReviewResponse is the full representation of a review with the
// listing and author expanded inline.
type ReviewResponse struct {
	ReviewID  string          `json:"review_id"`
	Property  ListingResponse `json:"property"`
	User      UserResponse    `json:"user"`
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment"`
	CreatedAt string          `json:"created_at"`
}

// User builds the public representation of an account.
func User(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Listing builds the full representation of a listing with its host.
func Listing(l *model.Listing, host *model.User) ListingResponse {
	return ListingResponse{
		PropertyID:    l.PropertyID,
		Host:          User(host),
		Name:          l.Name,
		Description:   l.Description,
		Location:      l.Location,
		PricePerNight: l.PricePerNight.StringFixed(2),
		CreatedAt:     timestamp(l.CreatedAt),
		UpdatedAt:     timestamp(l.UpdatedAt),
	}
}

// ListingList builds the reduced representations for a bulk display.
func ListingList(items []repository.ListingSummary) []ListingSummaryResponse {
	out := make([]ListingSummaryResponse, 0, len(items))
	for _, s := range items {
		out = append(out, ListingSummaryResponse{
			PropertyID:    s.PropertyID,
			Name:          s.Name,
			Location:      s.Location,
			PricePerNight: s.PricePerNight.StringFixed(2),
			HostName:      s.HostName,
		})
	}
	return out
}

// Booking builds the full representation of a booking from its detail
// row set.
func Booking(d *repository.BookingDetail) BookingResponse {
	return BookingResponse{
		BookingID:  d.Booking.BookingID,
		Property:   Listing(&d.Listing, &d.Host),
		User:       User(&d.Guest),
		StartDate:  d.Booking.StartDate.Format(dateLayout),
		EndDate:    d.Booking.EndDate.Format(dateLayout),
		TotalPrice: d.Booking.TotalPrice.StringFixed(2),
		Status:     string(d.Booking.Status),
		CreatedAt:  timestamp(d.Booking.CreatedAt),
	}
}

// BookingList builds the reduced representations for a bulk display.
func BookingList(items []repository.BookingSummary) []BookingSummaryResponse {
	out := make([]BookingSummaryResponse, 0, len(items))
	for _, s := range items {
		out = append(out, BookingSummaryResponse{
			BookingID:    s.BookingID,
			PropertyName: s.PropertyName,
			UserName:     s.UserName,
			StartDate:    s.StartDate.Format(dateLayout),
			EndDate:      s.EndDate.Format(dateLayout),
			Status:       string(s.Status),
			TotalPrice:   s.TotalPrice.StringFixed(2),
		})
	}
	return out
}

// Review builds the full representation of a review. The listing and
// its host are passed in by the caller, which typically fetches them
// once for a whole page of reviews.
func Review(rv *model.Review, l *model.Listing, host *model.User, author *model.User) ReviewResponse {
	return ReviewResponse{
		ReviewID:  rv.ReviewID,
		Property:  Listing(l, host),
		User:      User(author),
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: timestamp(rv.CreatedAt),
	}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
