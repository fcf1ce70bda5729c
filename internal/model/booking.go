package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus enumerates the lifecycle states of a booking. There are
// no enforced transition rules beyond the set of valid values; a booking
// starts as pending and may be moved to confirmed or canceled.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCanceled  BookingStatus = "canceled"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return true
	}
	return false
}

// Booking records a guest's stay at a listing, as stored in the `booking`
// table. Both the referenced listing and user are required; deleting
// either cascades to the booking. Dates are calendar dates with no time
// component and must satisfy EndDate > StartDate.
//
// Fields:
//  BookingID  – UUID primary key.
//  PropertyID – listing being booked.
//  UserID     – guest who made the booking.
//  StartDate  – first night of the stay.
//  EndDate    – checkout date, strictly after StartDate.
//  TotalPrice – fixed-point total for the stay, > 0.
//  Status     – pending | confirmed | canceled (default pending).
//  CreatedAt  – creation timestamp, immutable.
type Booking struct {
	BookingID  string          // booking.booking_id
	PropertyID string          // booking.property_id
	UserID     string          // booking.user_id
	StartDate  time.Time       // booking.start_date
	EndDate    time.Time       // booking.end_date
	TotalPrice decimal.Decimal // booking.total_price
	Status     BookingStatus   // booking.status
	CreatedAt  time.Time       // booking.created_at
}

// Nights returns the length of the stay in whole days. It is only
// meaningful when EndDate > StartDate.
func (b Booking) Nights() int {
	return int(b.EndDate.Sub(b.StartDate).Hours() / 24)
}
