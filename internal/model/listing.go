package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing represents a property offered for booking, as stored in the
// `property` table. Each listing belongs to exactly one host user.
// Deleting a listing cascades to its bookings and reviews.
//
// Fields:
//  PropertyID    – UUID primary key, immutable once assigned.
//  HostID        – user ID of the owning host.
//  Name          – short display name, at most 100 characters.
//  Description   – unbounded descriptive text.
//  Location      – short location text, at most 100 characters.
//  PricePerNight – nightly rate, fixed-point with 2 fractional digits, > 0.
//  CreatedAt     – timestamp when the listing was created.
//  UpdatedAt     – refreshed on every mutation.
type Listing struct {
	PropertyID    string          // property.property_id
	HostID        string          // property.host_id
	Name          string          // property.name
	Description   string          // property.description
	Location      string          // property.location
	PricePerNight decimal.Decimal // property.price_per_night
	CreatedAt     time.Time       // property.created_at
	UpdatedAt     time.Time       // property.updated_at
}
