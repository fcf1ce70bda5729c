// Package validate checks write payloads against the entity invariants
// before anything reaches storage. Each entity has a table of per-field
// validator functions; running a table collects every violation into a
// Result instead of stopping at the first one, so callers can report
// all bad fields at once. Validators never panic and never touch the
// database; resolving referenced ids against stored rows is the
// caller's job.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/irodav/travel-listing-api/internal/model"
)

// maxShortText bounds the name and location fields.
const maxShortText = 100

// dateLayout is the calendar-date wire format.
const dateLayout = "2006-01-02"

// nowFunc supplies the current time; tests may override it.
var nowFunc = time.Now

// FieldError describes a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result collects the violations found in one payload. An empty Result
// means the payload passed every check.
type Result struct {
	Errors []FieldError
}

// OK reports whether no constraint was violated.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Add appends a violation for the given field.
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// ListingInput carries the raw write-payload values for a listing.
// Price is kept as its wire string so a malformed decimal surfaces as
// a field error rather than a decode failure.
type ListingInput struct {
	HostID      string
	Name        string
	Description string
	Location    string
	Price       string
}

// listingChecks is the validator table for listings, keyed by the
// public field name the violation is reported under.
var listingChecks = map[string]func(ListingInput) *FieldError{
	"host_id": func(in ListingInput) *FieldError {
		if strings.TrimSpace(in.HostID) == "" {
			return &FieldError{"host_id", "host_id is required"}
		}
		return nil
	},
	"name": func(in ListingInput) *FieldError {
		return checkShortText("name", in.Name)
	},
	"location": func(in ListingInput) *FieldError {
		return checkShortText("location", in.Location)
	},
	"price_per_night": func(in ListingInput) *FieldError {
		_, ferr := PositivePrice("price_per_night", in.Price)
		return ferr
	},
}

// listingFieldOrder fixes the order violations are reported in.
var listingFieldOrder = []string{"host_id", "name", "location", "price_per_night"}

// Listing runs the listing validator table over the input.
func Listing(in ListingInput) Result {
	var res Result
	for _, field := range listingFieldOrder {
		if ferr := listingChecks[field](in); ferr != nil {
			res.Errors = append(res.Errors, *ferr)
		}
	}
	return res
}

// BookingInput carries the raw write-payload values for a booking.
// New marks a create, which additionally forbids past start dates.
type BookingInput struct {
	PropertyID string
	UserID     string
	StartDate  string
	EndDate    string
	TotalPrice string
	Status     string
	New        bool
}

var bookingChecks = map[string]func(BookingInput) *FieldError{
	"property_id": func(in BookingInput) *FieldError {
		if strings.TrimSpace(in.PropertyID) == "" {
			return &FieldError{"property_id", "property_id is required"}
		}
		return nil
	},
	"user_id": func(in BookingInput) *FieldError {
		if strings.TrimSpace(in.UserID) == "" {
			return &FieldError{"user_id", "user_id is required"}
		}
		return nil
	},
	"start_date": func(in BookingInput) *FieldError {
		start, ferr := Date("start_date", in.StartDate)
		if ferr != nil {
			return ferr
		}
		if in.New && start.Before(today()) {
			return &FieldError{"start_date", "start date cannot be in the past"}
		}
		return nil
	},
	"end_date": func(in BookingInput) *FieldError {
		end, ferr := Date("end_date", in.EndDate)
		if ferr != nil {
			return ferr
		}
		// The ordering check reports on end_date and only runs when the
		// start date itself parsed.
		if start, serr := Date("start_date", in.StartDate); serr == nil && !end.After(start) {
			return &FieldError{"end_date", "end date must be after start date"}
		}
		return nil
	},
	"total_price": func(in BookingInput) *FieldError {
		_, ferr := PositivePrice("total_price", in.TotalPrice)
		return ferr
	},
	"status": func(in BookingInput) *FieldError {
		if in.Status == "" {
			return nil // defaults to pending
		}
		if !model.BookingStatus(in.Status).Valid() {
			return &FieldError{"status", "status must be pending, confirmed or canceled"}
		}
		return nil
	},
}

var bookingFieldOrder = []string{"property_id", "user_id", "start_date", "end_date", "total_price", "status"}

// Booking runs the booking validator table over the input.
func Booking(in BookingInput) Result {
	var res Result
	for _, field := range bookingFieldOrder {
		if ferr := bookingChecks[field](in); ferr != nil {
			res.Errors = append(res.Errors, *ferr)
		}
	}
	return res
}

// ReviewInput carries the raw write-payload values for a review.
type ReviewInput struct {
	PropertyID string
	UserID     string
	Rating     int
	Comment    string
}

var reviewChecks = map[string]func(ReviewInput) *FieldError{
	"property_id": func(in ReviewInput) *FieldError {
		if strings.TrimSpace(in.PropertyID) == "" {
			return &FieldError{"property_id", "property_id is required"}
		}
		return nil
	},
	"user_id": func(in ReviewInput) *FieldError {
		if strings.TrimSpace(in.UserID) == "" {
			return &FieldError{"user_id", "user_id is required"}
		}
		return nil
	},
	"rating": func(in ReviewInput) *FieldError {
		if in.Rating < 1 || in.Rating > 5 {
			return &FieldError{"rating", "rating must be between 1 and 5"}
		}
		return nil
	},
}

var reviewFieldOrder = []string{"property_id", "user_id", "rating"}

// Review runs the review validator table over the input.
func Review(in ReviewInput) Result {
	var res Result
	for _, field := range reviewFieldOrder {
		if ferr := reviewChecks[field](in); ferr != nil {
			res.Errors = append(res.Errors, *ferr)
		}
	}
	return res
}

// checkShortText requires a non-empty value of at most maxShortText
// characters.
func checkShortText(field, s string) *FieldError {
	if strings.TrimSpace(s) == "" {
		return &FieldError{field, field + " is required"}
	}
	if len([]rune(s)) > maxShortText {
		return &FieldError{field, fmt.Sprintf("must be at most %d characters", maxShortText)}
	}
	return nil
}

// PositivePrice parses a 2-digit fixed-point decimal and requires it to
// be strictly greater than zero.
func PositivePrice(field, s string) (decimal.Decimal, *FieldError) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, &FieldError{field, field + " is required"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &FieldError{field, "must be a decimal number"}
	}
	if d.Exponent() < -2 {
		return decimal.Zero, &FieldError{field, "must have at most 2 decimal places"}
	}
	if !d.IsPositive() {
		return decimal.Zero, &FieldError{field, "must be greater than zero"}
	}
	return d, nil
}

// Date parses a YYYY-MM-DD calendar date.
func Date(field, s string) (time.Time, *FieldError) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, &FieldError{field, field + " is required"}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &FieldError{field, "must be a date in YYYY-MM-DD format"}
	}
	return t, nil
}

// today returns the current UTC calendar date at midnight.
func today() time.Time {
	y, m, d := nowFunc().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
