// Package handler implements the HTTP layer. Handlers bind write
// payloads, run the validator tables, resolve referenced ids against
// stored rows, and translate repository sentinels into HTTP responses.
// Stores are consumed through narrow interfaces so tests can substitute
// fakes; the repository types satisfy them directly.
package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/irodav/travel-listing-api/internal/model"
	"github.com/irodav/travel-listing-api/internal/repository"
	"github.com/irodav/travel-listing-api/internal/validate"
)

// rawNumber accepts a JSON number or string and keeps the raw digits
// untouched so the validator decides whether they form a valid
// fixed-point value.
type rawNumber string

func (n *rawNumber) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = rawNumber(s)
		return nil
	}
	*n = rawNumber(data)
	return nil
}

func (n rawNumber) String() string { return string(n) }

// UserStore resolves account references.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// ListingStore is the listing persistence surface the handlers need.
type ListingStore interface {
	Create(ctx context.Context, l *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	GetWithHost(ctx context.Context, id string) (*model.Listing, *model.User, error)
	List(ctx context.Context) ([]repository.ListingSummary, error)
	Update(ctx context.Context, l *model.Listing) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// BookingStore is the booking persistence surface the handlers need.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetDetail(ctx context.Context, id string) (*repository.BookingDetail, error)
	List(ctx context.Context, propertyID, userID string) ([]repository.BookingSummary, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
	Delete(ctx context.Context, id string) error
}

// ReviewStore is the review persistence surface the handlers need.
type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	ExistsForPair(ctx context.Context, propertyID, userID string) (bool, error)
	ListByProperty(ctx context.Context, propertyID string) ([]repository.ReviewWithUser, error)
	Delete(ctx context.Context, id string) error
}

// validationFailed writes the per-field violations as a 400 response.
func validationFailed(c echo.Context, res validate.Result) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"errors": res.Errors})
}

// storageFailed logs the storage error and writes a generic 500
// response; details stay in the server log, never in the payload.
func storageFailed(c echo.Context, err error) error {
	log.Printf("%s %s: storage error: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// notFound writes a 404 response for the named resource.
func notFound(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
}
