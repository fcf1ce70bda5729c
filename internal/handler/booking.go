package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/irodav/travel-listing-api/internal/model"
	"github.com/irodav/travel-listing-api/internal/queue"
	"github.com/irodav/travel-listing-api/internal/repository"
	"github.com/irodav/travel-listing-api/internal/serializer"
	"github.com/irodav/travel-listing-api/internal/validate"
)

// EventPublisher pushes booking events to the broker. Publishing is
// best-effort: failures are logged and never fail the request.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, event queue.BookingCreatedEvent) error
}

// BookingHandler serves the booking endpoints.
type BookingHandler struct {
	Bookings BookingStore
	Listings ListingStore
	Users    UserStore
	Events   EventPublisher // optional; nil disables publishing
}

// NewBookingHandler constructs a BookingHandler and panics if a
// required store is nil. The publisher may be nil.
func NewBookingHandler(bookings BookingStore, listings ListingStore, users UserStore, events EventPublisher) *BookingHandler {
	if bookings == nil || listings == nil || users == nil {
		panic("nil store passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Listings: listings, Users: users, Events: events}
}

// bookingBody is the write payload for bookings. Related entities are
// accepted as bare ids and resolved against stored rows.
type bookingBody struct {
	PropertyID string    `json:"property_id"`
	UserID     string    `json:"user_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TotalPrice rawNumber `json:"total_price"`
	Status     string    `json:"status"`
}

// Create handles POST /v1/bookings. New bookings must start today or
// later and end strictly after they start. A booking.created event is
// published after the row is written.
func (h *BookingHandler) Create(c echo.Context) error {
	var body bookingBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	in := validate.BookingInput{
		PropertyID: body.PropertyID,
		UserID:     body.UserID,
		StartDate:  body.StartDate,
		EndDate:    body.EndDate,
		TotalPrice: body.TotalPrice.String(),
		Status:     body.Status,
		New:        true,
	}
	res := validate.Booking(in)
	ctx := c.Request().Context()
	if res.OK() {
		if ok, err := h.Listings.Exists(ctx, in.PropertyID); err != nil {
			return storageFailed(c, err)
		} else if !ok {
			res.Add("property_id", "referenced listing does not exist")
		}
		if ok, err := h.Users.Exists(ctx, in.UserID); err != nil {
			return storageFailed(c, err)
		} else if !ok {
			res.Add("user_id", "referenced user does not exist")
		}
	}
	if !res.OK() {
		return validationFailed(c, res)
	}

	start, _ := validate.Date("start_date", in.StartDate)
	end, _ := validate.Date("end_date", in.EndDate)
	price, _ := validate.PositivePrice("total_price", in.TotalPrice)
	booking := &model.Booking{
		PropertyID: in.PropertyID,
		UserID:     in.UserID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: price,
		Status:     model.BookingStatus(in.Status),
	}
	if err := h.Bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			// Listing or guest deleted between the existence check and the insert.
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "referenced listing or user no longer exists"})
		}
		return storageFailed(c, err)
	}
	detail, err := h.Bookings.GetDetail(ctx, booking.BookingID)
	if err != nil {
		return storageFailed(c, err)
	}
	h.publishCreated(ctx, detail)
	return c.JSON(http.StatusCreated, serializer.Booking(detail))
}

// List handles GET /v1/bookings with optional property_id and user_id
// filters, returning the reduced representation.
func (h *BookingHandler) List(c echo.Context) error {
	summaries, err := h.Bookings.List(c.Request().Context(),
		c.QueryParam("property_id"), c.QueryParam("user_id"))
	if err != nil {
		return storageFailed(c, err)
	}
	return c.JSON(http.StatusOK, serializer.BookingList(summaries))
}

// Get handles GET /v1/bookings/:id and returns the full representation
// with the listing and guest expanded.
func (h *BookingHandler) Get(c echo.Context) error {
	detail, err := h.Bookings.GetDetail(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "booking")
	}
	if err != nil {
		return storageFailed(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Booking(detail))
}

// UpdateStatus handles PATCH /v1/bookings/:id. Only the status field
// is mutable after creation.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.BookingStatus(body.Status)
	if !status.Valid() {
		var res validate.Result
		res.Add("status", "status must be pending, confirmed or canceled")
		return validationFailed(c, res)
	}
	ctx := c.Request().Context()
	err := h.Bookings.UpdateStatus(ctx, c.Param("id"), status)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "booking")
	}
	if err != nil {
		return storageFailed(c, err)
	}
	detail, err := h.Bookings.GetDetail(ctx, c.Param("id"))
	if err != nil {
		return storageFailed(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Booking(detail))
}

// Delete handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Delete(c echo.Context) error {
	err := h.Bookings.Delete(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "booking")
	}
	if err != nil {
		return storageFailed(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) publishCreated(ctx context.Context, d *repository.BookingDetail) {
	if h.Events == nil {
		return
	}
	event := queue.BookingCreatedEvent{
		BookingID:    d.Booking.BookingID,
		PropertyID:   d.Listing.PropertyID,
		PropertyName: d.Listing.Name,
		UserID:       d.Guest.ID,
		Username:     d.Guest.Username,
		StartDate:    d.Booking.StartDate.Format("2006-01-02"),
		EndDate:      d.Booking.EndDate.Format("2006-01-02"),
		TotalPrice:   d.Booking.TotalPrice.StringFixed(2),
		Status:       string(d.Booking.Status),
		CreatedAt:    d.Booking.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := h.Events.PublishBookingCreated(ctx, event); err != nil {
		log.Printf("booking event publish failed: %v", err)
	}
}
