package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/irodav/travel-listing-api/internal/model"
	"github.com/irodav/travel-listing-api/internal/repository"
	"github.com/irodav/travel-listing-api/internal/serializer"
	"github.com/irodav/travel-listing-api/internal/validate"
)

// ListingHandler serves the listing CRUD endpoints.
type ListingHandler struct {
	Listings ListingStore
	Users    UserStore
}

// NewListingHandler constructs a ListingHandler and panics if any
// dependency is nil.
func NewListingHandler(listings ListingStore, users UserStore) *ListingHandler {
	if listings == nil || users == nil {
		panic("nil store passed to NewListingHandler")
	}
	return &ListingHandler{Listings: listings, Users: users}
}

// listingBody is the write payload for listings. The price arrives as
// a JSON string or number.
type listingBody struct {
	HostID        string    `json:"host_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PricePerNight rawNumber `json:"price_per_night"`
}

// Create handles POST /v1/listings. The host is accepted as a bare id
// and resolved against stored users; an unresolved id is a field error.
func (h *ListingHandler) Create(c echo.Context) error {
	var body listingBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	in := validate.ListingInput{
		HostID:      body.HostID,
		Name:        body.Name,
		Description: body.Description,
		Location:    body.Location,
		Price:       body.PricePerNight.String(),
	}
	res := validate.Listing(in)
	ctx := c.Request().Context()
	if res.OK() {
		ok, err := h.Users.Exists(ctx, in.HostID)
		if err != nil {
			return storageFailed(c, err)
		}
		if !ok {
			res.Add("host_id", "referenced user does not exist")
		}
	}
	if !res.OK() {
		return validationFailed(c, res)
	}

	price, _ := validate.PositivePrice("price_per_night", in.Price)
	listing := &model.Listing{
		HostID:        in.HostID,
		Name:          in.Name,
		Description:   in.Description,
		Location:      in.Location,
		PricePerNight: price,
	}
	if err := h.Listings.Create(ctx, listing); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			// Host deleted between the existence check and the insert.
			var res validate.Result
			res.Add("host_id", "referenced user does not exist")
			return validationFailed(c, res)
		}
		return storageFailed(c, err)
	}
	host, err := h.Users.GetByID(ctx, listing.HostID)
	if err != nil {
		return storageFailed(c, err)
	}
	return c.JSON(http.StatusCreated, serializer.Listing(listing, host))
}

// List handles GET /v1/listings and returns the reduced
// representation.
func (h *ListingHandler) List(c echo.Context) error {
	summaries, err := h.Listings.List(c.Request().Context())
	if err != nil {
		return storageFailed(c, err)
	}
	return c.JSON(http.StatusOK, serializer.ListingList(summaries))
}

// Get handles GET /v1/listings/:id and returns the full
// representation with the host expanded.
func (h *ListingHandler) Get(c echo.Context) error {
	listing, host, err := h.Listings.GetWithHost(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "listing")
	}
	if err != nil {
		return storageFailed(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Listing(listing, host))
}

// Update handles PUT /v1/listings/:id. The host is not reassignable;
// the existing host id is carried through validation so the table runs
// unchanged.
func (h *ListingHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	existing, err := h.Listings.GetByID(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "listing")
	}
	if err != nil {
		return storageFailed(c, err)
	}
	var body listingBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	in := validate.ListingInput{
		HostID:      existing.HostID,
		Name:        body.Name,
		Description: body.Description,
		Location:    body.Location,
		Price:       body.PricePerNight.String(),
	}
	if res := validate.Listing(in); !res.OK() {
		return validationFailed(c, res)
	}
	price, _ := validate.PositivePrice("price_per_night", in.Price)
	existing.Name = in.Name
	existing.Description = in.Description
	existing.Location = in.Location
	existing.PricePerNight = price
	if err := h.Listings.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "listing")
		}
		return storageFailed(c, err)
	}
	host, err := h.Users.GetByID(ctx, existing.HostID)
	if err != nil {
		return storageFailed(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Listing(existing, host))
}

// Delete handles DELETE /v1/listings/:id. Dependent bookings and
// reviews are removed by the storage cascades.
func (h *ListingHandler) Delete(c echo.Context) error {
	err := h.Listings.Delete(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "listing")
	}
	if err != nil {
		return storageFailed(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
