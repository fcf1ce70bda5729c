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

// ReviewHandler serves the review endpoints.
type ReviewHandler struct {
	Reviews  ReviewStore
	Listings ListingStore
	Users    UserStore
}

// NewReviewHandler constructs a ReviewHandler and panics if any
// dependency is nil.
func NewReviewHandler(reviews ReviewStore, listings ListingStore, users UserStore) *ReviewHandler {
	if reviews == nil || listings == nil || users == nil {
		panic("nil store passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: reviews, Listings: listings, Users: users}
}

// reviewBody is the write payload for reviews.
type reviewBody struct {
	PropertyID string `json:"property_id"`
	UserID     string `json:"user_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// Create handles POST /v1/reviews. A guest may review a listing at
// most once; a second review for the same pair is rejected with a
// field error. The unique key in storage backstops the pre-check.
func (h *ReviewHandler) Create(c echo.Context) error {
	var body reviewBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	in := validate.ReviewInput{
		PropertyID: body.PropertyID,
		UserID:     body.UserID,
		Rating:     body.Rating,
		Comment:    body.Comment,
	}
	res := validate.Review(in)
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
	if res.OK() {
		exists, err := h.Reviews.ExistsForPair(ctx, in.PropertyID, in.UserID)
		if err != nil {
			return storageFailed(c, err)
		}
		if exists {
			res.Add("user_id", "user has already reviewed this listing")
		}
	}
	if !res.OK() {
		return validationFailed(c, res)
	}

	review := &model.Review{
		PropertyID: in.PropertyID,
		UserID:     in.UserID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	if err := h.Reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			// Lost the race with a concurrent insert for the same pair.
			var dup validate.Result
			dup.Add("user_id", "user has already reviewed this listing")
			return validationFailed(c, dup)
		}
		if errors.Is(err, repository.ErrMissingReference) {
			// Listing or author deleted between the existence check and the insert.
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "referenced listing or user no longer exists"})
		}
		return storageFailed(c, err)
	}
	listing, host, err := h.Listings.GetWithHost(ctx, review.PropertyID)
	if err != nil {
		return storageFailed(c, err)
	}
	author, err := h.Users.GetByID(ctx, review.UserID)
	if err != nil {
		return storageFailed(c, err)
	}
	return c.JSON(http.StatusCreated, serializer.Review(review, listing, host, author))
}

// ListByProperty handles GET /v1/listings/:id/reviews. The listing and
// its host are fetched once and shared across the page of reviews.
func (h *ReviewHandler) ListByProperty(c echo.Context) error {
	ctx := c.Request().Context()
	listing, host, err := h.Listings.GetWithHost(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "listing")
	}
	if err != nil {
		return storageFailed(c, err)
	}
	reviews, err := h.Reviews.ListByProperty(ctx, listing.PropertyID)
	if err != nil {
		return storageFailed(c, err)
	}
	out := make([]serializer.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, serializer.Review(&reviews[i].Review, listing, host, &reviews[i].User))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/reviews/:id.
func (h *ReviewHandler) Delete(c echo.Context) error {
	err := h.Reviews.Delete(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "review")
	}
	if err != nil {
		return storageFailed(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
