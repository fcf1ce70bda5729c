package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irodav/travel-listing-api/internal/model"
)

func reviewStores() (*fakeUsers, *fakeListings, *fakeReviews) {
	users, listings := testStores()
	review := &model.Review{
		ReviewID:   "r-1",
		PropertyID: "p-1",
		UserID:     "u-guest",
		Rating:     5,
		Comment:    "Amazing stay",
		CreatedAt:  time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
	}
	return users, listings, newFakeReviews(users, review)
}

func TestReviewCreate(t *testing.T) {
	users, listings, reviews := reviewStores()
	h := NewReviewHandler(reviews, listings, users)

	body := `{"property_id":"p-1","user_id":"u-host","rating":4,"comment":"Nice place"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/reviews", body)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "r-generated", resp["review_id"])
	assert.Equal(t, float64(4), resp["rating"])
	property := resp["property"].(map[string]any)
	assert.Equal(t, "Seaside Villa", property["name"])
	author := resp["user"].(map[string]any)
	assert.Equal(t, "john_host", author["username"])
}

func TestReviewCreateDuplicatePair(t *testing.T) {
	users, listings, reviews := reviewStores()
	h := NewReviewHandler(reviews, listings, users)

	// u-guest already reviewed p-1 in the fixture.
	body := `{"property_id":"p-1","user_id":"u-guest","rating":3,"comment":"Second opinion"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/reviews", body)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errs := fieldErrors(t, rec)
	assert.Equal(t, "user has already reviewed this listing", errs["user_id"])
}

func TestReviewCreateRatingOutOfRange(t *testing.T) {
	users, listings, reviews := reviewStores()
	h := NewReviewHandler(reviews, listings, users)

	for _, rating := range []int{0, 6, -1} {
		body := `{"property_id":"p-1","user_id":"u-host","rating":` +
			strconv.Itoa(rating) + `,"comment":"x"}`
		c, rec := newTestContext(t, http.MethodPost, "/v1/reviews", body)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %d", rating)
		errs := fieldErrors(t, rec)
		assert.Contains(t, errs, "rating")
	}
}

func TestReviewCreateUnknownReferences(t *testing.T) {
	users, listings, reviews := reviewStores()
	h := NewReviewHandler(reviews, listings, users)

	body := `{"property_id":"p-missing","user_id":"u-missing","rating":4,"comment":"x"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/reviews", body)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errs := fieldErrors(t, rec)
	assert.Equal(t, "referenced listing does not exist", errs["property_id"])
	assert.Equal(t, "referenced user does not exist", errs["user_id"])
}

func TestReviewListByProperty(t *testing.T) {
	users, listings, reviews := reviewStores()
	h := NewReviewHandler(reviews, listings, users)

	c, rec := newTestContext(t, http.MethodGet, "/v1/listings/p-1/reviews", "")
	c.SetParamNames("id")
	c.SetParamValues("p-1")
	require.NoError(t, h.ListByProperty(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Amazing stay", resp[0]["comment"])
	author := resp[0]["user"].(map[string]any)
	assert.Equal(t, "mike_guest", author["username"])
}

func TestReviewListUnknownListing(t *testing.T) {
	users, listings, reviews := reviewStores()
	h := NewReviewHandler(reviews, listings, users)

	c, rec := newTestContext(t, http.MethodGet, "/v1/listings/p-missing/reviews", "")
	c.SetParamNames("id")
	c.SetParamValues("p-missing")
	require.NoError(t, h.ListByProperty(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewDelete(t *testing.T) {
	users, listings, reviews := reviewStores()
	h := NewReviewHandler(reviews, listings, users)

	c, rec := newTestContext(t, http.MethodDelete, "/v1/reviews/r-1", "")
	c.SetParamNames("id")
	c.SetParamValues("r-1")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newTestContext(t, http.MethodDelete, "/v1/reviews/r-1", "")
	c.SetParamNames("id")
	c.SetParamValues("r-1")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
