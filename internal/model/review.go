package model

import "time"

// Review is a guest's rating of a listing, as stored in the `review`
// table. A user may review a listing at most once; the (property, user)
// pair is unique. Deleting the listing or the user cascades to the
// review.
//
// Fields:
//  ReviewID   – UUID primary key.
//  PropertyID – listing being reviewed.
//  UserID     – guest who wrote the review.
//  Rating     – integer rating between 1 and 5 inclusive.
//  Comment    – unbounded review text.
//  CreatedAt  – creation timestamp, immutable.
type Review struct {
	ReviewID   string    // review.review_id
	PropertyID string    // review.property_id
	UserID     string    // review.user_id
	Rating     int       // review.rating
	Comment    string    // review.comment
	CreatedAt  time.Time // review.created_at
}
