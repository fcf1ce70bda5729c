package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/irodav/travel-listing-api/internal/model"
)

// ReviewRepo provides CRUD operations for reviews. The storage layer
// enforces one review per (property, user) pair with a unique key;
// Create maps that violation onto ErrDuplicateReview.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ReviewWithUser pairs a review with its author for the full wire
// representation.
type ReviewWithUser struct {
	Review model.Review
	User   model.User
}

// Create inserts a new review. A fresh UUID is assigned when ReviewID
// is empty and the generated id and creation timestamp are populated
// on the provided struct. Returns ErrDuplicateReview when the
// (property, user) pair already has a review.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	if rv.ReviewID == "" {
		rv.ReviewID = uuid.NewString()
	}
	const q = `INSERT INTO review (review_id, property_id, user_id, rating, comment)
	           VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, rv.ReviewID, rv.PropertyID, rv.UserID, rv.Rating, rv.Comment)
	if err != nil {
		if isMySQLErr(err, mysqlErrDuplicateEntry) {
			return ErrDuplicateReview
		}
		if isMySQLErr(err, mysqlErrNoReferencedRow) {
			return ErrMissingReference
		}
		return err
	}
	const sel = `SELECT created_at FROM review WHERE review_id = ?`
	return r.db.QueryRowContext(ctx, sel, rv.ReviewID).Scan(&rv.CreatedAt)
}

// ExistsForPair reports whether the guest has already reviewed the
// listing. Used as a pre-check so the duplicate surfaces as a field
// error before the insert; the unique key remains the backstop.
func (r *ReviewRepo) ExistsForPair(ctx context.Context, propertyID, userID string) (bool, error) {
	const q = `SELECT 1 FROM review WHERE property_id = ? AND user_id = ?`
	var one int
	err := r.db.QueryRowContext(ctx, q, propertyID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByProperty returns all reviews for a listing with their authors,
// newest first.
func (r *ReviewRepo) ListByProperty(ctx context.Context, propertyID string) ([]ReviewWithUser, error) {
	const q = `SELECT rv.review_id, rv.property_id, rv.user_id, rv.rating, rv.comment, rv.created_at,
	                  u.id, u.username, u.email, u.first_name, u.last_name
	           FROM review rv
	           JOIN users u ON u.id = rv.user_id
	           WHERE rv.property_id = ?
	           ORDER BY rv.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]ReviewWithUser, 0)
	for rows.Next() {
		var rw ReviewWithUser
		if err := rows.Scan(
			&rw.Review.ReviewID, &rw.Review.PropertyID, &rw.Review.UserID,
			&rw.Review.Rating, &rw.Review.Comment, &rw.Review.CreatedAt,
			&rw.User.ID, &rw.User.Username, &rw.User.Email, &rw.User.FirstName, &rw.User.LastName,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Delete removes a review. Returns ErrNotFound when the id does not
// exist.
func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM review WHERE review_id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every review. Used by seed --clear.
func (r *ReviewRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM review`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
