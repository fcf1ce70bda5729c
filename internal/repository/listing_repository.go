package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/irodav/travel-listing-api/internal/model"
)

// ListingRepo provides CRUD operations for property listings. All
// timestamp columns are stored in UTC. Deleting a listing cascades to
// its bookings and reviews at the storage layer.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo returns a new ListingRepo bound to the given database.
func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{db: db} }

// ListingSummary is the flattened row returned by List. It trades the
// nested host object for the host's username so bulk displays stay
// small.
type ListingSummary struct {
	PropertyID    string
	Name          string
	Location      string
	PricePerNight decimal.Decimal
	HostName      string
}

// Create inserts a new listing. A fresh UUID is assigned when
// PropertyID is empty; the generated id and server timestamps are
// populated on the provided struct.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	if l.PropertyID == "" {
		l.PropertyID = uuid.NewString()
	}
	const q = `INSERT INTO property (property_id, host_id, name, description, location, price_per_night)
	           VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, l.PropertyID, l.HostID, l.Name, l.Description, l.Location, l.PricePerNight); err != nil {
		if isMySQLErr(err, mysqlErrNoReferencedRow) {
			return ErrMissingReference
		}
		return err
	}
	// Query back the row to populate server-assigned timestamps.
	const sel = `SELECT created_at, updated_at FROM property WHERE property_id = ?`
	return r.db.QueryRowContext(ctx, sel, l.PropertyID).Scan(&l.CreatedAt, &l.UpdatedAt)
}

// GetByID returns the listing with the given id, or ErrNotFound.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	const q = `SELECT property_id, host_id, name, description, location, price_per_night, created_at, updated_at
	           FROM property WHERE property_id = ?`
	var l model.Listing
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.PropertyID, &l.HostID, &l.Name, &l.Description, &l.Location,
		&l.PricePerNight, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetWithHost returns a listing together with its host user in one
// round trip. Used to build the full wire representation.
func (r *ListingRepo) GetWithHost(ctx context.Context, id string) (*model.Listing, *model.User, error) {
	const q = `SELECT p.property_id, p.host_id, p.name, p.description, p.location,
	                  p.price_per_night, p.created_at, p.updated_at,
	                  u.id, u.username, u.email, u.first_name, u.last_name
	           FROM property p
	           JOIN users u ON u.id = p.host_id
	           WHERE p.property_id = ?`
	var l model.Listing
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.PropertyID, &l.HostID, &l.Name, &l.Description, &l.Location,
		&l.PricePerNight, &l.CreatedAt, &l.UpdatedAt,
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return &l, &u, nil
}

// List returns flattened summaries of all listings ordered by creation
// time descending (newest first).
func (r *ListingRepo) List(ctx context.Context) ([]ListingSummary, error) {
	const q = `SELECT p.property_id, p.name, p.location, p.price_per_night, u.username
	           FROM property p
	           JOIN users u ON u.id = p.host_id
	           ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	summaries := make([]ListingSummary, 0)
	for rows.Next() {
		var s ListingSummary
		if err := rows.Scan(&s.PropertyID, &s.Name, &s.Location, &s.PricePerNight, &s.HostName); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Update rewrites the mutable listing fields and refreshes updated_at
// even when no column value changed. Returns ErrNotFound when the id
// does not exist.
func (r *ListingRepo) Update(ctx context.Context, l *model.Listing) error {
	const q = `UPDATE property
	           SET name = ?, description = ?, location = ?, price_per_night = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE property_id = ?`
	res, err := r.db.ExecContext(ctx, q, l.Name, l.Description, l.Location, l.PricePerNight, l.PropertyID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports zero affected rows both for a missing id and for
		// a no-op update, so distinguish with an existence probe.
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM property WHERE property_id = ?`, l.PropertyID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
	}
	const sel = `SELECT created_at, updated_at FROM property WHERE property_id = ?`
	return r.db.QueryRowContext(ctx, sel, l.PropertyID).Scan(&l.CreatedAt, &l.UpdatedAt)
}

// Exists reports whether a listing with the given id exists.
func (r *ListingRepo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM property WHERE property_id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes a listing; dependent bookings and reviews go with it
// through the foreign key cascades. Returns ErrNotFound when the id
// does not exist.
func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM property WHERE property_id = ?`, id)
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

// DeleteAll removes every listing. Used by seed --clear.
func (r *ListingRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM property`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
