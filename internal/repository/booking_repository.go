package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/irodav/travel-listing-api/internal/model"
)

// dateLayout is the DATE column wire format.
const dateLayout = "2006-01-02"

// BookingRepo provides CRUD operations for bookings. Date columns hold
// calendar dates with no time component; the driver surfaces them as
// time.Time at midnight UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingSummary is the flattened row returned by List: related rows
// are reduced to the property's name and the guest's username.
type BookingSummary struct {
	BookingID    string
	PropertyName string
	UserName     string
	StartDate    time.Time
	EndDate      time.Time
	Status       model.BookingStatus
	TotalPrice   decimal.Decimal
}

// BookingDetail carries a booking together with the rows needed for its
// full wire representation: the booked listing, the listing's host and
// the guest.
type BookingDetail struct {
	Booking model.Booking
	Listing model.Listing
	Host    model.User
	Guest   model.User
}

// Create inserts a new booking. A fresh UUID is assigned when
// BookingID is empty and the status defaults to pending when unset.
// The generated id and creation timestamp are populated on the
// provided struct. Returns ErrMissingReference when the listing or
// guest row no longer exists.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	if b.BookingID == "" {
		b.BookingID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	const q = `INSERT INTO booking (booking_id, property_id, user_id, start_date, end_date, total_price, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		b.BookingID, b.PropertyID, b.UserID,
		b.StartDate.Format(dateLayout), b.EndDate.Format(dateLayout),
		b.TotalPrice, string(b.Status),
	)
	if err != nil {
		if isMySQLErr(err, mysqlErrNoReferencedRow) {
			return ErrMissingReference
		}
		return err
	}
	const sel = `SELECT created_at FROM booking WHERE booking_id = ?`
	return r.db.QueryRowContext(ctx, sel, b.BookingID).Scan(&b.CreatedAt)
}

// GetByID returns the booking with the given id, or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	const q = `SELECT booking_id, property_id, user_id, start_date, end_date, total_price, status, created_at
	           FROM booking WHERE booking_id = ?`
	var b model.Booking
	var status string
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.BookingID, &b.PropertyID, &b.UserID, &b.StartDate, &b.EndDate,
		&b.TotalPrice, &status, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	return &b, nil
}

// GetDetail returns a booking with its listing, the listing's host and
// the guest, loaded in a single query. Returns ErrNotFound when the
// booking does not exist.
func (r *BookingRepo) GetDetail(ctx context.Context, id string) (*BookingDetail, error) {
	const q = `SELECT b.booking_id, b.property_id, b.user_id, b.start_date, b.end_date,
	                  b.total_price, b.status, b.created_at,
	                  p.property_id, p.host_id, p.name, p.description, p.location,
	                  p.price_per_night, p.created_at, p.updated_at,
	                  h.id, h.username, h.email, h.first_name, h.last_name,
	                  g.id, g.username, g.email, g.first_name, g.last_name
	           FROM booking b
	           JOIN property p ON p.property_id = b.property_id
	           JOIN users h ON h.id = p.host_id
	           JOIN users g ON g.id = b.user_id
	           WHERE b.booking_id = ?`
	var d BookingDetail
	var status string
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.Booking.BookingID, &d.Booking.PropertyID, &d.Booking.UserID,
		&d.Booking.StartDate, &d.Booking.EndDate, &d.Booking.TotalPrice, &status, &d.Booking.CreatedAt,
		&d.Listing.PropertyID, &d.Listing.HostID, &d.Listing.Name, &d.Listing.Description,
		&d.Listing.Location, &d.Listing.PricePerNight, &d.Listing.CreatedAt, &d.Listing.UpdatedAt,
		&d.Host.ID, &d.Host.Username, &d.Host.Email, &d.Host.FirstName, &d.Host.LastName,
		&d.Guest.ID, &d.Guest.Username, &d.Guest.Email, &d.Guest.FirstName, &d.Guest.LastName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.Booking.Status = model.BookingStatus(status)
	return &d, nil
}

// List returns flattened booking summaries ordered by creation time
// descending. Either filter may be empty; a non-empty propertyID or
// userID restricts the result to that listing or guest.
func (r *BookingRepo) List(ctx context.Context, propertyID, userID string) ([]BookingSummary, error) {
	q := `SELECT b.booking_id, p.name, u.username, b.start_date, b.end_date, b.status, b.total_price
	      FROM booking b
	      JOIN property p ON p.property_id = b.property_id
	      JOIN users u ON u.id = b.user_id`
	args := make([]interface{}, 0, 2)
	conds := make([]string, 0, 2)
	if propertyID != "" {
		conds = append(conds, "b.property_id = ?")
		args = append(args, propertyID)
	}
	if userID != "" {
		conds = append(conds, "b.user_id = ?")
		args = append(args, userID)
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY b.created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	summaries := make([]BookingSummary, 0)
	for rows.Next() {
		var s BookingSummary
		var status string
		if err := rows.Scan(&s.BookingID, &s.PropertyName, &s.UserName,
			&s.StartDate, &s.EndDate, &status, &s.TotalPrice); err != nil {
			return nil, err
		}
		s.Status = model.BookingStatus(status)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// UpdateStatus sets the booking's status. Returns ErrNotFound when the
// id does not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE booking SET status = ? WHERE booking_id = ?`, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM booking WHERE booking_id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes a booking. Returns ErrNotFound when the id does not
// exist.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booking WHERE booking_id = ?`, id)
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

// DeleteAll removes every booking. Used by seed --clear.
func (r *BookingRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booking`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
