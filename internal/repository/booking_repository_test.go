package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irodav/travel-listing-api/internal/model"
)

func TestBookingCreateDefaultsToPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO booking`).
		WithArgs(sqlmock.AnyArg(), "p-1", "g-1", "2025-07-01", "2025-07-05", sqlmock.AnyArg(), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT created_at FROM booking`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).
			AddRow(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)))

	b := model.Booking{
		PropertyID: "p-1",
		UserID:     "g-1",
		StartDate:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		TotalPrice: decimal.RequireFromString("1000.00"),
	}
	require.NoError(t, NewBookingRepo(db).Create(context.Background(), &b))

	assert.Equal(t, model.StatusPending, b.Status)
	_, err = uuid.Parse(b.BookingID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateMissingReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO booking`).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	b := model.Booking{
		PropertyID: "p-gone",
		UserID:     "g-1",
		StartDate:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		TotalPrice: decimal.RequireFromString("1000.00"),
	}
	err = NewBookingRepo(db).Create(context.Background(), &b)
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestBookingGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"booking_id", "property_id", "user_id", "start_date", "end_date", "total_price", "status", "created_at",
	}).AddRow("b-1", "p-1", "g-1",
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		"1000.00", "confirmed",
		time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(`SELECT .+ FROM booking WHERE booking_id = \?`).
		WithArgs("b-1").
		WillReturnRows(rows)

	b, err := NewBookingRepo(db).GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.Equal(t, 4, b.Nights())
	assert.True(t, b.TotalPrice.Equal(decimal.RequireFromString("1000.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingListAppliesFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"booking_id", "name", "username", "start_date", "end_date", "status", "total_price"}
	mock.ExpectQuery(`WHERE b\.property_id = \? AND b\.user_id = \?`).
		WithArgs("p-1", "g-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("b-1", "Cozy Beach House", "emma_guest",
				time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
				"confirmed", "1000.00"))

	summaries, err := NewBookingRepo(db).List(context.Background(), "p-1", "g-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, model.StatusConfirmed, summaries[0].Status)
	assert.Equal(t, "Cozy Beach House", summaries[0].PropertyName)
}

func TestBookingListUnfiltered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"booking_id", "name", "username", "start_date", "end_date", "status", "total_price"}
	mock.ExpectQuery(`ORDER BY b\.created_at DESC`).
		WillReturnRows(sqlmock.NewRows(cols))

	summaries, err := NewBookingRepo(db).List(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NotNil(t, summaries)
}

func TestBookingUpdateStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE booking SET status`).
		WithArgs("confirmed", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM booking`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err = NewBookingRepo(db).UpdateStatus(context.Background(), "missing", model.StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM booking WHERE booking_id`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewBookingRepo(db).Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
