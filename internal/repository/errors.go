// Package repository implements data access for users, listings,
// bookings and reviews on top of database/sql. Sentinel errors defined
// here let handlers map storage failures onto HTTP responses without
// inspecting driver internals.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row addressed by primary key does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicateReview is returned when a second review is inserted for
// the same (property, user) pair. Handlers should translate this into
// a validation error on the user_id field.
var ErrDuplicateReview = errors.New("duplicate review for property and user")

// ErrUsernameExists is returned when a user insert collides with an
// existing username.
var ErrUsernameExists = errors.New("username already exists")

// ErrMissingReference is returned when an insert names a host, listing
// or user that does not exist. Handlers resolve references before
// writing, so hitting this means the row vanished in between.
var ErrMissingReference = errors.New("referenced row does not exist")

// MySQL server error numbers for constraint violations.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrNoReferencedRow = 1452
)

// isMySQLErr reports whether err is a MySQL server error with the given
// number.
func isMySQLErr(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}
