package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema contains the bootstrap DDL for all tables. Statements are
// idempotent so the server can run them on every start. Foreign keys
// use ON DELETE CASCADE: removing a listing removes its bookings and
// reviews, removing a user removes everything they authored. Every
// foreign key column carries an index to support lookups by host, by
// property and by user.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL,
		username      VARCHAR(150) NOT NULL,
		email         VARCHAR(254) NOT NULL,
		first_name    VARCHAR(150) NOT NULL DEFAULT '',
		last_name     VARCHAR(150) NOT NULL DEFAULT '',
		password_hash VARCHAR(128) NOT NULL DEFAULT '',
		is_staff      TINYINT(1)   NOT NULL DEFAULT 0,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS property (
		property_id     CHAR(36)      NOT NULL,
		host_id         CHAR(36)      NOT NULL,
		name            VARCHAR(100)  NOT NULL,
		description     TEXT          NOT NULL,
		location        VARCHAR(100)  NOT NULL,
		price_per_night DECIMAL(10,2) NOT NULL,
		created_at      DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (property_id),
		KEY idx_property_host (host_id),
		CONSTRAINT fk_property_host FOREIGN KEY (host_id)
			REFERENCES users (id) ON DELETE CASCADE,
		CONSTRAINT chk_property_price CHECK (price_per_night > 0)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS booking (
		booking_id  CHAR(36)      NOT NULL,
		property_id CHAR(36)      NOT NULL,
		user_id     CHAR(36)      NOT NULL,
		start_date  DATE          NOT NULL,
		end_date    DATE          NOT NULL,
		total_price DECIMAL(10,2) NOT NULL,
		status      ENUM('pending','confirmed','canceled') NOT NULL DEFAULT 'pending',
		created_at  DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (booking_id),
		KEY idx_booking_property (property_id),
		KEY idx_booking_user (user_id),
		CONSTRAINT fk_booking_property FOREIGN KEY (property_id)
			REFERENCES property (property_id) ON DELETE CASCADE,
		CONSTRAINT fk_booking_user FOREIGN KEY (user_id)
			REFERENCES users (id) ON DELETE CASCADE,
		CONSTRAINT chk_booking_dates CHECK (end_date > start_date),
		CONSTRAINT chk_booking_price CHECK (total_price > 0)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS review (
		review_id   CHAR(36) NOT NULL,
		property_id CHAR(36) NOT NULL,
		user_id     CHAR(36) NOT NULL,
		rating      INT      NOT NULL,
		comment     TEXT     NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (review_id),
		UNIQUE KEY uq_review_property_user (property_id, user_id),
		KEY idx_review_property (property_id),
		KEY idx_review_user (user_id),
		CONSTRAINT fk_review_property FOREIGN KEY (property_id)
			REFERENCES property (property_id) ON DELETE CASCADE,
		CONSTRAINT fk_review_user FOREIGN KEY (user_id)
			REFERENCES users (id) ON DELETE CASCADE,
		CONSTRAINT chk_review_rating CHECK (rating BETWEEN 1 AND 5)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates any missing tables. It does not alter existing
// tables; structural migrations are handled outside this service.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
