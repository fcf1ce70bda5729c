// Package queue defines message payloads exchanged over the broker and
// the background consumer that drains them.
package queue

// BookingCreatedEvent is published when a booking row is written. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type BookingCreatedEvent struct {
	BookingID    string `json:"booking_id"`
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TotalPrice   string `json:"total_price"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// Name of the durable queue booking events travel through.
const BookingQueueName = "booking.created"
