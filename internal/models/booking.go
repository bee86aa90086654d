package models

import "time"

// Booking is a scheduled engagement between a user and a worker. The worker
// is a denormalized snapshot, not a reference: catalog changes after the
// booking was made never affect it.
type Booking struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"userId"`
	Worker Worker    `json:"worker"`
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}
