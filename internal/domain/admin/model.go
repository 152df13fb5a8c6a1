package admin

import (
	"time"

	"techrent/internal/domain/catalog"
	"techrent/internal/domain/rental"
)

// Dashboard is the admin overview.
type Dashboard struct {
	Bookings        map[rental.Status]int64 `json:"bookings"`
	PendingBookings int64                   `json:"pending_bookings"`
	Catalog         catalog.Counts          `json:"catalog"`
	Employees       int64                   `json:"employees"`
	Recent          []RecentBooking         `json:"recent"`
}

type RecentBooking struct {
	ID          string        `json:"id"`
	Equipment   string        `json:"equipment"`
	Dates       string        `json:"dates"`
	Status      rental.Status `json:"status"`
	StatusLabel string        `json:"status_label"`
	Total       string        `json:"total"`
	CreatedAt   time.Time     `json:"created_at"`
}
