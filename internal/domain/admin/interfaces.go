package admin

import (
	"context"

	"techrent/internal/domain/booking"
	"techrent/internal/domain/catalog"
	"techrent/internal/domain/rental"
)

type BookingStats interface {
	CountByStatus(ctx context.Context) (map[rental.Status]int64, error)
	Recent(ctx context.Context, limit int) ([]booking.Booking, error)
}

type CatalogStats interface {
	Counts(ctx context.Context) (catalog.Counts, error)
}

type StaffCounter interface {
	Count(ctx context.Context) (int64, error)
}
