package admin

import (
	"context"
	"fmt"

	"techrent/internal/domain/rental"
	"techrent/internal/pkg/format"
)

const recentLimit = 5

type Service struct {
	bookings BookingStats
	catalog  CatalogStats
	staff    StaffCounter
}

func NewService(bookings BookingStats, catalog CatalogStats, staff StaffCounter) *Service {
	return &Service{bookings: bookings, catalog: catalog, staff: staff}
}

// Dashboard collects the overview numbers. Admins only.
func (s *Service) Dashboard(ctx context.Context, actor *rental.Actor) (*Dashboard, error) {
	if !actor.Authenticated() {
		return nil, rental.ErrAuthenticationRequired
	}
	if !actor.IsAdmin() {
		return nil, rental.ErrForbidden
	}

	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	catalogCounts, err := s.catalog.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count catalog: %w", err)
	}
	employees, err := s.staff.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	recent, err := s.bookings.Recent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}

	d := &Dashboard{
		Bookings:        counts,
		PendingBookings: counts[rental.StatusPending],
		Catalog:         catalogCounts,
		Employees:       employees,
		Recent:          make([]RecentBooking, 0, len(recent)),
	}
	for _, b := range recent {
		item := RecentBooking{
			ID:          b.ID,
			Dates:       format.DateRange(b.Range()),
			Status:      b.Status,
			StatusLabel: format.Status(b.Status),
			Total:       format.Price(b.TotalPrice),
			CreatedAt:   b.CreatedAt,
		}
		if b.Equipment != nil {
			item.Equipment = b.Equipment.Model
		}
		d.Recent = append(d.Recent, item)
	}
	return d, nil
}
