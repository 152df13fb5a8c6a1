package booking

import (
	"context"
	"time"

	"techrent/internal/domain/catalog"
	"techrent/internal/domain/rental"
)

// Store is the booking persistence the service needs.
type Store interface {
	Create(ctx context.Context, b *Booking) error
	UpdateStatus(ctx context.Context, id string, from, to rental.Status, actorID string, at time.Time) error
	ActiveRanges(ctx context.Context, equipmentID int64, from rental.Date) ([]rental.DateRange, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	List(ctx context.Context, f ListFilter) ([]Booking, int64, error)
	History(ctx context.Context, bookingID string) ([]StatusEvent, error)
}

// EquipmentReader loads an item whatever its availability.
type EquipmentReader interface {
	Equipment(ctx context.Context, id int64) (*catalog.Equipment, error)
}

const (
	EventCreated       = "booking.created"
	EventStatusChanged = "booking.status_changed"
)

// Event describes a booking change for notifiers. From is empty for EventCreated.
type Event struct {
	Type    string        `json:"type"`
	Booking View          `json:"booking"`
	From    rental.Status `json:"from,omitempty"`
	ActorID string        `json:"actor_id"`
	At      time.Time     `json:"at"`
}

// Notifier receives booking events. Delivery is best effort; Notify must not block on
// slow receivers.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}
