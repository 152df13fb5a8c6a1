package notification

import (
	"context"

	"techrent/internal/domain/booking"
)

// Fanout passes every event to each notifier in order.
type Fanout []booking.Notifier

func (f Fanout) Notify(ctx context.Context, e booking.Event) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, e)
		}
	}
}
