package booking

import (
	"errors"
	"fmt"

	"techrent/internal/domain/rental"
)

var (
	ErrNotFound      = errors.New("booking not found")
	ErrPersistFailed = errors.New("booking could not be saved")
	ErrWindowTooWide = errors.New("availability window too wide")
)

// ErrStartInPast is an IncompleteInput error: bookings cannot start before today.
var ErrStartInPast = fmt.Errorf("%w: start date is in the past", rental.ErrIncompleteInput)
