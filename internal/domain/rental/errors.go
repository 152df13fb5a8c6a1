package rental

import (
	"errors"
	"fmt"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrIncompleteInput        = errors.New("incomplete date range")
	ErrDateRangeUnavailable   = errors.New("date range unavailable")
	ErrEquipmentUnavailable   = errors.New("equipment not offered")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrForbidden              = errors.New("forbidden")
)

// ErrInvalidDateRange is an IncompleteInput error: the end date precedes the start date.
var ErrInvalidDateRange = fmt.Errorf("%w: end date is before start date", ErrIncompleteInput)
