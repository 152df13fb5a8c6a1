package rental

// Equipment is the slice of an equipment record the validator needs.
type Equipment struct {
	ID          int64
	DailyRate   Money
	IsAvailable bool
}

// Draft is a validated booking ready to be persisted.
type Draft struct {
	UserID      string
	EquipmentID int64
	Range       DateRange
	Days        int
	TotalPrice  Money
	Status      Status
}

// ValidateRequest accepts or rejects a proposed booking. start and end are nil when the
// requester did not pick them; existing holds the ranges of the equipment's pending and
// approved bookings.
func ValidateRequest(requester *Actor, equipment Equipment, start, end *Date, existing []DateRange) (Draft, error) {
	if !requester.Authenticated() {
		return Draft{}, ErrAuthenticationRequired
	}
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return Draft{}, ErrIncompleteInput
	}

	want := DateRange{Start: *start, End: *end}
	if want.End.Before(want.Start) {
		return Draft{}, ErrInvalidDateRange
	}
	if !RangeAvailable(want, existing) {
		return Draft{}, ErrDateRangeUnavailable
	}
	if !equipment.IsAvailable {
		return Draft{}, ErrEquipmentUnavailable
	}

	quote, err := ComputeTotal(want.Start, want.End, equipment.DailyRate)
	if err != nil {
		return Draft{}, err
	}

	return Draft{
		UserID:      requester.UserID,
		EquipmentID: equipment.ID,
		Range:       want,
		Days:        quote.Days,
		TotalPrice:  quote.Total,
		Status:      StatusPending,
	}, nil
}
