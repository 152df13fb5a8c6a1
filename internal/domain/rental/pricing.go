package rental

// Quote is the price of renting one item over an inclusive date range.
type Quote struct {
	Days      int   `json:"days"`
	DailyRate Money `json:"daily_rate"`
	Total     Money `json:"total"`
}

// ComputeTotal prices the inclusive range [start, end] at dailyRate per day.
// A same-day rental costs exactly one day.
func ComputeTotal(start, end Date, dailyRate Money) (Quote, error) {
	if start.IsZero() || end.IsZero() {
		return Quote{}, ErrIncompleteInput
	}
	if end.Before(start) {
		return Quote{}, ErrInvalidDateRange
	}

	days := DateRange{Start: start, End: end}.Days()
	return Quote{
		Days:      days,
		DailyRate: dailyRate,
		Total:     dailyRate.Times(days),
	}, nil
}
