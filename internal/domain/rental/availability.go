package rental

// IsDateBlocked reports whether date falls inside any of the existing ranges, both
// endpoints included. Callers pass only the ranges of pending and approved bookings.
func IsDateBlocked(date Date, existing []DateRange) bool {
	for _, r := range existing {
		if r.Contains(date) {
			return true
		}
	}
	return false
}

// RangeAvailable reports whether no day of want is blocked by the existing ranges.
func RangeAvailable(want DateRange, existing []DateRange) bool {
	for _, r := range existing {
		if want.Overlaps(r) {
			return false
		}
	}
	return true
}

// BlockedDates lists every blocked day inside window, in ascending order.
func BlockedDates(existing []DateRange, window DateRange) []Date {
	out := make([]Date, 0)
	if !window.Valid() {
		return out
	}
	for d := window.Start; !d.After(window.End); d = d.AddDays(1) {
		if IsDateBlocked(d, existing) {
			out = append(out, d)
		}
	}
	return out
}
