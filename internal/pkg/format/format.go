// Package format renders prices, dates and statuses for people.
package format

import (
	"fmt"
	"strings"

	"techrent/internal/domain/rental"
)

const (
	currencySign = "$"
	dateLayout   = "Jan 2, 2006"
)

// Price renders cents with two decimals, e.g. "$149.97".
func Price(m rental.Money) string {
	if m < 0 {
		return "-" + currencySign + (-m).String()
	}
	return currencySign + m.String()
}

// DailyRate renders a rate as "$49.99 / day".
func DailyRate(m rental.Money) string {
	return Price(m) + " / day"
}

func Date(d rental.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

// DateRange renders "Jun 10, 2024 - Jun 12, 2024", or a single date for same-day ranges.
func DateRange(r rental.DateRange) string {
	if r.Start.Equal(r.End) {
		return Date(r.Start)
	}
	return Date(r.Start) + " - " + Date(r.End)
}

func Days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// Status capitalizes a status for labels: "pending" -> "Pending".
func Status(s rental.Status) string {
	if s == "" {
		return ""
	}
	str := string(s)
	return strings.ToUpper(str[:1]) + str[1:]
}
