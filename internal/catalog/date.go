// Package catalog defines the core data types shared across the crawl
// pipeline: calendar dates, labels, candidates, album details, accepted
// records, and run statistics.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day with no time-of-day or zone semantics.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// MakeDate builds a Date and reports whether the components form a real
// calendar day (MakeDate(2024, 2, 31) returns ok=false).
func MakeDate(year int, month time.Month, day int) (Date, bool) {
	if year < 1 || month < time.January || month > time.December || day < 1 {
		return Date{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// ParseDate parses the strict DD.MM.YYYY form used by the run config and
// output artifacts.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 || len(parts[2]) != 4 {
		return Date{}, fmt.Errorf("parse date %q: want DD.MM.YYYY", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Date{}, fmt.Errorf("parse date %q: want DD.MM.YYYY", s)
		}
		nums[i] = n
	}
	d, ok := MakeDate(nums[2], time.Month(nums[1]), nums[0])
	if !ok {
		return Date{}, fmt.Errorf("parse date %q: not a valid calendar day", s)
	}
	return d, nil
}

// Format renders the date back in DD.MM.YYYY form.
func (d Date) Format() string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, int(d.Month), d.Year)
}

// IsZero reports whether the Date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// Within reports whether d lies in the inclusive range [from, to].
func (d Date) Within(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}
