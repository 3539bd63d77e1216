package model

import (
	"fmt"
	"time"
)

// isoLayout is the only external date form the model accepts or emits.
const isoLayout = "2006-01-02"

// epoch is the fixed reference point for Date ordinals. Its value is
// arbitrary (any fixed instant works) as long as it never changes, since all
// arithmetic on Date is integer day-offsets from it.
var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Date is a day ordinal: the number of days since a fixed epoch. All
// internal arithmetic uses Date directly; ISO "YYYY-MM-DD" strings are
// parsed into a Date at the boundary and formatted back out at the boundary,
// never carried through the solver as strings.
type Date int32

// ParseDate parses an ISO "YYYY-MM-DD" string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an ISO date: %v", ErrInvalidInput, s, err)
	}
	days := int64(t.Sub(epoch).Hours() / 24)
	return Date(days), nil
}

// String formats the Date back to ISO "YYYY-MM-DD".
func (d Date) String() string {
	return epoch.AddDate(0, 0, int(d)).Format(isoLayout)
}

// Add returns d shifted by n days.
func (d Date) Add(n int) Date {
	return d + Date(n)
}

// Sub returns the number of days between d and other (d - other).
func (d Date) Sub(other Date) int {
	return int(d - other)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d < other
}

// Weekday returns the day-of-week for d.
func (d Date) Weekday() time.Weekday {
	return epoch.AddDate(0, 0, int(d)).Weekday()
}

// Min returns the earlier of two dates.
func Min(a, b Date) Date {
	if a < b {
		return a
	}
	return b
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if a > b {
		return a
	}
	return b
}
