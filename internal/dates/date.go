package dates

import (
	"fmt"
	"time"
)

const canonicalLayout = "2006-01-02"

// displayLayout matches the "Jul 24, 2025" form the release site prints.
const displayLayout = "Jan 02, 2006"

// Date is a calendar day without time of day or zone. The zero value means the
// date is unknown.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New validates the components and returns the resulting Date.
func New(year int, month time.Month, day int) (Date, bool) {
	if year < 1 || year > 9999 || month < time.January || month > time.December || day < 1 {
		return Date{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// Today returns the calendar day of now in its own location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Parse accepts only the canonical YYYY-MM-DD form.
func Parse(value string) (Date, bool) {
	t, err := time.Parse(canonicalLayout, value)
	if err != nil {
		return Date{}, false
	}
	return Today(t), true
}

// IsZero reports whether the date is unknown.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the canonical form, or an empty string for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Display formats the date the way the release site shows it.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(displayLayout)
}

// Or returns fallback when d is unknown.
func (d Date) Or(fallback string) string {
	if d.IsZero() {
		return fallback
	}
	return d.String()
}

// Compare returns -1, 0 or +1. Unknown dates compare before every known date.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// DaysBetween returns the whole days from start to end (negative when end is earlier).
func DaysBetween(start, end Date) int {
	return int(end.Time().Sub(start.Time()).Hours() / 24)
}

// AddDays shifts the date by n days.
func (d Date) AddDays(n int) Date {
	return Today(d.Time().AddDate(0, 0, n))
}

// MarshalText encodes the canonical form; unknown dates encode as an empty string.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts the canonical form or an empty value.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("invalid date %q", string(text))
	}
	*d = parsed
	return nil
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
