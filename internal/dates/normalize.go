package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	monthDayYearPattern = regexp.MustCompile(`^([a-z]+)\.?\s+(\d{1,2}),?\s+(\d{4})$`)
	dayMonthYearPattern = regexp.MustCompile(`^(\d{1,2})\s+([a-z]+)\.?,?\s+(\d{4})$`)
	slashPattern        = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoPattern          = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dashDayFirstPattern = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	monthYearPattern    = regexp.MustCompile(`^([a-z]+)\.?,?\s+(\d{4})$`)
	yearPattern         = regexp.MustCompile(`^(\d{4})$`)
)

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// MonthFromName resolves an English month name or abbreviation, ignoring case.
func MonthFromName(name string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))]
	return m, ok
}

// Normalize interprets a loosely formatted date string. It reports false for
// empty input, unrecognised shapes, and impossible calendar dates.
func Normalize(text string) (Date, bool) {
	value := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if value == "" {
		return Date{}, false
	}

	if m := monthDayYearPattern.FindStringSubmatch(value); m != nil {
		return fromParts(m[3], m[1], m[2])
	}
	if m := dayMonthYearPattern.FindStringSubmatch(value); m != nil {
		return fromParts(m[3], m[2], m[1])
	}
	if m := slashPattern.FindStringSubmatch(value); m != nil {
		if d, ok := fromNumbers(m[3], m[1], m[2]); ok {
			return d, true
		}
		return fromNumbers(m[3], m[2], m[1])
	}
	if m := isoPattern.FindStringSubmatch(value); m != nil {
		return fromNumbers(m[1], m[2], m[3])
	}
	if m := dashDayFirstPattern.FindStringSubmatch(value); m != nil {
		return fromNumbers(m[3], m[2], m[1])
	}
	if m := monthYearPattern.FindStringSubmatch(value); m != nil {
		return fromParts(m[2], m[1], "1")
	}
	if m := yearPattern.FindStringSubmatch(value); m != nil {
		return fromNumbers(m[1], "1", "1")
	}
	return Date{}, false
}

func fromParts(year, monthName, day string) (Date, bool) {
	month, ok := MonthFromName(monthName)
	if !ok {
		return Date{}, false
	}
	return fromNumbers(year, strconv.Itoa(int(month)), day)
}

func fromNumbers(year, month, day string) (Date, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return Date{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return Date{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return Date{}, false
	}
	return New(y, time.Month(m), d)
}
