package dates

import (
	"regexp"
	"strconv"
)

const (
	MinExpectedYear = 1900
	MaxExpectedYear = 2035
)

var (
	embeddedYearPattern = regexp.MustCompile(`\((\d{4})\)`)
	anyYearPattern      = regexp.MustCompile(`\b(\d{4})\b`)
)

// ExpectedYear derives the release year used to bias candidate scoring. A
// parenthesised year wins; otherwise the first plausible four digit number in
// the raw line is used. Zero means unknown.
func ExpectedYear(raw string) int {
	if m := embeddedYearPattern.FindStringSubmatch(raw); m != nil {
		if year := plausibleYear(m[1]); year != 0 {
			return year
		}
	}
	for _, m := range anyYearPattern.FindAllStringSubmatch(raw, -1) {
		if year := plausibleYear(m[1]); year != 0 {
			return year
		}
	}
	return 0
}

func plausibleYear(value string) int {
	year, err := strconv.Atoi(value)
	if err != nil || year < MinExpectedYear || year > MaxExpectedYear {
		return 0
	}
	return year
}
