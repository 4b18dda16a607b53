package extract

import (
	"strconv"
	"strings"

	"reelcheck/internal/dates"
)

const (
	cinemaIcon        = "Icon of cinema film"
	streamingIcon     = "Streaming icon"
	releaseLineClass  = "media-viewer-line"
	digitalLabelExact = "Digital release date"
)

// Field is one date-bearing fragment of a release page.
type Field struct {
	// Label is the text of the label next to the date.
	Label string
	// Icon is the alt text of an icon in the same block.
	Icon string
	// Container holds the CSS classes of the enclosing line.
	Container string
	// Text is the date text itself.
	Text string
}

// Dates holds the two release slots. Zero values mean unknown.
type Dates struct {
	Theater dates.Date
	Digital dates.Date
}

type rule func(Field) bool

func labelContains(word string) rule {
	word = strings.ToLower(word)
	return func(f Field) bool {
		return strings.Contains(strings.ToLower(f.Label), word)
	}
}

func labelEquals(text string) rule {
	return func(f Field) bool {
		return strings.EqualFold(strings.TrimSpace(f.Label), text)
	}
}

func iconIs(alt string) rule {
	return func(f Field) bool {
		return strings.TrimSpace(f.Icon) == alt
	}
}

func releaseLineWithYear(year int) rule {
	return func(f Field) bool {
		if year <= 0 {
			return false
		}
		return hasClass(f.Container, releaseLineClass) && strings.Contains(f.Text, strconv.Itoa(year))
	}
}

func hasClass(classes, want string) bool {
	for _, c := range strings.Fields(classes) {
		if c == want {
			return true
		}
	}
	return false
}

// Extract picks the theatrical and digital release dates out of a page's
// fields. Rules are tried in order and the first field that normalizes wins.
// When no digital rule matches, the first other date on the page that differs
// from the theatrical date is used.
func Extract(fields []Field, catalogYear int) Dates {
	theaterRules := []rule{
		labelContains("Theaters"),
		labelContains("Theater"),
		labelContains("Cinema"),
		iconIs(cinemaIcon),
		releaseLineWithYear(catalogYear),
	}
	digitalRules := []rule{
		labelContains("Streaming"),
		labelContains("Digital"),
		labelContains("VOD"),
		labelEquals(digitalLabelExact),
		iconIs(streamingIcon),
	}

	var out Dates
	out.Theater = firstMatch(fields, theaterRules)
	out.Digital = firstMatch(fields, digitalRules)
	if out.Digital.IsZero() {
		for _, f := range fields {
			d, ok := dates.Normalize(f.Text)
			if !ok || d == out.Theater {
				continue
			}
			out.Digital = d
			break
		}
	}
	return out
}

func firstMatch(fields []Field, rules []rule) dates.Date {
	for _, r := range rules {
		for _, f := range fields {
			if !r(f) {
				continue
			}
			if d, ok := dates.Normalize(f.Text); ok {
				return d
			}
		}
	}
	return dates.Date{}
}
