package titles

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var yearSuffixPattern = regexp.MustCompile(`\s*\((\d{4})\)\s*$`)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "movie": {}, "film": {},
}

// Set is the search plan derived from one requested title.
type Set struct {
	Raw          string
	Clean        string
	EmbeddedYear int
	Important    []string
	Variants     []string
}

// Generate derives the ordered, de-duplicated search variants for a title.
// Full-title forms come first and keyword forms last.
func Generate(raw string) Set {
	clean, year := StripYear(raw)
	set := Set{
		Raw:          raw,
		Clean:        clean,
		EmbeddedYear: year,
		Important:    ImportantWords(clean),
	}
	if clean == "" {
		return set
	}

	seen := make(map[string]struct{}, 8)
	add := func(value string) {
		value = collapseSpaces(value)
		if value == "" {
			return
		}
		if _, ok := seen[value]; ok {
			return
		}
		seen[value] = struct{}{}
		set.Variants = append(set.Variants, value)
	}

	add(clean)
	add(strings.ReplaceAll(clean, ":", ""))
	add(strings.ReplaceAll(clean, ":", " "))
	if idx := strings.Index(clean, ":"); idx >= 0 {
		add(clean[:idx])
	}
	add(ToggleThe(clean))
	if stripped, ok := stripMovieSuffix(clean); ok {
		add(stripped)
	}
	if len(set.Important) >= 2 {
		add(set.Important[0] + " " + set.Important[1])
	}
	if len(set.Important) >= 1 {
		add(set.Important[0])
	}
	return set
}

// StripYear removes a trailing "(YYYY)" and returns it separately.
func StripYear(raw string) (string, int) {
	trimmed := strings.TrimSpace(raw)
	m := yearSuffixPattern.FindStringSubmatchIndex(trimmed)
	if m == nil {
		return trimmed, 0
	}
	year, _ := strconv.Atoi(trimmed[m[2]:m[3]])
	return strings.TrimSpace(trimmed[:m[0]]), year
}

// ToggleThe drops a leading "The " or adds one.
func ToggleThe(title string) string {
	if len(title) >= 4 && strings.EqualFold(title[:4], "the ") {
		return strings.TrimSpace(title[4:])
	}
	return "The " + title
}

// ImportantWords lower-cases the title words and drops stop-words and words
// of two runes or fewer.
func ImportantWords(title string) []string {
	var words []string
	for _, field := range strings.Fields(title) {
		word := strings.ToLower(strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		words = append(words, word)
	}
	return words
}

func stripMovieSuffix(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, suffix := range []string{" the movie", " movie"} {
		if strings.HasSuffix(lower, suffix) && len(title) > len(suffix) {
			return strings.TrimSpace(title[:len(title)-len(suffix)]), true
		}
	}
	return "", false
}

func collapseSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
