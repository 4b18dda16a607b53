package overrides

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"reelcheck/internal/dates"
	"reelcheck/internal/logging"
)

// Entry is one parsed override line.
type Entry struct {
	Title string
	Date  dates.Date
	Line  int
}

// Skipped records an override line that could not be parsed.
type Skipped struct {
	Line   int
	Text   string
	Reason string
}

// Table maps normalized title keys to manual digital release dates. It is
// read-only once Parse returns.
type Table struct {
	logger  *slog.Logger
	entries []Entry
	skipped []Skipped
	keys    []string
	byKey   map[string]dates.Date
}

// Parse reads override lines from r. Lines without a year use defaultYear.
// Unparseable lines are logged and skipped; only read errors are returned.
func Parse(r io.Reader, defaultYear int, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	table := &Table{logger: logger, byKey: make(map[string]dates.Date)}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := ParseLine(line, defaultYear)
		if err != nil {
			table.skipped = append(table.skipped, Skipped{Line: lineNum, Text: line, Reason: err.Error()})
			logging.WarnWithContext(logger, "skipping override line", "override_parse_failed",
				logging.Int("line", lineNum),
				logging.String("text", line),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "use 'Title Month Day', 'Title Day Month', or 'Title Month Day, Year'"),
				logging.String(logging.FieldImpact, "title falls back to release site dates only"))
			continue
		}
		entry.Line = lineNum
		table.add(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	return table, nil
}

// ParseLine parses a single override line.
func ParseLine(line string, defaultYear int) (Entry, error) {
	line = strings.TrimSpace(line)
	var (
		titleParts []string
		monthStr   string
		dayStr     string
		year       = defaultYear
	)

	if idx := strings.LastIndex(line, ","); idx >= 0 {
		parts := strings.Fields(line[:idx])
		if len(parts) < 3 {
			return Entry{}, errors.New("expected 'Title Month Day, Year'")
		}
		y, err := parseYear(strings.TrimSpace(line[idx+1:]))
		if err != nil {
			return Entry{}, err
		}
		year = y
		titleParts, monthStr, dayStr = parts[:len(parts)-2], parts[len(parts)-2], parts[len(parts)-1]
	} else {
		parts := strings.Fields(line)
		if len(parts) < 3 {
			return Entry{}, errors.New("expected a title followed by a month and day")
		}
		last := parts[len(parts)-1]
		switch {
		case len(parts) >= 4 && len(last) == 4 && isDigits(last):
			y, err := parseYear(last)
			if err != nil {
				return Entry{}, err
			}
			year = y
			titleParts, monthStr, dayStr = parts[:len(parts)-3], parts[len(parts)-3], parts[len(parts)-2]
		case isDigits(parts[len(parts)-2]):
			titleParts, dayStr, monthStr = parts[:len(parts)-2], parts[len(parts)-2], last
		default:
			titleParts, monthStr, dayStr = parts[:len(parts)-2], parts[len(parts)-2], last
		}
	}

	month, ok := dates.MonthFromName(monthStr)
	if !ok {
		return Entry{}, fmt.Errorf("unknown month %q", monthStr)
	}
	if !isDigits(dayStr) {
		return Entry{}, fmt.Errorf("invalid day %q", dayStr)
	}
	day, _ := strconv.Atoi(dayStr)
	d, ok := dates.New(year, month, day)
	if !ok {
		return Entry{}, fmt.Errorf("invalid date %d %s %d", year, month, day)
	}
	title := strings.Join(titleParts, " ")
	if title == "" {
		return Entry{}, errors.New("missing title")
	}
	return Entry{Title: title, Date: d}, nil
}

func parseYear(value string) (int, error) {
	if len(value) != 4 || !isDigits(value) {
		return 0, fmt.Errorf("invalid year %q", value)
	}
	y, _ := strconv.Atoi(value)
	return y, nil
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Keys returns the lower-cased lookup forms of a title: verbatim, colon
// removed, colon replaced by a space, and with a leading "the" toggled.
func Keys(title string) []string {
	lower := collapse(strings.ToLower(title))
	if lower == "" {
		return nil
	}
	forms := []string{
		lower,
		collapse(strings.ReplaceAll(lower, ":", "")),
		collapse(strings.ReplaceAll(lower, ":", " ")),
	}
	if rest, ok := strings.CutPrefix(lower, "the "); ok {
		forms = append(forms, strings.TrimSpace(rest))
	} else {
		forms = append(forms, "the "+lower)
	}

	out := forms[:0]
	seen := make(map[string]struct{}, len(forms))
	for _, f := range forms {
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func collapse(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func (t *Table) add(entry Entry) {
	t.entries = append(t.entries, entry)
	for _, key := range Keys(entry.Title) {
		if _, exists := t.byKey[key]; !exists {
			t.keys = append(t.keys, key)
		}
		t.byKey[key] = entry.Date
	}
}

// Len returns the number of parsed entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the parsed entries in file order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return append([]Entry(nil), t.entries...)
}

// Skipped returns the lines Parse could not read.
func (t *Table) Skipped() []Skipped {
	if t == nil {
		return nil
	}
	return append([]Skipped(nil), t.skipped...)
}

// Match looks up a title. Exact key hits win; otherwise the first stored key,
// in registration order, that contains or is contained in a query form wins.
func (t *Table) Match(title string) (dates.Date, bool) {
	if t == nil || len(t.keys) == 0 {
		return dates.Date{}, false
	}
	queries := Keys(title)
	for _, q := range queries {
		if d, ok := t.byKey[q]; ok {
			t.logger.Debug("override exact match",
				logging.String(logging.FieldTitle, title),
				logging.String("key", q),
				logging.Date("date", d))
			return d, true
		}
	}
	for _, key := range t.keys {
		for _, q := range queries {
			if strings.Contains(q, key) || strings.Contains(key, q) {
				d := t.byKey[key]
				t.logger.Debug("override partial match",
					logging.String(logging.FieldTitle, title),
					logging.String("key", key),
					logging.String("query", q),
					logging.Date("date", d))
				return d, true
			}
		}
	}
	return dates.Date{}, false
}

// MatchKeywords returns the date of the first stored key containing any of the
// important words.
func (t *Table) MatchKeywords(important []string) (dates.Date, bool) {
	if t == nil {
		return dates.Date{}, false
	}
	for _, key := range t.keys {
		for _, word := range important {
			word = strings.ToLower(strings.TrimSpace(word))
			if word != "" && strings.Contains(key, word) {
				d := t.byKey[key]
				t.logger.Debug("override keyword match",
					logging.String("key", key),
					logging.String("word", word),
					logging.Date("date", d))
				return d, true
			}
		}
	}
	return dates.Date{}, false
}
