package scoring

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"reelcheck/internal/logging"
)

const (
	exactYearPoints    = 1000
	nearYearPoints     = 500
	yearMismatchPoints = -200
	catalogTitlePoints = 100
	catalogCutoffYear  = 2020
	importantWordPoint = 50
	exactTitlePoints   = 200
)

var (
	candidateYearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	trailingYearPattern  = regexp.MustCompile(`\s*[\(\[]?\b(?:19|20)\d{2}\b[\)\]]?\s*$`)
	placeholderPhrases   = []string{"no results", "searched movies", "view results"}
	folder               = cases.Fold()
)

// Candidate is one search suggestion. Ref is an opaque handle the site session
// uses to open the candidate's page.
type Candidate struct {
	Text string
	Ref  string
}

// CandidateYear returns the last 19xx/20xx year in text, or 0.
func CandidateYear(text string) int {
	matches := candidateYearPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0
	}
	year, _ := strconv.Atoi(matches[len(matches)-1])
	return year
}

// IsPlaceholder reports whether text is search chrome rather than a movie.
func IsPlaceholder(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range placeholderPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Score computes the match score for one candidate.
func Score(candidate Candidate, expectedYear int, important []string, clean string) int {
	text := strings.ToLower(candidate.Text)
	year := CandidateYear(candidate.Text)
	score := 0

	switch {
	case expectedYear > 0 && year > 0:
		diff := year - expectedYear
		if diff == 0 {
			score += exactYearPoints
		} else {
			if diff == 1 || diff == -1 {
				score += nearYearPoints
			}
			score += yearMismatchPoints
		}
	case expectedYear == 0 && year > 0 && year < catalogCutoffYear:
		score += catalogTitlePoints
	}

	for _, word := range important {
		if word != "" && strings.Contains(text, strings.ToLower(word)) {
			score += importantWordPoint
		}
	}

	if clean != "" && sameTitle(candidate.Text, clean) {
		score += exactTitlePoints
	}
	return score
}

func sameTitle(text, clean string) bool {
	stripped := strings.TrimSpace(trailingYearPattern.ReplaceAllString(text, ""))
	return folder.String(stripped) == folder.String(strings.TrimSpace(clean))
}

// Select picks the best candidate after dropping placeholders. Ties keep the
// earliest candidate. It returns false when nothing eligible remains.
func Select(logger *slog.Logger, candidates []Candidate, expectedYear int, important []string, clean string) (Candidate, bool) {
	if logger == nil {
		logger = logging.NewNop()
	}
	var (
		best      Candidate
		bestScore int
		found     bool
	)
	for idx, candidate := range candidates {
		if IsPlaceholder(candidate.Text) {
			logger.Debug("skipping placeholder suggestion",
				logging.Int("candidate_index", idx),
				logging.String("candidate", candidate.Text))
			continue
		}
		score := Score(candidate, expectedYear, important, clean)
		logger.Debug("candidate score",
			logging.Int("candidate_index", idx),
			logging.String("candidate", candidate.Text),
			logging.Int("candidate_year", CandidateYear(candidate.Text)),
			logging.Int("expected_year", expectedYear),
			logging.Int("score", score))
		if !found || score > bestScore {
			best = candidate
			bestScore = score
			found = true
		}
	}
	if !found {
		logger.Debug("no eligible candidates",
			logging.Int("total_candidates", len(candidates)))
		return Candidate{}, false
	}
	logger.Info("best candidate selected",
		logging.String("candidate", best.Text),
		logging.Int("score", bestScore),
		logging.Int("expected_year", expectedYear),
		logging.Int("total_candidates", len(candidates)))
	return best, true
}
