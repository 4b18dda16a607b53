package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"reelcheck/internal/dates"
	"reelcheck/internal/engine"
	"reelcheck/internal/logging"
	"reelcheck/internal/sqlitex"
)

// ErrUnavailable marks an Ombi database that cannot be opened or read. It
// wraps engine.ErrRequestSource.
var ErrUnavailable = fmt.Errorf("ombi database unavailable: %w", engine.ErrRequestSource)

const (
	unknownUser    = "Onbekend"
	approvalStatus = "Wacht op goedkeuring"
	unknownYearTag = "0001"
)

var statusTranslations = map[string]string{
	"Released":        "Uitgebracht",
	"Post Production": "Postproductie",
}

const usersQuery = `SELECT Id, UserName FROM AspNetUsers`

const pendingQuery = `
SELECT Id, Title, ReleaseDate, Status, RequestedDate, RequestedUserId
FROM MovieRequests
WHERE Approved = 0 AND (Available = 0 OR Available IS NULL)
ORDER BY ReleaseDate ASC`

// Source reads pending movie requests from an Ombi SQLite database.
type Source struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens the Ombi database read-only and verifies the connection.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, path, err)
	}
	db, err := sqlitex.OpenReadOnly(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrUnavailable, err)
	}
	return &Source{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "requests"),
	}, nil
}

// Close closes the database.
func (s *Source) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Pending returns requests that are neither approved nor available, oldest
// release date first.
func (s *Source) Pending(ctx context.Context) ([]Request, error) {
	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}

	var out []Request
	err = sqlitex.RetryOnBusy(ctx, func() error {
		out = out[:0]
		rows, err := s.db.QueryContext(ctx, pendingQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				id                     int64
				title                  string
				release, status, asked sql.NullString
				userID                 sql.NullString
			)
			if err := rows.Scan(&id, &title, &release, &status, &asked, &userID); err != nil {
				return err
			}
			user, ok := users[userID.String]
			if !ok || strings.TrimSpace(user) == "" {
				user = unknownUser
			}
			out = append(out, Request{
				ID:          id,
				Title:       strings.TrimSpace(title),
				ReleaseDate: parseOmbiDate(release.String),
				Status:      translateStatus(status.String),
				RequestedAt: parseOmbiDate(asked.String),
				RequestedBy: user,
			})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query movie requests: %w", ErrUnavailable, err)
	}
	s.logger.Info("loaded pending requests",
		logging.String("path", s.path),
		logging.Int("count", len(out)),
		logging.Int("users", len(users)))
	return out, nil
}

func (s *Source) users(ctx context.Context) (map[string]string, error) {
	users := make(map[string]string)
	err := sqlitex.RetryOnBusy(ctx, func() error {
		clear(users)
		rows, err := s.db.QueryContext(ctx, usersQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			var name sql.NullString
			if err := rows.Scan(&id, &name); err != nil {
				return err
			}
			users[id] = name.String
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query users: %w", ErrUnavailable, err)
	}
	return users, nil
}

// parseOmbiDate reads the "YYYY-MM-DD HH:MM:SS" values Ombi stores. The
// 0001-01-01 placeholder and unreadable values are unknown.
func parseOmbiDate(value string) dates.Date {
	value = strings.TrimSpace(value)
	if value == "" || strings.Contains(value, unknownYearTag) {
		return dates.Date{}
	}
	day, _, _ := strings.Cut(value, " ")
	day, _, _ = strings.Cut(day, "T")
	d, ok := dates.Parse(day)
	if !ok {
		return dates.Date{}
	}
	return d
}

func translateStatus(status string) string {
	status = strings.TrimSpace(status)
	if translated, ok := statusTranslations[status]; ok {
		return translated
	}
	return status
}

// IsUnavailable reports whether err came from an unreadable request source.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
