package testsupport

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// OmbiUser is a row in the AspNetUsers fixture table.
type OmbiUser struct {
	ID       string
	UserName string
}

// OmbiRequest is a row in the MovieRequests fixture table. Empty strings are
// stored as NULL.
type OmbiRequest struct {
	Title         string
	ReleaseDate   string
	Status        string
	RequestedDate string
	UserID        string
	Approved      bool
	Available     *bool
}

const ombiSchema = `
CREATE TABLE AspNetUsers (
	Id TEXT NOT NULL PRIMARY KEY,
	UserName TEXT
);
CREATE TABLE MovieRequests (
	Id INTEGER PRIMARY KEY AUTOINCREMENT,
	Title TEXT,
	ReleaseDate TEXT NOT NULL,
	Status TEXT,
	RequestedDate TEXT NOT NULL,
	RequestedUserId TEXT,
	Approved INTEGER NOT NULL,
	Available INTEGER
);`

// WriteOmbiDB creates a minimal Ombi database at path.
func WriteOmbiDB(t testing.TB, path string, users []OmbiUser, rows []OmbiRequest) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open ombi fixture: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(ombiSchema); err != nil {
		t.Fatalf("create ombi schema: %v", err)
	}
	for _, u := range users {
		if _, err := db.Exec(`INSERT INTO AspNetUsers (Id, UserName) VALUES (?, ?)`, u.ID, u.UserName); err != nil {
			t.Fatalf("insert user: %v", err)
		}
	}
	for _, r := range rows {
		var available any
		if r.Available != nil {
			available = *r.Available
		}
		_, err := db.Exec(`INSERT INTO MovieRequests (Title, ReleaseDate, Status, RequestedDate, RequestedUserId, Approved, Available)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.Title, r.ReleaseDate, nullable(r.Status), r.RequestedDate, nullable(r.UserID), r.Approved, available)
		if err != nil {
			t.Fatalf("insert request %q: %v", r.Title, err)
		}
	}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
