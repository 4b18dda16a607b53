package site_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"reelcheck/internal/dates"
	"reelcheck/internal/engine"
	"reelcheck/internal/extract"
	"reelcheck/internal/scoring"
	"reelcheck/internal/site"
)

const searchHTML = `<html><body>
<div class="suggestions">
  <a class="search-suggestion" href="/movie/superman-2025">
    Superman
    <small>2025</small>
  </a>
  <a class="search-suggestion" href="https://other.example/movie/superman-2024">Superman 2024</a>
  <div class="search-suggestion">   </div>
</div>
</body></html>`

const movieHTML = `<html><body>
<div class="media-viewer">
  <div class="media-viewer-line">
    <div class="release"><img alt="Icon of cinema film"><div><span class="semibold">Jul 11, 2025</span> <span>In Theaters</span></div></div>
  </div>
  <div class="media-viewer-line">
    <div class="release"><img alt="Streaming icon"><div><span class="semibold">Aug 26, 2025</span> <span>Digital release date</span></div></div>
  </div>
</div>
</body></html>`

func newSiteServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var searches atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		searches.Add(1)
		if c, err := r.Cookie("session"); err != nil || c.Value != "abc" {
			t.Errorf("search request missing session cookie")
		}
		if r.URL.Query().Get("q") != "Superman" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(searchHTML))
	})
	mux.HandleFunc("/movie/superman-2025", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(movieHTML))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &searches
}

func TestSessionSearchAndOpen(t *testing.T) {
	server, searches := newSiteServer(t)
	client, err := site.New(site.Options{BaseURL: server.URL + "/", Timeout: 5 * time.Second, UserAgent: "reelcheck-test"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()
	session, err := client.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}

	candidates, err := session.Search(ctx, "Superman")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if searches.Load() != 1 {
		t.Fatalf("expected one search request, got %d", searches.Load())
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", candidates)
	}
	if candidates[0].Text != "Superman 2025" || candidates[0].Ref != server.URL+"/movie/superman-2025" {
		t.Fatalf("unexpected first candidate %+v", candidates[0])
	}
	if candidates[1].Ref != "https://other.example/movie/superman-2024" {
		t.Fatalf("absolute href should be kept, got %q", candidates[1].Ref)
	}

	page, err := session.Open(ctx, candidates[0])
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if page.URL != candidates[0].Ref || len(page.Fields) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	got := extract.Extract(page.Fields, 2025)
	theater, _ := dates.New(2025, 7, 11)
	digital, _ := dates.New(2025, 8, 26)
	if got.Theater != theater || got.Digital != digital {
		t.Fatalf("extracted %+v, want theater %s digital %s", got, theater, digital)
	}
}

func TestSessionOpenRejectsEmptyLink(t *testing.T) {
	server, _ := newSiteServer(t)
	client, err := site.New(site.Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	session, err := client.NewSession(context.Background())
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if _, err := session.Open(context.Background(), scoring.Candidate{Text: "x"}); err == nil {
		t.Fatal("expected error for candidate without link")
	}
}

func TestNewSessionUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	client, err := site.New(site.Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.NewSession(context.Background()); !errors.Is(err, engine.ErrCollaboratorUnavailable) {
		t.Fatalf("expected ErrCollaboratorUnavailable, got %v", err)
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "  ", "vuniper.com", "://bad"} {
		if _, err := site.New(site.Options{BaseURL: raw}); err == nil {
			t.Fatalf("expected error for base url %q", raw)
		}
	}
}

func TestParsePageFields(t *testing.T) {
	fields, err := site.ParsePage(strings.NewReader(movieHTML))
	if err != nil {
		t.Fatalf("ParsePage returned error: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %+v", fields)
	}
	first := fields[0]
	if first.Text != "Jul 11, 2025" || first.Label != "In Theaters" || first.Icon != "Icon of cinema film" {
		t.Fatalf("unexpected field %+v", first)
	}
	if !strings.Contains(first.Container, "media-viewer-line") {
		t.Fatalf("container should include enclosing line class, got %q", first.Container)
	}
}

func TestParseSearchResolvesRelativeLinks(t *testing.T) {
	base, _ := url.Parse("https://vuniper.com")
	got, err := site.ParseSearch(strings.NewReader(`<a class="search-suggestion" href="/movie/f1">F1</a>`), base)
	if err != nil {
		t.Fatalf("ParseSearch returned error: %v", err)
	}
	if len(got) != 1 || got[0].Ref != "https://vuniper.com/movie/f1" {
		t.Fatalf("unexpected candidates %+v", got)
	}
}
