package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"reelcheck/internal/tmdb"
)

func TestNewRequiresCredential(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "nl-NL"); err == nil {
		t.Fatal("expected error when no credential is supplied")
	}
	if _, err := tmdb.New("", "", "", tmdb.WithBearerToken("token")); err != nil {
		t.Fatalf("bearer token alone should be accepted: %v", err)
	}
}

func TestSearchMovieWithAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "key" || q.Get("language") != "nl-NL" || q.Get("query") != "Superman" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("api key requests should not send Authorization")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1061474,"title":"Superman","poster_path":"/abc.jpg","overview":"Man of steel"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "nl-NL")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	resp, err := client.SearchMovie(context.Background(), "Superman", "")
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].PosterPath != "/abc.jpg" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestSearchMovieWithBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("expected bearer header, got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Has("api_key") {
			t.Errorf("bearer requests should not send api_key")
		}
		if r.URL.Query().Get("language") != "en-US" {
			t.Errorf("per-call language should win, got %q", r.URL.Query().Get("language"))
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("", server.URL, "nl-NL", tmdb.WithBearerToken("token"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "Heat", "en-US"); err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
}

func TestSearchMovieHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "fail", ""); err == nil {
		t.Fatal("expected error when TMDB returns non-200")
	}
	if _, err := client.SearchMovie(context.Background(), "  ", ""); err == nil {
		t.Fatal("expected error for empty query")
	}
}

type stubSearcher struct {
	calls atomic.Int32
	resp  *tmdb.Response
	err   error
}

func (s *stubSearcher) SearchMovie(context.Context, string, string) (*tmdb.Response, error) {
	s.calls.Add(1)
	return s.resp, s.err
}

func TestLookupUsesFirstResultAndCaches(t *testing.T) {
	stub := &stubSearcher{resp: &tmdb.Response{Results: []tmdb.Result{
		{ID: 7, Title: "Superman", Overview: "first", PosterPath: "/p.jpg"},
		{ID: 8, Title: "Superman II"},
	}}}
	lookup := tmdb.NewLookup(stub, nil, tmdb.WithPacing(0))

	for range 2 {
		meta, ok, err := lookup.Lookup(context.Background(), "Superman", "nl-NL")
		if err != nil || !ok {
			t.Fatalf("Lookup = %v, %v", ok, err)
		}
		if meta.TMDBID != 7 || meta.PosterPath != "/p.jpg" || meta.Overview != "first" {
			t.Fatalf("unexpected metadata %+v", meta)
		}
	}
	if stub.calls.Load() != 1 {
		t.Fatalf("expected cached second lookup, got %d searches", stub.calls.Load())
	}
}

func TestLookupNoResultsAndErrors(t *testing.T) {
	empty := tmdb.NewLookup(&stubSearcher{resp: &tmdb.Response{}}, nil, tmdb.WithPacing(0))
	if _, ok, err := empty.Lookup(context.Background(), "Nothing", ""); ok || err != nil {
		t.Fatalf("expected miss without error, got %v, %v", ok, err)
	}

	boom := errors.New("boom")
	failing := tmdb.NewLookup(&stubSearcher{err: boom}, nil, tmdb.WithPacing(0))
	if _, _, err := failing.Lookup(context.Background(), "Heat", ""); !errors.Is(err, boom) {
		t.Fatalf("expected search error, got %v", err)
	}
}
