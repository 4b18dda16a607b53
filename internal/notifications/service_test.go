package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reelcheck/internal/availability"
	"reelcheck/internal/config"
	"reelcheck/internal/history"
	"reelcheck/internal/notifications"
)

type captured struct {
	calls    int
	title    string
	tags     string
	priority string
	body     string
}

func newNtfyServer(t *testing.T) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		got.calls++
		got.title = r.Header.Get("Title")
		got.tags = r.Header.Get("Tags")
		got.priority = r.Header.Get("Priority")
		got.body = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, got
}

func newService(url string) notifications.Service {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = url
	cfg.Notifications.RequestTimeoutSeconds = 5
	return notifications.NewService(&cfg)
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	changes := []history.Change{{Title: "Heat", From: availability.TBD, To: availability.Yes}}
	if err := svc.NotifyNewlyAvailable(context.Background(), changes); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNotifyNewlyAvailable(t *testing.T) {
	tests := []struct {
		name        string
		changes     []history.Change
		expectCalls int
		expectTitle string
		expectBody  string
	}{
		{
			name:        "single title",
			changes:     []history.Change{{Title: "Heat", From: availability.TBD, To: availability.Yes}},
			expectCalls: 1,
			expectTitle: "reelcheck - Available",
			expectBody:  "🎬 Ready to download:\nHeat",
		},
		{
			name: "several titles skip other changes",
			changes: []history.Change{
				{Title: "Heat", From: availability.Soon, To: availability.Yes},
				{Title: "F1", From: availability.TBD, To: availability.Soon},
				{Title: "Superman", From: availability.No, To: availability.Yes},
			},
			expectCalls: 1,
			expectTitle: "reelcheck - 2 Titles Available",
			expectBody:  "🎬 Ready to download:\nHeat\nSuperman",
		},
		{
			name:    "nothing became available",
			changes: []history.Change{{Title: "F1", From: availability.Yes, To: availability.Soon}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, got := newNtfyServer(t)
			if err := newService(server.URL).NotifyNewlyAvailable(context.Background(), tc.changes); err != nil {
				t.Fatalf("notify returned error: %v", err)
			}
			if got.calls != tc.expectCalls {
				t.Fatalf("expected %d requests, got %d", tc.expectCalls, got.calls)
			}
			if tc.expectCalls == 0 {
				return
			}
			if got.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, got.title)
			}
			if got.body != tc.expectBody {
				t.Fatalf("expected body %q, got %q", tc.expectBody, got.body)
			}
			if got.tags != "reelcheck,available,movie" {
				t.Fatalf("unexpected tags %q", got.tags)
			}
		})
	}
}

func TestNotifyRunFailedUsesHighPriority(t *testing.T) {
	server, got := newNtfyServer(t)
	if err := newService(server.URL).NotifyRunFailed(context.Background(), errors.New("site down")); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if got.priority != "high" || !strings.Contains(got.body, "site down") {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestSendReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic blocked", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	err := newService(server.URL).TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "topic blocked") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}
