package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelcheck/internal/config"
	"reelcheck/internal/history"
	"reelcheck/internal/httpx"
)

const userAgent = "reelcheck/0.1"

// Service is the notification surface used by the check command.
type Service interface {
	NotifyNewlyAvailable(ctx context.Context, changes []history.Change) error
	NotifyRunFailed(ctx context.Context, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds an ntfy-backed service, or a no-op when no topic is set.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   httpx.NewClient(httpx.Options{Timeout: timeout, UserAgent: userAgent}),
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyNewlyAvailable(ctx context.Context, changes []history.Change) error {
	var titles []string
	for _, change := range changes {
		if change.NewlyAvailable() {
			titles = append(titles, strings.TrimSpace(change.Title))
		}
	}
	if len(titles) == 0 {
		return nil
	}
	title := "reelcheck - Available"
	if len(titles) > 1 {
		title = fmt.Sprintf("reelcheck - %d Titles Available", len(titles))
	}
	return n.send(ctx, payload{
		title:   title,
		message: "🎬 Ready to download:\n" + strings.Join(titles, "\n"),
		tags:    []string{"reelcheck", "available", "movie"},
	})
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return n.send(ctx, payload{
		title:    "reelcheck - Error",
		message:  fmt.Sprintf("❌ Check run failed: %v", err),
		tags:     []string{"reelcheck", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "reelcheck - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"reelcheck", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyNewlyAvailable(context.Context, []history.Change) error { return nil }
func (noopService) NotifyRunFailed(context.Context, error) error                 { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }
