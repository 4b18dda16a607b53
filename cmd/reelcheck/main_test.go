package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcheck/internal/config"
	"reelcheck/internal/testsupport"
)

const testSearchPage = `<html><body>
<a class="search-suggestion" href="/movie/superman-2024">Superman 2024</a>
<a class="search-suggestion" href="/movie/superman-2025">Superman 2025</a>
</body></html>`

const testMoviePage = `<html><body>
<div class="media-viewer-line"><div><img alt="Icon of cinema film"><div><span class="semibold">Jul 11, 2025</span><span>In Theaters</span></div></div></div>
<div class="media-viewer-line"><div><img alt="Streaming icon"><div><span class="semibold">Aug 26, 2025</span><span>Digital release date</span></div></div></div>
</body></html>`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	siteMux := http.NewServeMux()
	siteMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	})
	siteMux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Query().Get("q"), "Superman") {
			_, _ = w.Write([]byte(testSearchPage))
			return
		}
		_, _ = w.Write([]byte("<html><body></body></html>"))
	})
	siteMux.HandleFunc("/movie/superman-2025", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testMoviePage))
	})
	siteServer := httptest.NewServer(siteMux)
	t.Cleanup(siteServer.Close)

	tmdbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "Superman" {
			_, _ = w.Write([]byte(`{"results":[{"id":1061474,"title":"Superman","overview":"Man of steel","poster_path":"/s.jpg"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(tmdbServer.Close)

	t.Setenv("HOME", t.TempDir())
	opts = append([]testsupport.ConfigOption{
		testsupport.WithSiteURL(siteServer.URL),
		testsupport.WithTMDBURL(tmdbServer.URL),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	testsupport.WriteOmbiDB(t, cfg.Ombi.DBPath,
		[]testsupport.OmbiUser{{ID: "u1", UserName: "alice"}},
		[]testsupport.OmbiRequest{
			{Title: "Superman", ReleaseDate: "2025-07-11 00:00:00", Status: "Released", RequestedDate: "2025-06-02 18:31:00", UserID: "u1"},
			{Title: "Heat", ReleaseDate: "1995-12-15 00:00:00", Status: "Released", RequestedDate: "2025-06-03 10:00:00", UserID: "u1"},
		})

	configPath := filepath.Join(t.TempDir(), "config.toml")
	testsupport.WriteConfigFile(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestCheckPrintsProgressSummariesAndTable(t *testing.T) {
	env := setupCLITestEnv(t)
	htmlPath := filepath.Join(t.TempDir(), "report.html")

	out, _, err := runCLI(t, []string{"check", "--output-html", htmlPath}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "[1/2] Heat")
	requireContains(t, out, "[2/2] Superman")
	requireContains(t, out, "Superman: Yes - Digital: 2025-08-26")
	requireContains(t, out, "Heat: TBD - Digital: TBD")
	requireContains(t, out, "Total: 2  Available: 1  Soon: 0  Unavailable: 1")
	requireContains(t, out, "HTML report written to "+htmlPath)

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read html report: %v", err)
	}
	requireContains(t, string(data), "https://image.tmdb.org/t/p/w500/s.jpg")
}

func TestCheckReportsStatusChangesBetweenRuns(t *testing.T) {
	var notified []string
	ntfy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		notified = append(notified, string(body))
	}))
	t.Cleanup(ntfy.Close)
	env := setupCLITestEnv(t, testsupport.WithNtfyTopic(ntfy.URL))

	if _, _, err := runCLI(t, []string{"check"}, env.configPath); err != nil {
		t.Fatalf("first check: %v", err)
	}
	testsupport.WriteFile(t, env.cfg.Overrides.Path, "Heat December 1, 2020\n")

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	requireContains(t, out, "Heat: Yes - Digital: 2020-12-01")
	requireContains(t, out, "Heat: TBD -> Yes (newly available)")
	if len(notified) != 1 || !strings.Contains(notified[0], "Heat") {
		t.Fatalf("expected one availability notification for Heat, got %q", notified)
	}
}

func TestCheckJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithOverrides("Heat December 1, 2020\n"))

	out, stderr, err := runCLI(t, []string{"check", "--json", "--no-history", "--sort", "title"}, env.configPath)
	if err != nil {
		t.Fatalf("check --json: %v", err)
	}
	requireContains(t, stderr, "[1/2] Heat")

	var payload struct {
		RunID   string `json:"run_id"`
		Records []struct {
			Title         string `json:"title"`
			Status        string `json:"status"`
			DigitalSource string `json:"digital_source"`
			TMDBID        int64  `json:"tmdb_id"`
		} `json:"records"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json output: %v\n%s", err, out)
	}
	if payload.RunID == "" || len(payload.Records) != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	heat, superman := payload.Records[0], payload.Records[1]
	if heat.Title != "Heat" || heat.DigitalSource != "override" || heat.Status != "Yes" {
		t.Fatalf("unexpected heat record %+v", heat)
	}
	if superman.DigitalSource != "site" || superman.TMDBID != 1061474 {
		t.Fatalf("unexpected superman record %+v", superman)
	}
	if _, err := os.Stat(env.cfg.HistoryPath()); !os.IsNotExist(err) {
		t.Fatalf("--no-history should not create %s", env.cfg.HistoryPath())
	}
}

func TestCheckRequiresTMDBCredential(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("TMDB_BEARER_TOKEN", "")
	env := setupCLITestEnv(t, testsupport.WithTMDBKey(""))

	_, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--tmdb-token") {
		t.Fatalf("expected missing credential error, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"check", "--tmdb-token", "flagkey", "--no-history"}, env.configPath); err != nil {
		t.Fatalf("--tmdb-token should satisfy the credential check: %v", err)
	}
}

func TestCheckMissingOmbiDatabase(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(t.TempDir(), "nope.db")
	_, _, err := runCLI(t, []string{"check", "--ombi-db", missing}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "nope.db") {
		t.Fatalf("expected missing database error, got %v", err)
	}
}

func TestCheckRejectsBadWorkers(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"check", "--workers", "9"}, env.configPath); err == nil {
		t.Fatal("expected error for 9 workers")
	}
}

func TestOverridesCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCatalogYear(2025), testsupport.WithOverrides("F1 August 26\nnot a date line\n"))

	out, stderr, err := runCLI(t, []string{"overrides"}, env.configPath)
	if err != nil {
		t.Fatalf("overrides: %v", err)
	}
	requireContains(t, out, "F1")
	requireContains(t, out, "2025-08-26")
	requireContains(t, stderr, "line 2 skipped")
}

func TestNormalizeCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"normalize", "Aug 26, 2025", "garbage"}, "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	requireContains(t, out, "2025-08-26")
	requireContains(t, out, "garbage")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigNotifyTestRequiresTopic(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"config", "notify-test"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "ntfy_topic") {
		t.Fatalf("expected missing topic error, got %v", err)
	}

	var title string
	ntfy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("Title")
	}))
	t.Cleanup(ntfy.Close)
	env = setupCLITestEnv(t, testsupport.WithNtfyTopic(ntfy.URL))
	out, _, err := runCLI(t, []string{"config", "notify-test"}, env.configPath)
	if err != nil {
		t.Fatalf("config notify-test: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if title != "reelcheck - Test" {
		t.Fatalf("unexpected notification title %q", title)
	}
}
