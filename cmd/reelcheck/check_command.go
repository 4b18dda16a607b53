package main

import (
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"reelcheck/internal/availability"
	"reelcheck/internal/config"
	"reelcheck/internal/engine"
	"reelcheck/internal/history"
	"reelcheck/internal/httpx"
	"reelcheck/internal/logging"
	"reelcheck/internal/notifications"
	"reelcheck/internal/overrides"
	"reelcheck/internal/report"
	"reelcheck/internal/requests"
	"reelcheck/internal/site"
	"reelcheck/internal/tmdb"
)

type checkOptions struct {
	ombiDB      string
	tmdbToken   string
	language    string
	customDates string
	outputHTML  string
	sort        string
	workers     int
	debug       bool
	json        bool
	noHistory   bool
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve release dates for every pending Ombi request",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			return runCheck(cmd, &cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ombiDB, "ombi-db", "", "Path to the Ombi SQLite database")
	flags.StringVar(&opts.tmdbToken, "tmdb-token", "", "TMDB v4 read token or v3 API key")
	flags.StringVar(&opts.language, "language", "", "TMDB metadata language (e.g. nl-NL)")
	flags.StringVar(&opts.customDates, "custom-dates", "", "Path to the manual digital date list")
	flags.StringVar(&opts.outputHTML, "output-html", "", "Write an HTML report to this path")
	flags.StringVar(&opts.sort, "sort", "", "Report order: "+strings.Join(config.SortModes, ", "))
	flags.IntVar(&opts.workers, "workers", 0, "Concurrent release site sessions (1-8)")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&opts.json, "json", false, "Print records as JSON instead of a table")
	flags.BoolVar(&opts.noHistory, "no-history", false, "Do not read or record run history")
	return cmd
}

// apply copies explicitly set flags onto cfg and revalidates it.
func (o checkOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("ombi-db") {
		if cfg.Ombi.DBPath, err = config.ExpandPath(strings.TrimSpace(o.ombiDB)); err != nil {
			return fmt.Errorf("resolve --ombi-db: %w", err)
		}
	}
	if flags.Changed("custom-dates") {
		if cfg.Overrides.Path, err = config.ExpandPath(strings.TrimSpace(o.customDates)); err != nil {
			return fmt.Errorf("resolve --custom-dates: %w", err)
		}
	}
	if flags.Changed("output-html") {
		if cfg.Report.HTMLPath, err = config.ExpandPath(strings.TrimSpace(o.outputHTML)); err != nil {
			return fmt.Errorf("resolve --output-html: %w", err)
		}
	}
	if flags.Changed("tmdb-token") {
		token := strings.TrimSpace(o.tmdbToken)
		// v4 read tokens are JWTs; anything else is treated as a v3 key.
		if strings.Count(token, ".") == 2 {
			cfg.TMDB.BearerToken = token
		} else {
			cfg.TMDB.APIKey = token
		}
	}
	if flags.Changed("language") {
		cfg.TMDB.Language = strings.TrimSpace(o.language)
	}
	if flags.Changed("sort") {
		cfg.Report.Sort = strings.ToLower(strings.TrimSpace(o.sort))
	}
	if flags.Changed("workers") {
		cfg.Engine.Workers = o.workers
	}
	if o.noHistory {
		cfg.History.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.RequireTMDB()
}

type checkResult struct {
	RunID   string           `json:"run_id"`
	Stats   report.Stats     `json:"stats"`
	Records []engine.Record  `json:"records"`
	Changes []history.Change `json:"changes,omitempty"`
}

func runCheck(cmd *cobra.Command, cfg *config.Config, opts checkOptions) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := logging.NewFromConfig(cfg, opts.debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another reelcheck run is in progress (lock %s)", cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	sortMode, err := report.ParseSortMode(cfg.Report.Sort)
	if err != nil {
		return err
	}

	source, err := requests.Open(signalCtx, cfg.Ombi.DBPath, logger)
	if err != nil {
		return err
	}
	defer source.Close()
	pending, err := source.Pending(signalCtx)
	if err != nil {
		return err
	}
	for _, row := range pending {
		logger.Debug("pending request", logging.String("line", row.Line()))
	}

	out := cmd.OutOrStdout()
	progressOut := out
	if opts.json {
		progressOut = cmd.ErrOrStderr()
	}

	var (
		store    *history.Store
		previous map[string]availability.Status
	)
	if cfg.History.Enabled {
		store, err = history.Open(signalCtx, cfg.HistoryPath())
		if err != nil {
			return err
		}
		defer store.Close()
		if previous, err = store.LastStatuses(signalCtx); err != nil {
			return err
		}
	}

	resolver, err := buildResolver(cfg, logger, &progressPrinter{out: progressOut})
	if err != nil {
		return err
	}

	notifier := notifications.NewService(cfg)
	started := time.Now()
	records, err := resolver.Run(signalCtx, requests.EngineRequests(pending))
	if err != nil {
		err = fmt.Errorf("check run failed: %w", err)
		if notifyErr := notifier.NotifyRunFailed(cmd.Context(), err); notifyErr != nil {
			logger.Warn("failed to send failure notification", logging.Error(notifyErr))
		}
		return err
	}
	logger.Info("check run finished",
		logging.Int("titles", len(records)),
		logging.Duration("elapsed", time.Since(started)))

	result := checkResult{RunID: runID, Stats: report.Count(records), Records: report.Sort(records, sortMode)}
	if store != nil {
		if err := store.RecordRun(signalCtx, runID, started, records); err != nil {
			return err
		}
		result.Changes = history.Changes(previous, records)
		if err := notifier.NotifyNewlyAvailable(signalCtx, result.Changes); err != nil {
			logger.Warn("failed to send availability notification", logging.Error(err))
		}
	}

	if cfg.Report.HTMLPath != "" {
		page := report.Page{
			Title:      cfg.Report.Title,
			Records:    result.Records,
			Stats:      result.Stats,
			Generated:  time.Now(),
			Background: cfg.Report.BackgroundURL,
			OmbiURL:    cfg.Ombi.SiteURL,
		}
		if err := report.WriteHTMLFile(cfg.Report.HTMLPath, page); err != nil {
			return fmt.Errorf("write html report: %w", err)
		}
		logger.Info("html report written", logging.String("path", cfg.Report.HTMLPath))
	}

	if opts.json {
		return writeJSON(cmd, result)
	}
	printCheckResult(out, records, result, cfg.Report.HTMLPath, shouldColorize(out))
	return nil
}

func buildResolver(cfg *config.Config, logger *slog.Logger, observer engine.Observer) (*engine.Resolver, error) {
	siteClient, err := site.New(site.Options{
		BaseURL:         cfg.Site.BaseURL,
		RequestInterval: time.Duration(cfg.Site.RequestIntervalMS) * time.Millisecond,
		Timeout:         time.Duration(cfg.Site.TimeoutSeconds) * time.Second,
		RetryMax:        cfg.Site.RetryMax,
		UserAgent:       cfg.Site.UserAgent,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	tmdbClient, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithBearerToken(cfg.TMDB.BearerToken),
		tmdb.WithHTTPClient(httpx.NewClient(httpx.Options{
			Timeout:  time.Duration(cfg.Site.TimeoutSeconds) * time.Second,
			RetryMax: cfg.Site.RetryMax,
			Logger:   logger,
		})))
	if err != nil {
		return nil, err
	}

	catalog := overrides.NewCatalog(afero.NewOsFs(), cfg.Overrides.Path, overrideYear(cfg), logger)
	table, err := catalog.Table()
	if err != nil {
		return nil, err
	}
	logger.Info("override dates loaded",
		logging.String("path", catalog.Path()),
		logging.Int("entries", table.Len()),
		logging.Int("skipped", len(table.Skipped())))

	return engine.NewResolver(siteClient, tmdb.NewLookup(tmdbClient, logger), table, logger, engine.Options{
		Locale:          cfg.TMDB.Language,
		CatalogYear:     cfg.Catalog.Year,
		Workers:         cfg.Engine.Workers,
		PosterBaseURL:   cfg.TMDB.ImageBaseURL,
		DefaultOverview: cfg.Report.DefaultOverview,
		Observer:        observer,
	}), nil
}

// overrideYear is the year assumed for override lines without one.
func overrideYear(cfg *config.Config) int {
	if cfg.Catalog.Year > 0 {
		return cfg.Catalog.Year
	}
	return time.Now().Year()
}

// progressPrinter echoes each title as a worker picks it up.
type progressPrinter struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *progressPrinter) TitleStarted(index, total int, title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "[%d/%d] %s\n", index, total, title)
}

func (p *progressPrinter) TitleFinished(int, int, engine.Record) {}

func printCheckResult(out io.Writer, records []engine.Record, result checkResult, htmlPath string, colorize bool) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No pending requests")
		return
	}
	fmt.Fprintln(out)
	for _, rec := range records {
		fmt.Fprintln(out, report.Summary(rec))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, report.RenderTable(result.Records, colorize))
	stats := result.Stats
	fmt.Fprintf(out, "Total: %d  Available: %d  Soon: %d  Unavailable: %d\n",
		stats.Total, stats.Available, stats.Soon, stats.Unavailable)
	if len(result.Changes) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Status changes since last run:")
		for _, change := range result.Changes {
			line := fmt.Sprintf("  %s: %s -> %s", change.Title, change.From, change.To)
			if change.NewlyAvailable() {
				line += " (newly available)"
			}
			fmt.Fprintln(out, line)
		}
	}
	if htmlPath != "" {
		fmt.Fprintf(out, "\nHTML report written to %s\n", htmlPath)
	}
}
