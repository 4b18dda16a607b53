package config

const (
	defaultConfigPath          = "~/.config/reelcheck/config.toml"
	defaultStateDir            = "~/.local/share/reelcheck"
	defaultLogDir              = "~/.local/share/reelcheck/logs"
	defaultOmbiDBPath          = "ombi.db"
	defaultOmbiSiteURL         = "http://localhost:5000"
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBLanguage        = "nl-NL"
	defaultTMDBImageBaseURL    = "https://image.tmdb.org/t/p/w500"
	defaultSiteBaseURL         = "https://vuniper.com"
	defaultSiteRequestInterval = 2000
	defaultSiteTimeoutSeconds  = 20
	defaultSiteRetryMax        = 2
	defaultSiteUserAgent       = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	defaultOverridesPath       = "digital_dates.txt"
	defaultReportSort          = "status"
	defaultReportTitle         = "Movie Download Status"
	defaultReportOverview      = "Geen beschrijving beschikbaar."
	defaultEngineWorkers       = 1
	maxEngineWorkers           = 8
	defaultNtfyTimeoutSeconds  = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogMaxSizeMB        = 10
	defaultLogMaxBackups       = 3
	defaultLogMaxAgeDays       = 30
	minCatalogYear             = 1900
	maxCatalogYear             = 2100
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Ombi: Ombi{
			DBPath:  defaultOmbiDBPath,
			SiteURL: defaultOmbiSiteURL,
		},
		TMDB: TMDB{
			BaseURL:      defaultTMDBBaseURL,
			Language:     defaultTMDBLanguage,
			ImageBaseURL: defaultTMDBImageBaseURL,
		},
		Site: Site{
			BaseURL:           defaultSiteBaseURL,
			RequestIntervalMS: defaultSiteRequestInterval,
			TimeoutSeconds:    defaultSiteTimeoutSeconds,
			RetryMax:          defaultSiteRetryMax,
			UserAgent:         defaultSiteUserAgent,
		},
		Overrides: Overrides{
			Path: defaultOverridesPath,
		},
		Report: Report{
			Sort:            defaultReportSort,
			Title:           defaultReportTitle,
			DefaultOverview: defaultReportOverview,
		},
		Engine: Engine{
			Workers: defaultEngineWorkers,
		},
		History: History{
			Enabled: true,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeoutSeconds,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
