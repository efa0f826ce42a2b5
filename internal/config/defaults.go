package config

const (
	defaultStateDir             = "~/.local/share/obitcheck/state"
	defaultLogDir               = "~/.local/share/obitcheck/logs"
	defaultFirstNameColumn      = "First Name"
	defaultLastNameColumn       = "Last Name"
	defaultExpirationColumn     = "Expiration Date"
	defaultMinExpirationYear    = 2024
	defaultMinNameLength        = 2
	defaultSearchBaseURL        = "https://www.legacy.com/api/_frontend/search"
	defaultSearchCountryID      = 1
	defaultSearchRegionID       = 41
	defaultSearchStartDate      = "01-01-2023"
	defaultSearchEndDate        = "12-01-2025"
	defaultSearchLimit          = 50
	defaultSearchNoticeType     = "all"
	defaultSearchUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"
	defaultSearchReferer        = "https://www.legacy.com/obituaries/search"
	defaultSearchTimeoutSeconds = 30
	defaultRequestsPerSecond    = 1.0
	defaultBurst                = 2
	defaultRetryMaxAttempts     = 3
	defaultRateLimitBaseSeconds = 30
	defaultTransientWaitSeconds = 5
	defaultJitterMinMillis      = 500
	defaultJitterMaxMillis      = 1500
	defaultBatchSize            = 20
	defaultConcurrency          = 2
	defaultBatchPauseSeconds    = 2
	defaultKeptPath             = "filtered-possibilities.csv"
	defaultRemovedPath          = "removed-possibilities.csv"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Input: Input{
			FirstNameColumn:   defaultFirstNameColumn,
			LastNameColumn:    defaultLastNameColumn,
			ExpirationColumn:  defaultExpirationColumn,
			MinExpirationYear: defaultMinExpirationYear,
			MinNameLength:     defaultMinNameLength,
		},
		Search: Search{
			BaseURL:           defaultSearchBaseURL,
			CountryID:         defaultSearchCountryID,
			RegionID:          defaultSearchRegionID,
			StartDate:         defaultSearchStartDate,
			EndDate:           defaultSearchEndDate,
			Limit:             defaultSearchLimit,
			NoticeType:        defaultSearchNoticeType,
			UserAgent:         defaultSearchUserAgent,
			Referer:           defaultSearchReferer,
			TimeoutSeconds:    defaultSearchTimeoutSeconds,
			RequestsPerSecond: defaultRequestsPerSecond,
			Burst:             defaultBurst,
		},
		Retry: Retry{
			MaxAttempts:          defaultRetryMaxAttempts,
			RateLimitBaseSeconds: defaultRateLimitBaseSeconds,
			TransientWaitSeconds: defaultTransientWaitSeconds,
			JitterMinMillis:      defaultJitterMinMillis,
			JitterMaxMillis:      defaultJitterMaxMillis,
		},
		Run: Run{
			BatchSize:         defaultBatchSize,
			Concurrency:       defaultConcurrency,
			BatchPauseSeconds: defaultBatchPauseSeconds,
		},
		Output: Output{
			KeptPath:    defaultKeptPath,
			RemovedPath: defaultRemovedPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
