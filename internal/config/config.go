package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The crawl defaults mirror the classic
// behavior of small site-scraping tools: shallow depth, a handful of
// workers, and a one-minute overall budget.
const (
	// DefaultDepth is the default maximum crawl depth. Two hops from the
	// seed covers contact and imprint pages on most sites without turning
	// the run into a full-site mirror.
	DefaultDepth = 2

	// DefaultWorkers is the default number of concurrent crawl workers.
	DefaultWorkers = 4

	// DefaultTimeout is the default overall run budget. A run that hits
	// the budget terminates with partial results; it is not an error.
	DefaultTimeout = 60 * time.Second

	// DefaultFetchTimeout is the per-request deadline. It is always
	// clamped to the remaining run time.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxPages is the default page cap. Zero means unlimited;
	// the run budget is the effective bound.
	DefaultMaxPages = 0

	// DefaultBatchSize is the number of seeds crawled concurrently when
	// several seed URLs are given. One keeps output interleaving tidy.
	DefaultBatchSize = 1

	// DefaultUserAgent identifies mailspider in HTTP requests.
	DefaultUserAgent = "mailspider/1.0 (+https://github.com/mailspider/mailspider)"

	// DefaultMaxBodySize caps response bodies at 5MB. Larger responses
	// are skipped rather than truncated.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "mailspider"
)

// Config holds all configuration options for a mailspider invocation.
// It is populated from CLI flags and the optional config file, validated
// once, and then read-only for the lifetime of the run.
type Config struct {
	// Seeds are the seed URLs to crawl, one independent run per seed.
	// A missing scheme is inferred as https.
	Seeds []string

	// Depth is the maximum number of link-hops from the seed.
	// Zero fetches only the seed page.
	Depth int

	// Workers is the fixed number of concurrent crawl workers per run.
	Workers int

	// Timeout is the overall budget of a single run. When it expires the
	// crawl stops and reports whatever was gathered.
	Timeout time.Duration

	// FetchTimeout is the deadline for each individual page fetch.
	FetchTimeout time.Duration

	// Strict restricts the output to addresses whose domain matches the
	// seed's registered domain. It filters presentation only; discovery
	// and deduplication are unaffected.
	Strict bool

	// MaxPages caps the number of pages fetched per run. Zero = no cap.
	MaxPages int

	// MaxBodySize is the largest response body, in bytes, that a fetch
	// will accept.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// IgnorePatterns are glob patterns matched against URL paths; links
	// with matching paths are never crawled.
	IgnorePatterns []string

	// BatchSize is the number of seeds crawled concurrently.
	BatchSize int

	// Verbose enables debug-level logging to stderr.
	Verbose bool

	// NoColor disables ANSI colors in the streamed output.
	NoColor bool

	// NoSave disables writing the run to the history database.
	NoSave bool

	// JSONReport switches the final report to JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport switches the final report to Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the final report to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit config file path. Empty means search
	// the working directory and the home directory for .mailspider.
	ConfigFilePath string

	// Sites holds per-domain overrides loaded from the config file.
	Sites *File

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Depth:        DefaultDepth,
		Workers:      DefaultWorkers,
		Timeout:      DefaultTimeout,
		FetchTimeout: DefaultFetchTimeout,
		MaxPages:     DefaultMaxPages,
		MaxBodySize:  DefaultMaxBodySize,
		UserAgent:    DefaultUserAgent,
		BatchSize:    DefaultBatchSize,
		DBDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for mailspider, where the
// history database lives.
// On Linux: ~/.local/share/mailspider
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for mailspider.
// On Linux: ~/.config/mailspider
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found
// as one of the package's sentinel errors. It runs once after flag and
// config-file merging, before any crawling begins; a validation failure
// is the only fatal error class besides an unparseable seed URL.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeedURL
	}
	if c.Depth < 0 {
		return ErrInvalidDepth
	}
	if c.Workers < 1 {
		return ErrInvalidWorkerCount
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.BatchSize < 1 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
