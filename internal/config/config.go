package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the behavior of a polite
// single-site crawl: few workers, a generous per-request timeout, and a
// fixed inter-batch delay.
const (
	// DefaultMaxWorkers is the number of concurrent fetch workers.
	// Three workers keep load on the target site modest while still
	// overlapping network latency.
	DefaultMaxWorkers = 3

	// DefaultDelay is the politeness delay between batches. The full delay
	// is slept after every batch completes, in addition to fetch time.
	DefaultDelay = 2 * time.Second

	// DefaultTimeout is the per-request HTTP timeout. 15 seconds is enough
	// for slow pages without letting a single request stall a whole batch
	// for long.
	DefaultTimeout = 15 * time.Second

	// DefaultCheckpointInterval is the number of accumulated pages between
	// checkpoint snapshots.
	DefaultCheckpointInterval = 50

	// DefaultOutputDir is the directory where checkpoints, the final
	// dataset, and the spreadsheet export are written.
	DefaultOutputDir = "output"

	// DefaultUserAgent identifies siteharvest in HTTP requests so that
	// site operators can recognize crawler traffic in their logs.
	DefaultUserAgent = "siteharvest/1.0 (+https://github.com/harvestly/siteharvest)"

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB covers any realistic HTML page while bounding memory use.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "siteharvest"
)

// DefaultExcludedExtensions lists path suffixes that are never fetched.
// These are binary or document formats with no extractable HTML content.
// Matching is case-insensitive.
func DefaultExcludedExtensions() []string {
	return []string{".pdf", ".jpg", ".jpeg", ".png", ".gif", ".zip", ".doc", ".docx"}
}

// Config holds all configuration options for a crawl run.
// It is populated from CLI flags and the optional config file, then passed
// through the application by dependency injection rather than global state.
type Config struct {
	// SeedURL is the URL the crawl starts from. The target host is derived
	// from it: only URLs whose authority matches the seed's exactly are
	// fetched.
	SeedURL string

	// MaxWorkers is the number of concurrent fetch workers, which is also
	// the batch size drawn from the frontier.
	MaxWorkers int

	// Delay is the politeness delay slept after each batch completes.
	Delay time.Duration

	// Timeout is the HTTP timeout applied to each individual request.
	Timeout time.Duration

	// CheckpointInterval is the number of accumulated pages between
	// checkpoint snapshots. Every time the result count crosses a multiple
	// of this value, a snapshot is written.
	CheckpointInterval int

	// OutputDir is the directory for checkpoint files, the final dataset,
	// and the spreadsheet export. Created if absent.
	OutputDir string

	// ExcludedExtensions are path suffixes that are never fetched.
	// Compared case-insensitively against the URL path.
	ExcludedExtensions []string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .siteharvest in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// HostConfigs holds per-host configurations loaded from the config file.
	HostConfigs *File

	// DBDir is the directory for the SQLite crawl-history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether fetched pages are recorded in the
	// crawl-history database. Recording is best-effort and never aborts
	// the crawl.
	SaveToDB bool

	// MarkdownReportFile, when set, is the path the Markdown crawl summary
	// is written to after completion.
	MarkdownReportFile string
}

// NewConfig creates a new Config with default values.
// Callers override specific fields after creation, typically from CLI flags.
func NewConfig() *Config {
	return &Config{
		MaxWorkers:         DefaultMaxWorkers,
		Delay:              DefaultDelay,
		Timeout:            DefaultTimeout,
		CheckpointInterval: DefaultCheckpointInterval,
		OutputDir:          DefaultOutputDir,
		ExcludedExtensions: DefaultExcludedExtensions(),
		UserAgent:          DefaultUserAgent,
		MaxBodySize:        DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for siteharvest.
// On Linux: ~/.local/share/siteharvest
// On macOS: ~/Library/Application Support/siteharvest
// On Windows: %LOCALAPPDATA%\siteharvest
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for siteharvest.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// TargetHost returns the authority of the seed URL, which is the crawl's
// domain boundary. Returns an error if the seed URL is unparseable or has
// no host component.
func (c *Config) TargetHost() (string, error) {
	u, err := url.Parse(c.SeedURL)
	if err != nil {
		return "", ErrInvalidSeedURL
	}
	if u.Host == "" {
		return "", ErrInvalidSeedURL
	}
	return u.Host, nil
}

// Validate checks if the configuration is valid.
// It returns the first error found; fixing one error often makes others
// irrelevant.
func (c *Config) Validate() error {
	if c.SeedURL == "" {
		return ErrNoSeedURL
	}

	u, err := url.Parse(c.SeedURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidSeedURL
	}

	// Zero workers would mean no fetching at all
	if c.MaxWorkers <= 0 {
		return ErrInvalidWorkerCount
	}

	// Negative delay is invalid; use 0 for no delay between batches
	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	// Zero timeout would cause immediate request failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.CheckpointInterval <= 0 {
		return ErrInvalidCheckpointInterval
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
