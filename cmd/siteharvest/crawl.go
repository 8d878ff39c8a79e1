package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harvestly/siteharvest/internal/checkpoint"
	"github.com/harvestly/siteharvest/internal/config"
	"github.com/harvestly/siteharvest/internal/engine"
	"github.com/harvestly/siteharvest/internal/extractor"
	"github.com/harvestly/siteharvest/internal/fetcher"
	"github.com/harvestly/siteharvest/internal/frontier"
	"github.com/harvestly/siteharvest/internal/log"
	"github.com/harvestly/siteharvest/internal/report"
	"github.com/harvestly/siteharvest/internal/store"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <seed-url>",
		Short: "Crawl a website starting from the seed URL",
		Long: `Crawl fetches every reachable page on the seed URL's host and extracts
structured content from each one.

Only URLs whose authority matches the seed's exactly are followed, so
subdomains and external sites are never touched. URLs pointing at binary
assets (.pdf, images, archives) are skipped by extension.

Pages are fetched in batches of --workers concurrent requests, with the
full --delay slept after every batch. The accumulated dataset is written
to --output as a checkpoint each time the page count crosses a multiple
of --checkpoint-interval, and the complete dataset plus a spreadsheet
summary are written when the site is exhausted.

Examples:
  # Crawl a site with the defaults (3 workers, 2s delay)
  siteharvest crawl https://example.com

  # Faster crawl with a larger worker pool and shorter delay
  siteharvest crawl --workers 8 --delay 500ms https://example.com

  # Checkpoint every 25 pages into a custom directory
  siteharvest crawl --checkpoint-interval 25 --output data https://example.com

  # Write a Markdown run report alongside the dataset
  siteharvest crawl --markdown-report report.md https://example.com

Configuration file (.siteharvest) example:
  defaults:
    delay: 1s
  hosts:
    www.example.com:
      workers: 5
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("workers", "w", config.DefaultMaxWorkers,
		"Number of concurrent fetch workers (also the batch size)")
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Delay slept after each batch of fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each request")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().StringSlice("exclude-ext", config.DefaultExcludedExtensions(),
		"Path extensions that are never fetched")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory for checkpoints, the final dataset, and the spreadsheet")
	cmd.Flags().IntP("checkpoint-interval", "i", config.DefaultCheckpointInterval,
		"Number of pages between checkpoint snapshots")
	cmd.Flags().StringP("markdown-report", "m", "",
		"Write a Markdown run report to the specified file path")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .siteharvest in current or home directory)")

	// History database
	cmd.Flags().Bool("no-db", false,
		"Disable recording fetched pages in the crawl-history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.SeedURL = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.MaxWorkers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.ExcludedExtensions, err = cmd.Flags().GetStringSlice("exclude-ext")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.CheckpointInterval, err = cmd.Flags().GetInt("checkpoint-interval")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReportFile, err = cmd.Flags().GetString("markdown-report")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	// Load host-specific configurations from the config file.
	// An explicitly specified path must exist; the default search is
	// allowed to come up empty.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.HostConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.HostConfigs = &config.File{
			Hosts: make(map[string]config.HostConfig),
		}
	}

	return cfg, nil
}

// runCrawl wires the crawl components together and executes the run.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	host, err := cfg.TargetHost()
	if err != nil {
		return err
	}

	// Overlay host-specific settings from the config file. Explicit
	// flags were already folded into cfg, so only file overrides apply.
	hostConfig := cfg.HostConfigs.GetHostConfig(host)
	hostConfig.Apply(cfg)

	logger.Info("starting crawl",
		"seed", cfg.SeedURL,
		"host", host,
		"workers", cfg.MaxWorkers,
		"delay", cfg.Delay,
		"checkpointInterval", cfg.CheckpointInterval,
	)

	cp, err := checkpoint.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	fetchOpts := []fetcher.Option{
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
	}
	if len(hostConfig.Headers) > 0 {
		fetchOpts = append(fetchOpts, fetcher.WithHeaders(hostConfig.Headers))
	}

	engineOpts := []engine.Option{
		engine.WithMaxWorkers(cfg.MaxWorkers),
		engine.WithDelay(cfg.Delay),
		engine.WithCheckpointInterval(cfg.CheckpointInterval),
		engine.WithLogger(logger),
		engine.WithProgressWriter(os.Stdout),
	}

	// Open the crawl-history database if recording is enabled. Failure
	// to open is not fatal; the crawl runs without history.
	if cfg.SaveToDB {
		db, err := store.OpenDB(cfg.DBDir, store.DefaultOptions())
		if err != nil {
			logger.Warn("failed to open crawl-history database", "dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close()
			logger.Info("crawl-history database opened", "dir", cfg.DBDir)
			engineOpts = append(engineOpts, engine.WithHistory(db))
		}
	}

	eng := engine.New(
		cfg.SeedURL,
		frontier.New(host, cfg.ExcludedExtensions),
		fetcher.New(cfg.Timeout, fetchOpts...),
		extractor.New(),
		store.NewMemoryStore(),
		cp,
		engineOpts...,
	)

	summary, runErr := eng.Run(ctx)

	if err := outputReport(cfg, summary, logger); err != nil {
		logger.Error("report failed", "error", err)
	}

	return runErr
}

// outputReport writes the run summary to stdout and, when configured,
// as a Markdown file.
func outputReport(cfg *config.Config, summary *report.Summary, logger *slog.Logger) error {
	writers := []report.Writer{
		report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose)),
	}

	if cfg.MarkdownReportFile != "" {
		dir := filepath.Dir(cfg.MarkdownReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.MarkdownReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()

		writers = append(writers, report.NewMarkdownWriter(f))
		logger.Info("writing Markdown report", "path", cfg.MarkdownReportFile)
	}

	_, err := report.NewMultiWriter(writers...).Write(summary)
	return err
}
