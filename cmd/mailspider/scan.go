package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/mailspider/mailspider/internal/config"
	"github.com/mailspider/mailspider/internal/crawler"
	"github.com/mailspider/mailspider/internal/database"
	"github.com/mailspider/mailspider/internal/log"
	"github.com/mailspider/mailspider/internal/model"
	"github.com/mailspider/mailspider/internal/pipeline"
	"github.com/mailspider/mailspider/internal/report"
	"github.com/spf13/cobra"
)

// addScanFlags registers the crawl flags on the root command.
func addScanFlags(cmd *cobra.Command) {
	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultDepth,
		"Maximum link-hops from the seed URL (0 fetches only the seed page)")
	cmd.Flags().IntP("threads", "t", config.DefaultWorkers,
		"Number of concurrent crawl workers")
	cmd.Flags().Int("timeout", int(config.DefaultTimeout/time.Second),
		"Overall run budget in seconds; partial results are reported on expiry")
	cmd.Flags().Duration("fetch-timeout", config.DefaultFetchTimeout,
		"Deadline for each individual page fetch")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to fetch per run (0 = unlimited)")
	cmd.Flags().BoolP("strict", "s", false,
		"Only report addresses whose domain matches the seed's registered domain")
	cmd.Flags().StringSlice("ignore", nil,
		"URL path glob that is never crawled (repeatable, e.g. --ignore '*.pdf')")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Batch crawling flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of seeds crawled concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .mailspider in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Output and persistence flags
	cmd.Flags().Bool("no-color", false,
		"Disable colored output")
	cmd.Flags().Bool("no-save", false,
		"Do not record the run in the history database")
}

// runScanCmd executes the crawl for the positional seed URLs.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if cfg.NoColor {
		color.NoColor = true
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

	return runScan(ctx, cfg, flagsChanged(cmd), logger)
}

// explicitFlags records which crawl flags the user set on the command
// line. An explicit flag beats a config-file override for the same
// setting; an untouched flag yields to it.
type explicitFlags struct {
	depth     bool
	threads   bool
	strict    bool
	userAgent bool
	ignore    bool
}

func flagsChanged(cmd *cobra.Command) explicitFlags {
	return explicitFlags{
		depth:     cmd.Flags().Changed("depth"),
		threads:   cmd.Flags().Changed("threads"),
		strict:    cmd.Flags().Changed("strict"),
		userAgent: cmd.Flags().Changed("user-agent"),
		ignore:    cmd.Flags().Changed("ignore"),
	}
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Depth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("threads")
	if err != nil {
		return nil, err
	}

	timeoutSecs, err := cmd.Flags().GetInt("timeout")
	if err != nil {
		return nil, err
	}
	cfg.Timeout = time.Duration(timeoutSecs) * time.Second

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("fetch-timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Strict, err = cmd.Flags().GetBool("strict")
	if err != nil {
		return nil, err
	}

	cfg.IgnorePatterns, err = cmd.Flags().GetStringSlice("ignore")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-site configuration from the config file.
	// If the user explicitly specified a path, error if it is missing.
	// Otherwise silently run with an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Sites, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Sites = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.NoColor, err = cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	cfg.NoSave, err = cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are the seed URLs
	cfg.Seeds = args

	return cfg, nil
}

// runScan executes the crawl for every seed in the configuration.
func runScan(ctx context.Context, cfg *config.Config, explicit explicitFlags, logger *slog.Logger) error {
	// Reject unparseable seeds before any crawling begins. A seed that
	// fails here is the only per-seed fatal error; everything after this
	// point terminates with a status, not an error.
	for _, seed := range cfg.Seeds {
		if _, err := crawler.Normalize(seed); err != nil {
			return fmt.Errorf("invalid seed URL %q: %w", seed, err)
		}
	}

	logger.Info("starting crawl",
		"seeds", cfg.Seeds,
		"depth", cfg.Depth,
		"threads", cfg.Workers,
		"timeout", cfg.Timeout,
		"batchSize", cfg.BatchSize,
	)

	// Open the history database unless persistence is disabled
	var db *database.HistoryDB
	if !cfg.NoSave {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	printer := newEmailPrinter(cfg.Strict)

	if len(cfg.Seeds) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cfg, explicit, db, printer, logger)
	}
	return runSequentialScan(ctx, cfg, explicit, db, printer, logger)
}

// runSequentialScan crawls seeds one at a time.
func runSequentialScan(ctx context.Context, cfg *config.Config, explicit explicitFlags, db *database.HistoryDB, printer *emailPrinter, logger *slog.Logger) error {
	for _, seed := range cfg.Seeds {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		p := createPipelineForSeed(seed, cfg, explicit, db, printer, logger)
		runReport := model.NewRunReport(seed)

		fmt.Fprintf(os.Stderr, "Crawling %s...\n", seed)
		startTime := time.Now()

		if err := p.Execute(ctx, runReport); err != nil {
			// An interrupt between the crawl and save steps still has
			// partial results worth showing; everything else is a real
			// per-seed failure.
			if errors.Is(err, context.Canceled) {
				if err := outputReport(cfg, runReport); err != nil {
					logger.Error("report failed", "seed", seed, "error", err)
				}
				return nil
			}
			logger.Error("crawl failed", "seed", seed, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", seed, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Fprintf(os.Stderr, "Crawl %s in %s\n\n",
			statusVerb(runReport.Status), elapsed.Round(time.Millisecond))

		if err := outputReport(cfg, runReport); err != nil {
			logger.Error("report failed", "seed", seed, "error", err)
		}
	}

	return nil
}

// runBatchScan crawls multiple seeds concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, explicit explicitFlags, db *database.HistoryDB, printer *emailPrinter, logger *slog.Logger) error {
	fmt.Fprintf(os.Stderr, "Starting batch crawl of %d seeds (concurrency: %d)...\n\n",
		len(cfg.Seeds), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func(seed string) *pipeline.Pipeline {
			return createPipelineForSeed(seed, cfg, explicit, db, printer, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Reports finish out of order; serialize the output
	var mu sync.Mutex
	err := bp.Process(ctx, cfg.Seeds, func(runReport *model.RunReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Fprintf(os.Stderr, "[%d/%d] Crawl %s: %s\n",
			index+1, len(cfg.Seeds), statusVerb(runReport.Status), runReport.Seed)

		if err := outputReport(cfg, runReport); err != nil {
			logger.Error("report failed", "seed", runReport.Seed, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "\nBatch crawl finished in %s\n", elapsed.Round(time.Millisecond))

	// An interrupt is a partial result, not a failure
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// createPipelineForSeed builds the crawl pipeline for one seed, with
// config-file overrides for the seed's registered domain applied under
// any explicit command-line flags.
func createPipelineForSeed(seed string, cfg *config.Config, explicit explicitFlags, db *database.HistoryDB, printer *emailPrinter, logger *slog.Logger) *pipeline.Pipeline {
	depth := cfg.Depth
	workers := cfg.Workers
	strict := cfg.Strict
	userAgent := cfg.UserAgent
	ignorePatterns := cfg.IgnorePatterns

	if site, ok := siteConfigForSeed(seed, cfg); ok {
		if site.Depth > 0 && !explicit.depth {
			depth = site.Depth
		}
		if site.Workers > 0 && !explicit.threads {
			workers = site.Workers
		}
		if site.Strict != nil && !explicit.strict {
			strict = *site.Strict
		}
		if site.UserAgent != "" && !explicit.userAgent {
			userAgent = site.UserAgent
		}
		if len(site.IgnorePatterns) > 0 && !explicit.ignore {
			ignorePatterns = site.IgnorePatterns
		}
	}

	fetcher := crawler.NewHTTPFetcher(
		crawler.WithUserAgent(userAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	engine := crawler.New(fetcher, crawler.NewHTMLExtractor(),
		crawler.WithMaxDepth(depth),
		crawler.WithWorkers(workers),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithRunTimeout(cfg.Timeout),
		crawler.WithFetchTimeout(cfg.FetchTimeout),
		crawler.WithIgnorePatterns(ignorePatterns),
		crawler.WithStrict(strict),
		crawler.WithLogger(logger),
		crawler.WithEmailHandler(printer.print),
	)

	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddSteps(
		pipeline.NewCrawlStep(engine),
		pipeline.NewSaveStep(db, logger),
	)
	return p
}

// siteConfigForSeed looks up the config-file overrides for the seed's
// registered domain.
func siteConfigForSeed(seed string, cfg *config.Config) (config.SiteConfig, bool) {
	if cfg.Sites == nil {
		return config.SiteConfig{}, false
	}

	normalized, err := crawler.Normalize(seed)
	if err != nil {
		return cfg.Sites.Defaults, true
	}
	classifier, err := crawler.NewClassifier(normalized)
	if err != nil {
		return cfg.Sites.Defaults, true
	}
	return cfg.Sites.GetSiteConfig(classifier.Domain()), true
}

// emailPrinter streams discovered addresses to stdout as they are
// found. Matching addresses print green; the rest print plain, unless
// strict mode suppresses them entirely.
type emailPrinter struct {
	mu     sync.Mutex
	strict bool
	green  *color.Color
}

func newEmailPrinter(strict bool) *emailPrinter {
	return &emailPrinter{
		strict: strict,
		green:  color.New(color.FgGreen),
	}
}

func (p *emailPrinter) print(record model.EmailRecord) {
	if p.strict && !record.DomainMatch {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if record.DomainMatch {
		p.green.Fprintln(os.Stdout, record.Address)
		return
	}
	fmt.Fprintln(os.Stdout, record.Address)
}

// statusVerb renders a run status as a past-tense verb for progress
// lines.
func statusVerb(status model.RunStatus) string {
	switch status {
	case model.StatusTimedOut:
		return "timed out"
	case model.StatusCancelled:
		return "interrupted"
	default:
		return "completed"
	}
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, runReport *model.RunReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Harvested addresses are personal data; keep the file
		// owner-readable only
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	if cfg.JSONReport {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.Write(runReport)
		return err
	}

	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(runReport)
		return err
	}

	// Alone on stdout, the streamed addresses already are the report;
	// the summary goes to stderr unless a file or format was requested.
	if cfg.ReportFile == "" {
		output = os.Stderr
	}
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(runReport)
	return err
}
