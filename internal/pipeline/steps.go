package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mailspider/mailspider/internal/crawler"
	"github.com/mailspider/mailspider/internal/database"
	"github.com/mailspider/mailspider/internal/model"
)

// CrawlStep runs the crawl engine for the report's seed. It is the only
// step that can fail the run, and only for an unusable seed URL.
type CrawlStep struct {
	engine *crawler.Engine
}

// NewCrawlStep creates a CrawlStep around the given engine.
func NewCrawlStep(engine *crawler.Engine) *CrawlStep {
	return &CrawlStep{engine: engine}
}

// Name returns the step's name.
func (s *CrawlStep) Name() string { return "crawl" }

// Do executes the crawl and fills in the report.
func (s *CrawlStep) Do(ctx context.Context, report *model.RunReport) error {
	return s.engine.Run(ctx, report)
}

// SaveStep persists the finished run to the history database. With a nil
// database (history disabled), it is a no-op.
type SaveStep struct {
	db     *database.HistoryDB
	logger *slog.Logger
}

// NewSaveStep creates a SaveStep writing to db, which may be nil.
func NewSaveStep(db *database.HistoryDB, logger *slog.Logger) *SaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveStep{db: db, logger: logger}
}

// Name returns the step's name.
func (s *SaveStep) Name() string { return "save" }

// Do writes the run and its email records to the history database.
func (s *SaveStep) Do(ctx context.Context, report *model.RunReport) error {
	if s.db == nil {
		return nil
	}

	runID, err := s.db.SaveRun(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	s.logger.Debug("run saved to history",
		"runID", runID,
		"domain", report.Domain,
		"emails", len(report.Emails),
	)
	return nil
}
