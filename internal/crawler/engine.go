package crawler

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mailspider/mailspider/internal/model"
)

// EmailHandler receives each newly confirmed email record as soon as it is
// inserted into the run's found set, for real-time reporting. Handlers are
// called from worker goroutines; emission order across workers is not the
// discovery order, and callers must treat the stream as an unordered set.
type EmailHandler func(model.EmailRecord)

// Engine is the run controller and worker pool: it owns the run timeout,
// seeds the frontier, drains it with a fixed number of workers, and
// aggregates the found-email set. An Engine is stateless between runs and
// safe to reuse for multiple seeds.
type Engine struct {
	fetcher   Fetcher
	extractor Extractor

	maxDepth       int
	workers        int
	maxPages       int
	runTimeout     time.Duration
	fetchTimeout   time.Duration
	ignorePatterns []string
	strict         bool

	logger  *slog.Logger
	onEmail EmailHandler
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth bounds the crawl at the given number of link-hops from the
// seed. 0 fetches only the seed page.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithWorkers sets the fixed number of concurrent workers.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithMaxPages caps the number of successfully fetched pages; reaching the
// cap closes the frontier. 0 means no cap.
func WithMaxPages(n int) Option {
	return func(e *Engine) {
		e.maxPages = n
	}
}

// WithRunTimeout sets the overall run deadline. When it fires, the
// frontier closes and the run terminates with StatusTimedOut; whatever
// was gathered so far is the result.
func WithRunTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.runTimeout = d
	}
}

// WithFetchTimeout sets the per-request deadline. It is derived from the
// run context, so a fetch never gets more time than the run has left.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.fetchTimeout = d
	}
}

// WithIgnorePatterns sets glob patterns matched against URL paths;
// matching links are never enqueued.
func WithIgnorePatterns(patterns []string) Option {
	return func(e *Engine) {
		e.ignorePatterns = patterns
	}
}

// WithStrict records strict mode on the run report. Strict mode only
// affects presentation; the engine itself always collects both matching
// and non-matching addresses.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithLogger sets the structured logger used for skip/failure logging.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEmailHandler registers a handler for real-time email emission.
func WithEmailHandler(h EmailHandler) Option {
	return func(e *Engine) {
		e.onEmail = h
	}
}

// New creates an Engine with the given fetcher and extractor.
// Defaults: depth 2, 4 workers, 60s run timeout, 10s fetch timeout, no
// page cap.
func New(fetcher Fetcher, extractor Extractor, opts ...Option) *Engine {
	e := &Engine{
		fetcher:      fetcher,
		extractor:    extractor,
		maxDepth:     2,
		workers:      4,
		runTimeout:   60 * time.Second,
		fetchTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// run holds the mutable state of a single crawl. The frontier's visited
// set and the emails map are the only state shared between workers, and
// both are mutated only through their locked entry points.
type run struct {
	frontier     *Frontier
	classifier   *Classifier
	seedInferred bool

	mu       sync.Mutex
	emails   map[string]model.EmailRecord
	pages    int
	failures int
}

// Run executes one crawl for report.Seed and fills in the report.
// It returns an error only when the seed URL itself is unusable; every
// failure after the crawl starts degrades the result instead of aborting.
//
// The run terminates when the frontier drains (StatusCompleted), the run
// timeout fires (StatusTimedOut), or the parent context is cancelled
// (StatusCancelled). All three yield the accumulated email set.
func (e *Engine) Run(ctx context.Context, report *model.RunReport) error {
	seedURL, err := Normalize(report.Seed)
	if err != nil {
		return err
	}

	classifier, err := NewClassifier(seedURL)
	if err != nil {
		return err
	}

	report.SeedURL = seedURL
	report.Domain = classifier.Domain()
	report.Strict = e.strict
	report.StartedAt = time.Now()

	r := &run{
		frontier:     NewFrontier(),
		classifier:   classifier,
		seedInferred: !HasScheme(report.Seed),
		emails:       make(map[string]model.EmailRecord),
	}
	r.frontier.TryEnqueue(Target{URL: seedURL, Depth: 0})

	runCtx, cancel := context.WithTimeout(ctx, e.runTimeout)
	defer cancel()

	// The timeout (or an interrupt) closes the frontier so that no new
	// Dequeue returns work. In-flight fetches are bounded by their own
	// context deadline, so the WaitGroup below cannot block forever.
	go func() {
		<-runCtx.Done()
		r.frontier.Close()
	}()

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.worker(runCtx, r)
		}()
	}
	wg.Wait()
	cancel()

	switch {
	case ctx.Err() != nil:
		report.Status = model.StatusCancelled
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		report.Status = model.StatusTimedOut
	default:
		report.Status = model.StatusCompleted
	}

	r.mu.Lock()
	report.PagesFetched = r.pages
	report.FailedFetches = r.failures
	report.Emails = make([]model.EmailRecord, 0, len(r.emails))
	for _, rec := range r.emails {
		report.Emails = append(report.Emails, rec)
	}
	r.mu.Unlock()
	report.UniqueURLs = r.frontier.VisitedCount()
	report.SortEmails()
	report.Elapsed = time.Since(report.StartedAt)

	return nil
}

// worker is the loop each of the W workers runs until the frontier is
// closed and drained.
func (e *Engine) worker(ctx context.Context, r *run) {
	for {
		// Decline re-entry once the run is cancelled, even if targets
		// are still queued.
		select {
		case <-ctx.Done():
			return
		default:
		}

		target, ok := r.frontier.Dequeue()
		if !ok {
			return
		}

		e.process(ctx, r, target)
		r.frontier.Done()
	}
}

// process handles one dequeued target: fetch, extract, classify, enqueue.
func (e *Engine) process(ctx context.Context, r *run, target Target) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	page, err := e.fetcher.Fetch(fetchCtx, target.URL)
	cancel()

	if err != nil {
		e.recordFailure(r, target, err)
		return
	}

	r.mu.Lock()
	r.pages++
	capped := e.maxPages > 0 && r.pages >= e.maxPages
	r.mu.Unlock()

	e.collectEmails(r, page, target.URL)

	if capped {
		e.logger.Debug("page cap reached, closing frontier", "maxPages", e.maxPages)
		r.frontier.Close()
		return
	}

	if target.Depth < e.maxDepth {
		e.enqueueLinks(r, page, target.Depth+1)
	}
}

// recordFailure logs a skipped target and, for a seed whose https scheme
// was inferred, arms the one-shot http fallback. The fallback is an
// ordinary fetch: it goes through the frontier and consumes run time.
func (e *Engine) recordFailure(r *run, target Target, err error) {
	r.mu.Lock()
	r.failures++
	r.mu.Unlock()

	e.logger.Debug("fetch failed, skipping", "url", target.URL, "error", err)

	var fetchErr *FetchError
	if target.Depth == 0 && r.seedInferred &&
		strings.HasPrefix(target.URL, "https://") &&
		errors.As(err, &fetchErr) && fetchErr.Retryable() {
		fallback := SwapToHTTP(target.URL)
		if r.frontier.TryEnqueue(Target{URL: fallback, Depth: 0}) {
			e.logger.Debug("retrying seed over http", "url", fallback)
		}
	}
}

// collectEmails extracts, classifies, and stores the page's addresses,
// emitting each first-seen record through the email handler.
func (e *Engine) collectEmails(r *run, page *Page, sourceURL string) {
	for _, addr := range e.extractor.ExtractEmails(page) {
		rec := model.EmailRecord{
			Address:     addr,
			SourceURL:   sourceURL,
			DomainMatch: r.classifier.IsMatch(addr),
		}

		r.mu.Lock()
		_, dup := r.emails[addr]
		if !dup {
			r.emails[addr] = rec
		}
		r.mu.Unlock()

		// Emit outside the lock: the handler may write to a terminal.
		if !dup && e.onEmail != nil {
			e.onEmail(rec)
		}
	}
}

// enqueueLinks normalizes the page's outbound links and offers them to
// the frontier at the given depth. Malformed and ignored links are
// dropped silently.
func (e *Engine) enqueueLinks(r *run, page *Page, depth int) {
	for _, link := range e.extractor.ExtractLinks(page) {
		normalized, err := Normalize(link)
		if err != nil {
			continue
		}
		if e.ignored(normalized) {
			continue
		}
		r.frontier.TryEnqueue(Target{URL: normalized, Depth: depth})
	}
}

// ignored reports whether the URL's path matches any ignore pattern.
func (e *Engine) ignored(rawURL string) bool {
	if len(e.ignorePatterns) == 0 {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range e.ignorePatterns {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchPattern checks a URL path against a glob pattern. Besides standard
// filepath.Match globs, "/prefix/*" matches the whole subtree and "*.ext"
// matches the path's filename.
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}

	return false
}
