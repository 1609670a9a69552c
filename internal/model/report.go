package model

import (
	"sort"
	"time"
)

// RunStatus describes how a crawl run terminated.
type RunStatus string

const (
	// StatusCompleted means the frontier drained before the run timeout fired.
	StatusCompleted RunStatus = "completed"

	// StatusTimedOut means the run timeout fired first. This is an expected
	// early-termination mode, not an error; the report carries whatever
	// results were gathered before the deadline.
	StatusTimedOut RunStatus = "timed_out"

	// StatusCancelled means the run was interrupted (e.g. SIGINT) before
	// either the frontier drained or the timeout fired.
	StatusCancelled RunStatus = "cancelled"
)

// RunReport aggregates the results of one crawl run for a single seed URL.
// It is created before the crawl starts, populated by the crawl engine, and
// then handed to the report writers and the history database.
type RunReport struct {
	// Seed is the seed URL exactly as the user provided it.
	Seed string `json:"seed"`

	// SeedURL is the normalized form of Seed that was actually fetched first.
	SeedURL string `json:"seed_url"`

	// Domain is the registered domain of the seed URL, used for
	// classification (e.g. "example.com" for "https://www.example.com/a").
	Domain string `json:"domain"`

	// Status records which terminal state the run reached.
	Status RunStatus `json:"status"`

	// Strict reports whether strict mode was enabled for the run.
	// Strict mode is a presentation filter: Emails always holds both
	// matching and non-matching records, and writers apply the filter.
	Strict bool `json:"strict"`

	// PagesFetched is the number of pages successfully fetched.
	PagesFetched int `json:"pages_fetched"`

	// FailedFetches is the number of fetch attempts that failed and were
	// skipped. Fetch failures never fail the run.
	FailedFetches int `json:"failed_fetches"`

	// UniqueURLs is the number of distinct normalized URLs ever enqueued,
	// including the seed. No URL is fetched twice within a run.
	UniqueURLs int `json:"unique_urls"`

	// Emails holds every deduplicated record discovered during the run,
	// sorted by address. Emission order during the run is unspecified;
	// only the final set is meaningful.
	Emails []EmailRecord `json:"emails"`

	// StartedAt is when the run entered the Running state.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// NewRunReport creates a RunReport for the given seed in its initial state.
func NewRunReport(seed string) *RunReport {
	return &RunReport{
		Seed:      seed,
		StartedAt: time.Now(),
		Emails:    make([]EmailRecord, 0),
	}
}

// SortEmails orders the accumulated records by address. The crawl engine
// calls this once on completion so that report output is deterministic
// regardless of worker scheduling.
func (r *RunReport) SortEmails() {
	sort.Slice(r.Emails, func(i, j int) bool {
		return r.Emails[i].Address < r.Emails[j].Address
	})
}

// MatchingEmails returns the records whose domain matches the seed domain.
func (r *RunReport) MatchingEmails() []EmailRecord {
	out := make([]EmailRecord, 0, len(r.Emails))
	for _, e := range r.Emails {
		if e.DomainMatch {
			out = append(out, e)
		}
	}
	return out
}

// ExternalEmails returns the records whose domain does not match the seed
// domain.
func (r *RunReport) ExternalEmails() []EmailRecord {
	out := make([]EmailRecord, 0, len(r.Emails))
	for _, e := range r.Emails {
		if !e.DomainMatch {
			out = append(out, e)
		}
	}
	return out
}

// FilteredEmails returns the records a writer should present: all of them,
// or only the domain matches when strict mode is enabled. The underlying
// Emails slice is never modified, which keeps strict mode a pure post-filter.
func (r *RunReport) FilteredEmails() []EmailRecord {
	if !r.Strict {
		return r.Emails
	}
	return r.MatchingEmails()
}
