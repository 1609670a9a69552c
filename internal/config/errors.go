package config

import "errors"

// Configuration validation errors, returned by Config.Validate.
// They are package-level sentinels so that the CLI layer can use
// errors.Is while still printing a human-readable message.
var (
	// ErrNoSeedURL is returned when no seed URL was given.
	ErrNoSeedURL = errors.New("no seed URL specified: provide a target URL as an argument")

	// ErrInvalidDepth is returned when the crawl depth is negative.
	ErrInvalidDepth = errors.New("invalid depth: must be >= 0")

	// ErrInvalidWorkerCount is returned when the worker count is below one.
	ErrInvalidWorkerCount = errors.New("invalid thread count: must be >= 1")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	// Zero disables the cap.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body-size cap is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is below one.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be >= 1")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are requested. Only one report format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
