// Package crawler implements the concurrent crawl engine at the heart of
// mailspider: URL normalization, the thread-safe frontier, the HTTP fetcher,
// HTML link and email extraction, domain classification, and the worker-pool
// engine that ties them together under a run-level timeout.
//
// The engine is built around two pieces of shared mutable state: the
// frontier's visited set and the run's found-email set. All mutation goes
// through their atomic entry points; workers never touch each other's state.
package crawler
