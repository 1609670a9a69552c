// Package database provides the SQLite-backed run history: every crawl
// run and its discovered email records are stored so past results can be
// listed and re-read without crawling again. The history records results
// only; frontier state is never persisted.
package database
