// Package model defines the data structures shared across mailspider:
// discovered email records and per-run crawl reports.
//
// These types are deliberately free of behavior beyond simple accessors
// so they can be passed between the crawler, the report writers, and the
// history database without import cycles.
package model
