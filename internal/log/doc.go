// Package log provides the slog handler used by mailspider. The handler
// masks email addresses appearing in log attributes: harvested addresses
// are results and belong on stdout, not in diagnostic logs that end up in
// shell histories and shared terminal scrollback.
package log
