// Package main provides the entry point for the mailspider CLI.
//
// Mailspider crawls a website from a seed URL, follows links to a bounded
// depth, and harvests email addresses from page content.
//
// Usage:
//
//	mailspider example.com
//	mailspider -d 3 -t 8 --strict https://example.com
//
// See --help for all available options.
package main

// main is the entry point for mailspider.
func main() {
	Execute()
}
