package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Classifier decides whether a discovered address belongs to the crawl's
// seed domain. Classification is a pure function of the address and the
// seed domain: the same address always yields the same answer within a
// run and across runs.
type Classifier struct {
	// domain is the lowercased registered domain of the seed URL.
	domain string
}

// NewClassifier derives the registered domain from a normalized seed URL.
// A leading "www." is stripped and, where the public-suffix list applies,
// the host is reduced to its eTLD+1 so that "mail.example.co.uk" and
// "www.example.co.uk" classify identically. Hosts the list cannot handle
// (IP addresses, single-label hosts) are used as-is.
func NewClassifier(seedURL string) (*Classifier, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, fmt.Errorf("classifier: no host in %q", seedURL)
	}
	host = strings.TrimPrefix(host, "www.")

	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		host = etld1
	}

	return &Classifier{domain: host}, nil
}

// Domain returns the registered domain used for classification.
func (c *Classifier) Domain() string {
	return c.domain
}

// IsMatch reports whether the address's domain part equals the seed's
// registered domain or is a subdomain of it, case-insensitively.
func (c *Classifier) IsMatch(address string) bool {
	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return false
	}

	domain := strings.ToLower(address[at+1:])
	return domain == c.domain || strings.HasSuffix(domain, "."+c.domain)
}
