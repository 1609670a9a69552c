package model

// EmailRecord is a single email address discovered during a crawl.
// Records are deduplicated by address across the whole run: the same
// address found on several pages produces exactly one record, attributed
// to the page it was first seen on.
type EmailRecord struct {
	// Address is the sanitized, lowercased email address.
	Address string `json:"address"`

	// SourceURL is the URL of the page the address was first found on.
	SourceURL string `json:"source_url"`

	// DomainMatch reports whether the address belongs to the registered
	// domain of the seed URL. Classification is a pure function of the
	// address and the seed domain, so the value is stable across runs.
	DomainMatch bool `json:"domain_match"`
}
