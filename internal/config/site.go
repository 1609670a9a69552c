package config

// SiteConfig holds per-domain overrides for crawl behavior. Zero values
// mean "inherit"; booleans use pointers for the same reason.
type SiteConfig struct {
	// Depth overrides the crawl depth for this domain.
	Depth int `yaml:"depth,omitempty"`

	// Workers overrides the worker count for this domain.
	Workers int `yaml:"workers,omitempty"`

	// Strict overrides strict mode for this domain.
	Strict *bool `yaml:"strict,omitempty"`

	// UserAgent overrides the User-Agent header for this domain.
	UserAgent string `yaml:"userAgent,omitempty"`

	// IgnorePatterns are URL path globs that are never crawled on this
	// domain (e.g. "/logout*", "*.pdf").
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`
}

// File represents the structure of the .mailspider configuration file.
type File struct {
	// Defaults apply to every crawled domain unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps registered domains (e.g. "example.com") to their
	// overrides.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// GetSiteConfig returns the effective configuration for a registered
// domain: the defaults with the domain's overrides applied on top.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	result := cf.Defaults

	site, ok := cf.Sites[domain]
	if !ok {
		return result
	}

	if site.Depth != 0 {
		result.Depth = site.Depth
	}
	if site.Workers != 0 {
		result.Workers = site.Workers
	}
	if site.Strict != nil {
		result.Strict = site.Strict
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if len(site.IgnorePatterns) > 0 {
		result.IgnorePatterns = site.IgnorePatterns
	}

	return result
}
