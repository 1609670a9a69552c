package crawler

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Extractor is the abstract capability of pulling outbound links and
// candidate email addresses out of page content. Both methods are total:
// they return empty slices on malformed or non-HTML content, never an
// error.
type Extractor interface {
	// ExtractLinks returns the absolute HTTP(S) URLs linked from the page,
	// resolved against the page's own URL and deduplicated.
	ExtractLinks(page *Page) []string

	// ExtractEmails returns the sanitized, validated email addresses found
	// in the page content, deduplicated and lowercased.
	ExtractEmails(page *Page) []string
}

// HTMLExtractor extracts links by walking the parsed DOM and emails by
// running the address regex over the raw page text.
//
// Links come from the DOM because href resolution needs proper parsing of
// malformed real-world HTML. Emails come from the raw text because
// addresses appear in attributes (mailto:), comments, and scripts as well
// as in visible text.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTMLExtractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// ExtractLinks parses the page body as HTML and collects anchor targets.
// Non-HTML pages and unparseable content yield an empty slice.
func (x *HTMLExtractor) ExtractLinks(page *Page) []string {
	if !strings.Contains(page.ContentType, "text/html") {
		return nil
	}

	base, err := url.Parse(page.URL)
	if err != nil {
		return nil
	}

	doc, err := html.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	links := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				if resolved := resolveLink(base, href); resolved != "" && !seen[resolved] {
					seen[resolved] = true
					links = append(links, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// ExtractEmails scans the raw page content for email addresses and runs
// each candidate through the sanitation pipeline. The scan is independent
// of content type: addresses hide in JSON payloads and scripts too.
func (x *HTMLExtractor) ExtractEmails(page *Page) []string {
	matches := emailRegex.FindAllString(string(page.Body), -1)

	seen := make(map[string]bool)
	emails := make([]string, 0)
	for _, m := range matches {
		addr, ok := SanitizeEmail(m)
		if !ok || seen[addr] {
			continue
		}
		seen[addr] = true
		emails = append(emails, addr)
	}

	return emails
}

// resolveLink resolves href against the page URL and filters out anything
// that is not a fetchable HTTP(S) link.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
