package crawler

import (
	"regexp"
	"strings"
	"unicode"
)

// emailRegex finds email-shaped substrings in arbitrary text. It is kept
// permissive; SanitizeEmail applies the stricter validation afterwards.
var emailRegex = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.[a-z]{2,}`)

// emailValidRegex validates a whole candidate address and captures its TLD.
var emailValidRegex = regexp.MustCompile(`(?i)^[a-z0-9._%+\-]+@[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.([a-z]{2,})$`)

// commonTLDs is the allow-list used to reject regex matches that are not
// plausible addresses (version strings, CSS class soup, and similar noise
// that happens to contain an @).
var commonTLDs = map[string]bool{
	"com": true, "org": true, "net": true, "edu": true, "gov": true,
	"mil": true, "int": true, "co": true, "io": true, "me": true,
	"biz": true, "info": true, "us": true, "uk": true, "ca": true,
	"de": true, "jp": true, "fr": true, "au": true, "ru": true,
	"ch": true, "it": true, "nl": true, "se": true, "no": true,
	"es": true, "tv": true, "ly": true,
}

// assetExtensions are file extensions that produce email-shaped false
// positives, e.g. "logo@2x.png" in srcset attributes.
var assetExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".css", ".js",
	".ico", ".pdf", ".zip", ".rar", ".exe",
}

// SanitizeEmail cleans a raw candidate from the page text and reports
// whether it survives validation. The pipeline, in order:
//
//  1. trim surrounding whitespace and leading non-alphanumeric runes
//     (quotes, brackets, and obfuscation punctuation)
//  2. lowercase
//  3. if the candidate only looks valid after ROT13 decoding, decode it
//     (a common lightweight obfuscation on contact pages)
//  4. validate syntax and TLD against the allow-list
//  5. drop asset filenames that merely look like addresses
func SanitizeEmail(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	s = strings.ToLower(s)
	if s == "" {
		return "", false
	}

	if looksROT13Encoded(s) {
		decoded := rot13(s)
		if !isValidEmail(decoded) {
			return "", false
		}
		s = decoded
	} else if !isValidEmail(s) {
		return "", false
	}

	if isAssetFilename(s) {
		return "", false
	}

	return s, true
}

// isValidEmail reports whether s is a syntactically valid address with a
// TLD from the allow-list.
func isValidEmail(s string) bool {
	m := emailValidRegex.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	return commonTLDs[strings.ToLower(m[1])]
}

// looksROT13Encoded reports whether the candidate's TLD becomes a common
// TLD after ROT13 decoding. Addresses obfuscated with ROT13 keep their
// shape, so the decoded TLD is the cheapest reliable signal.
func looksROT13Encoded(s string) bool {
	decoded := rot13(s)
	at := strings.LastIndex(decoded, "@")
	if at < 0 {
		return false
	}
	domain := decoded[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot < 0 {
		return false
	}
	return commonTLDs[domain[dot+1:]]
}

// rot13 applies the ROT13 substitution to ASCII letters, leaving every
// other rune untouched.
func rot13(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return 'a' + (r-'a'+13)%26
		case r >= 'A' && r <= 'Z':
			return 'A' + (r-'A'+13)%26
		default:
			return r
		}
	}, s)
}

// isAssetFilename reports whether the candidate contains an asset file
// extension, e.g. "icon@2x.png".
func isAssetFilename(s string) bool {
	for _, ext := range assetExtensions {
		if strings.Contains(s, ext) {
			return true
		}
	}
	return false
}
