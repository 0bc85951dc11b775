package parser

import "regexp"

var (
	// name before content
	csrfNameFirst = regexp.MustCompile(`(?is)<meta\s+[^>]*?name\s*=\s*["']csrf_token["'][^>]*?\scontent\s*=\s*["']([^"']*)["']`)
	// content before name
	csrfContentFirst = regexp.MustCompile(`(?is)<meta\s+[^>]*?content\s*=\s*["']([^"']*)["'][^>]*?\sname\s*=\s*["']csrf_token["']`)
)

// FindCSRFToken returns the anti-forgery token carried by the page's
// csrf_token meta tag. ok is false when the page has none.
func FindCSRFToken(html string) (token string, ok bool) {
	if m := csrfNameFirst.FindStringSubmatch(html); m != nil {
		return m[1], true
	}
	if m := csrfContentFirst.FindStringSubmatch(html); m != nil {
		return m[1], true
	}
	return "", false
}
