package shortener

import (
	"net/url"
	"strings"
)

// NormalizeURL trims the input and prepends https:// unless it already carries
// an http:// or https:// prefix. Applying it twice yields the same result.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)

	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return trimmed
	}

	return "https://" + trimmed
}

// ValidateURL accepts only http(s) URLs whose hostname has at least one
// dot-delimited domain segment, e.g. example.com. Spaces are allowed in the
// path and query but not in the host.
func ValidateURL(canonical string) bool {
	if canonical == "" {
		return false
	}

	u, err := url.Parse(canonical)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return hasDomainSegment(u.Hostname())
}

func hasDomainSegment(host string) bool {
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}

	for _, label := range labels {
		if label == "" {
			return false
		}
	}

	return true
}
