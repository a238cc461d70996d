package urlutil

import (
	"net/url"
	"strings"
)

// Resolve resolves href against base the way a browser would. A missing href
// resolves as "/". When either side cannot be parsed the raw href is returned.
func Resolve(base, href string) string {
	raw := strings.TrimSpace(href)
	if raw == "" {
		raw = "/"
	}
	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return baseURL.ResolveReference(ref).String()
}

// HasPrefix returns a URL predicate that matches any URL starting with expected.
// Used with page.WaitForURL after clicking a link whose href resolved to expected.
func HasPrefix(expected string) func(string) bool {
	return func(u string) bool {
		return strings.HasPrefix(u, expected)
	}
}

// BuildAbsolute builds an absolute URL from a base origin and a path.
func BuildAbsolute(base, path string) string {
	base = normalizeBaseURL(base)
	if path == "" {
		return base
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}

// Origin returns scheme://host for raw, or "" when raw has no host.
func Origin(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// Host returns the host (with port) of raw, or "" when it cannot be parsed.
func Host(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return parsed.Host
}

func normalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/")
}
