// Package url provides address handling for the browser shell.
package url

import (
	"net/url"
	"strings"

	"github.com/bnema/spaced/internal/domain/entity"
)

// loopbackHosts get plain http when the user omits the scheme.
var loopbackHosts = []string{"localhost", "127.0.0.1", "[::1]"}

// NormalizeAddress turns address-bar input into a loadable URL.
// Input without "://" gets http:// for loopback hosts and https:// otherwise.
// Returns false when the result still does not parse as a URL with a host
// (or as about:/file: content); such input must be dropped without navigating.
func NormalizeAddress(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if !hasScheme(input) {
		if isLoopback(input) {
			input = "http://" + input
		} else {
			input = "https://" + input
		}
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "about", "file", "data":
		return input, true
	case "":
		return "", false
	}
	if parsed.Host == "" {
		return "", false
	}
	return input, true
}

// PolicyKey returns the content-mode policy key for a URL: the exact
// hostname, or entity.LocalContentKey for file:// content.
// Returns false for URLs that have neither (about:blank, unparsable input).
func PolicyKey(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if strings.EqualFold(parsed.Scheme, "file") {
		return entity.LocalContentKey, true
	}
	if host := parsed.Hostname(); host != "" {
		return host, true
	}
	return "", false
}

// Host returns the hostname of rawURL, or "" when it has none.
func Host(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

func hasScheme(input string) bool {
	if strings.Contains(input, "://") {
		return true
	}
	lower := strings.ToLower(input)
	return strings.HasPrefix(lower, "about:") || strings.HasPrefix(lower, "data:")
}

func isLoopback(input string) bool {
	for _, host := range loopbackHosts {
		if strings.Contains(input, host) {
			return true
		}
	}
	return false
}
