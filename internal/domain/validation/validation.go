// Package validation holds field checks shared by configuration and input handling.
// Each check returns human-readable messages prefixed with the field name.
package validation

import (
	"fmt"
	"slices"
	"strings"

	domainurl "github.com/bnema/spaced/internal/domain/url"
)

const maxUserAgentLength = 512

// ValidateAddress checks that value is something the address bar would load.
func ValidateAddress(field, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{field + " cannot be empty"}
	}
	if _, ok := domainurl.NormalizeAddress(value); !ok {
		return []string{fmt.Sprintf("%s %q is not a loadable address", field, value)}
	}
	return nil
}

// ValidateOneOf checks that value is one of allowed.
func ValidateOneOf(field, value string, allowed ...string) []string {
	if slices.Contains(allowed, value) {
		return nil
	}
	return []string{fmt.Sprintf("%s must be one of %s (got %q)", field, strings.Join(allowed, ", "), value)}
}

// ValidateNonNegative checks an integer setting.
func ValidateNonNegative(field string, value int) []string {
	if value < 0 {
		return []string{field + " must be non-negative"}
	}
	return nil
}

// ValidateUserAgent checks an optional user agent override.
func ValidateUserAgent(field, value string) []string {
	if value == "" {
		return nil
	}
	var errs []string
	if strings.ContainsAny(value, "\r\n") {
		errs = append(errs, field+" must not contain newlines")
	}
	if len(value) > maxUserAgentLength {
		errs = append(errs, fmt.Sprintf("%s is too long (max %d characters)", field, maxUserAgentLength))
	}
	return errs
}
