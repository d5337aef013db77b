package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "blank page", value: "about:blank"},
		{name: "bare host", value: "go.dev"},
		{name: "full url", value: "https://example.com/path"},
		{name: "empty", value: "  ", wantErr: true},
		{name: "bad escape", value: "http://%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateAddress("default_url", tt.value)
			if tt.wantErr {
				assert.NotEmpty(t, errs)
				assert.Contains(t, errs[0], "default_url")
				return
			}
			assert.Empty(t, errs)
		})
	}
}

func TestValidateOneOf(t *testing.T) {
	assert.Empty(t, ValidateOneOf("engine.kind", "cdp", "cdp", "memory"))

	errs := ValidateOneOf("engine.kind", "webkit", "cdp", "memory")
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "cdp, memory")
	assert.Contains(t, errs[0], `"webkit"`)
}

func TestValidateNonNegative(t *testing.T) {
	assert.Empty(t, ValidateNonNegative("x", 0))
	assert.Equal(t, []string{"x must be non-negative"}, ValidateNonNegative("x", -1))
}

func TestValidateUserAgent(t *testing.T) {
	assert.Empty(t, ValidateUserAgent("ua", ""))
	assert.Empty(t, ValidateUserAgent("ua", "Mozilla/5.0"))
	assert.Len(t, ValidateUserAgent("ua", "a\nb"), 1)
	assert.Len(t, ValidateUserAgent("ua", strings.Repeat("a", maxUserAgentLength+1)), 1)
}
