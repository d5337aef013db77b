package autocomplete

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCompletionSuffix(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		fullText   string
		wantSuffix string
		wantOK     bool
	}{
		{name: "empty input", input: "", fullText: "example.com"},
		{name: "empty fullText", input: "exa", fullText: ""},
		{name: "prefix", input: "exa", fullText: "example.com", wantSuffix: "mple.com", wantOK: true},
		{name: "case insensitive keeps original case", input: "EXA", fullText: "example.COM", wantSuffix: "mple.COM", wantOK: true},
		{name: "exact match has nothing to add", input: "example.com", fullText: "example.com"},
		{name: "not a prefix", input: "xam", fullText: "example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suffix, ok := ComputeCompletionSuffix(tt.input, tt.fullText)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSuffix, suffix)
		})
	}
}

func TestStripProtocol(t *testing.T) {
	assert.Equal(t, "go.dev", StripProtocol("https://go.dev"))
	assert.Equal(t, "go.dev/doc", StripProtocol("http://go.dev/doc"))
	assert.Equal(t, "about:blank", StripProtocol("about:blank"))
}

func TestComputeURLCompletionSuffix(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		url         string
		wantSuffix  string
		wantMatched string
		wantOK      bool
	}{
		{"full url", "https://go", "https://go.dev", ".dev", "https://go.dev", true},
		{"without scheme", "go", "https://go.dev", ".dev", "go.dev", true},
		{"input without www", "goo", "https://www.google.com", "gle.com", "google.com", true},
		{"input with www", "www.goo", "https://www.google.com", "gle.com", "www.google.com", true},
		{"no match", "rust", "https://go.dev", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suffix, matched, ok := ComputeURLCompletionSuffix(tt.input, tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSuffix, suffix)
			assert.Equal(t, tt.wantMatched, matched)
		})
	}
}

func TestBestURLCompletion_PrefersHostForHostLikeInput(t *testing.T) {
	urls := []string{
		"https://www.google.com/url?q=https://dashboard.stripe.com/auth",
		"https://google.com",
	}

	suffix, matched, ok := BestURLCompletion("goo", urls)
	assert.True(t, ok)
	assert.Equal(t, "google.com", matched)
	assert.Equal(t, "gle.com", suffix)
}

func TestBestURLCompletion_KeepsPathForPathLikeInput(t *testing.T) {
	suffix, matched, ok := BestURLCompletion("google.com/u", []string{"https://google.com/url?q=https://example.com"})
	assert.True(t, ok)
	assert.Equal(t, "google.com/url?q=https://example.com", matched)
	assert.Equal(t, "rl?q=https://example.com", suffix)
}

func TestBestURLCompletion_SkipsNonMatching(t *testing.T) {
	suffix, matched, ok := BestURLCompletion("goo", []string{"https://example.org", "https://google.com/maps"})
	assert.True(t, ok)
	assert.Equal(t, "google.com", matched)
	assert.Equal(t, "gle.com", suffix)

	_, _, ok = BestURLCompletion("", []string{"https://go.dev"})
	assert.False(t, ok)
}
