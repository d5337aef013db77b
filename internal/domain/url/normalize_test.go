package url

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "empty string", input: "", wantOK: false},
		{name: "whitespace only", input: "   ", wantOK: false},
		{name: "https scheme unchanged", input: "https://example.com", want: "https://example.com", wantOK: true},
		{name: "http scheme unchanged", input: "http://example.com", want: "http://example.com", wantOK: true},
		{name: "domain gets https", input: "example.com", want: "https://example.com", wantOK: true},
		{name: "domain with path gets https", input: "example.com/path?q=1", want: "https://example.com/path?q=1", wantOK: true},
		{name: "localhost gets http", input: "localhost:8080", want: "http://localhost:8080", wantOK: true},
		{name: "loopback ip gets http", input: "127.0.0.1:3000/health", want: "http://127.0.0.1:3000/health", wantOK: true},
		{name: "file scheme unchanged", input: "file:///tmp/index.html", want: "file:///tmp/index.html", wantOK: true},
		{name: "about blank unchanged", input: "about:blank", want: "about:blank", wantOK: true},
		{name: "surrounding whitespace trimmed", input: "  go.dev  ", want: "https://go.dev", wantOK: true},
		{name: "spaces cannot form a host", input: "hello world", wantOK: false},
		{name: "scheme without host", input: "https://", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeAddress(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPolicyKey(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "host", input: "https://example.com/a/b", want: "example.com", wantOK: true},
		{name: "port stripped", input: "http://localhost:8080/", want: "localhost", wantOK: true},
		{name: "subdomain kept exact", input: "https://m.example.com", want: "m.example.com", wantOK: true},
		{name: "file content uses local key", input: "file:///tmp/a.html", want: "", wantOK: true},
		{name: "about has no key", input: "about:blank", wantOK: false},
		{name: "unparsable", input: "http://[::1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PolicyKey(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
