package gdrive

import (
	"errors"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"

	"github.com/tlesnik44-code/origocode/internal/domain"
)

// TestEscapeQueryString tests query string escaping for injection prevention
func TestEscapeQueryString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"normal", "normal"},
		{"file'name", "file\\'name"},                 // Single quote escaped
		{"file's name", "file\\'s name"},             // Single quote escaped
		{"file''name", "file\\'\\'name"},             // Multiple quotes
		{"no'special\"chars", "no\\'special\"chars"}, // Only single quotes escaped
		{"back\\slash", "back\\\\slash"},             // Backslash escaped first
	}

	for _, tt := range tests {
		got := escapeQueryString(tt.input)
		if got != tt.expected {
			t.Errorf("escapeQueryString(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// TestSecurity_QueryInjection tests protection against query injection
func TestSecurity_QueryInjection(t *testing.T) {
	// Malicious names that could break Drive API query filters
	maliciousNames := []string{
		"file' or '1'='1",
		"'; DROP TABLE files; --",
		"file' AND trashed=false AND '1'='1",
	}

	for _, name := range maliciousNames {
		escaped := escapeQueryString(name)

		if !strings.Contains(escaped, "\\'") && strings.Contains(name, "'") {
			t.Errorf("query injection vulnerability: %q not properly escaped", name)
		}

		unescaped := strings.ReplaceAll(escaped, "\\'", "")
		if strings.Contains(unescaped, "'") {
			t.Errorf("unescaped single quote found in %q", escaped)
		}
	}
}

// TestMapError tests translation of Google API errors to domain errors
func TestMapError(t *testing.T) {
	if err := mapError(nil); err != nil {
		t.Errorf("mapError(nil) = %v, want nil", err)
	}

	notFound := &googleapi.Error{Code: 404, Message: "File not found"}
	if err := mapError(notFound); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("mapError(404) = %v, want ErrNotFound", err)
	}

	for _, code := range []int{403, 429, 500, 503} {
		apiErr := &googleapi.Error{Code: code}
		err := mapError(apiErr)
		if !errors.Is(err, domain.ErrRemote) {
			t.Errorf("mapError(%d) = %v, want ErrRemote", code, err)
		}
		if errors.Is(err, domain.ErrNotFound) {
			t.Errorf("mapError(%d) should not be ErrNotFound", code)
		}
	}

	transport := errors.New("connection reset by peer")
	if err := mapError(transport); !errors.Is(err, domain.ErrRemote) {
		t.Errorf("mapError(transport) = %v, want ErrRemote", err)
	}
}
