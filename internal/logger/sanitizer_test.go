package logger

import (
	"testing"
)

func TestSanitizer_Sanitize(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "access token",
			input:    "refreshing with access_token=ya29.abc123",
			expected: "refreshing with access_token=***",
		},
		{
			name:     "refresh token",
			input:    "stored refresh_token=1//xyz",
			expected: "stored refresh_token=***",
		},
		{
			name:     "client secret",
			input:    "config client_secret=GOCSPX-abc",
			expected: "config client_secret=***",
		},
		{
			name:     "bearer token",
			input:    "Authorization: Bearer eyJhbGc...",
			expected: "Authorization: bearer ***",
		},
		{
			name:     "unix home path",
			input:    "token file in /home/john/.config/origocode",
			expected: "token file in /home/***/.config/origocode",
		},
		{
			name:     "email partial mask",
			input:    "user email: john.doe@example.com",
			expected: "user email: joh***@example.com",
		},
		{
			name:     "no sensitive data",
			input:    "normal log message",
			expected: "normal log message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Sanitize(tt.input)
			if result != tt.expected {
				t.Errorf("Sanitize() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSanitizer_SanitizeArgs(t *testing.T) {
	s := NewSanitizer()

	args := []any{"token", "supersecretvalue", "project", "proj-1"}
	result := s.SanitizeArgs(args)

	if result[1] == "supersecretvalue" {
		t.Errorf("sensitive value not masked: %v", result[1])
	}
	if result[3] != "proj-1" {
		t.Errorf("non-sensitive value changed: %v", result[3])
	}
}

func TestSanitizer_AddRule(t *testing.T) {
	s := NewSanitizer()

	if err := s.AddRule(`project-internal-\d+`, "project-internal-***"); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if got := s.Sanitize("ref project-internal-42"); got != "ref project-internal-***" {
		t.Errorf("custom rule not applied: %q", got)
	}

	if err := s.AddRule(`(unclosed`, "x"); err == nil {
		t.Errorf("invalid pattern accepted")
	}
}
