package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_InitAndGet(t *testing.T) {
	buf := &bytes.Buffer{}
	config := Config{
		Level:  LevelInfo,
		Format: FormatText,
		Outputs: []OutputConfig{
			{Type: OutputStdout, Writer: buf},
		},
	}

	if err := Init(config); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Shutdown()

	Get().Info("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("log output missing message: %s", buf.String())
	}
}

func TestLogger_DoubleInit(t *testing.T) {
	config := Config{Outputs: []OutputConfig{{Type: OutputStdout, Writer: &bytes.Buffer{}}}}
	if err := Init(config); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Shutdown()

	if err := Init(config); err == nil {
		t.Errorf("second Init() should fail")
	}
}

func TestLogger_NullLogger(t *testing.T) {
	Shutdown() // ensure uninitialized

	logger := Get()
	// Must not panic
	logger.Debug("should not crash")
	logger.Info("should not crash")
	logger.Warn("should not crash")
	logger.Error("should not crash")
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	config := Config{
		Level:  LevelInfo,
		Format: FormatText,
		Outputs: []OutputConfig{
			{Type: OutputStdout, Writer: buf},
		},
	}

	if err := Init(config); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Shutdown()

	With("component", "hierarchy").Info("message")

	output := buf.String()
	if !strings.Contains(output, "component") || !strings.Contains(output, "hierarchy") {
		t.Errorf("child logger attributes missing: %s", output)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	config := Config{
		Level:  LevelWarn,
		Format: FormatText,
		Outputs: []OutputConfig{
			{Type: OutputStdout, Writer: buf},
		},
	}

	if err := Init(config); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Shutdown()

	Get().Info("filtered out")
	Get().Warn("kept")

	output := buf.String()
	if strings.Contains(output, "filtered out") {
		t.Errorf("info message logged at warn level")
	}
	if !strings.Contains(output, "kept") {
		t.Errorf("warn message missing")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
