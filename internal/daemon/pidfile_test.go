package daemon_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tlesnik44-code/origocode/internal/daemon"
)

func TestPIDFile_WriteAndRead(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "test.pid")
	pidFile := daemon.NewPIDFile(pidPath)

	if err := pidFile.Write(); err != nil {
		t.Fatalf("Failed to write PID file: %v", err)
	}
	defer pidFile.Remove()

	pid, err := pidFile.Read()
	if err != nil {
		t.Fatalf("Failed to read PID file: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("Expected PID %d, got %d", os.Getpid(), pid)
	}
}

func TestPIDFile_IsRunning(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "test.pid")
	pidFile := daemon.NewPIDFile(pidPath)

	if err := pidFile.Write(); err != nil {
		t.Fatalf("Failed to write PID file: %v", err)
	}
	defer pidFile.Remove()

	running, err := pidFile.IsRunning()
	if err != nil {
		t.Fatalf("Failed to check if running: %v", err)
	}
	if !running {
		t.Error("Expected current process to be running")
	}
}

func TestPIDFile_WriteRefusesWhenRunning(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "test.pid")
	pidFile := daemon.NewPIDFile(pidPath)

	if err := pidFile.Write(); err != nil {
		t.Fatalf("Failed to write PID file: %v", err)
	}
	defer pidFile.Remove()

	if err := pidFile.Write(); err == nil {
		t.Error("Expected error writing over a live PID file")
	}
}

func TestPIDFile_StaleFileReplaced(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "test.pid")

	// A PID that is extremely unlikely to exist
	if err := os.WriteFile(pidPath, []byte("999999999\n"), 0644); err != nil {
		t.Fatalf("Failed to seed stale PID file: %v", err)
	}

	pidFile := daemon.NewPIDFile(pidPath)
	if err := pidFile.Write(); err != nil {
		t.Fatalf("Failed to replace stale PID file: %v", err)
	}
	defer pidFile.Remove()

	pid, err := pidFile.Read()
	if err != nil {
		t.Fatalf("Failed to read PID file: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("Expected PID %d, got %d", os.Getpid(), pid)
	}
}

func TestPIDFile_RemoveMissing(t *testing.T) {
	pidFile := daemon.NewPIDFile(filepath.Join(t.TempDir(), "missing.pid"))
	if err := pidFile.Remove(); err != nil {
		t.Errorf("Remove of missing file: %v", err)
	}
}
