package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	dbPath := filepath.Join(tmpDir, "origocode.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNewStore_EmptyDir(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Error("Expected error for empty directory, got nil")
	}
}

func TestRecordAndRecent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	record := OperationRecord{
		Op:         "save",
		Project:    "proj",
		Path:       "notes/hello.txt",
		Status:     StatusOK,
		DurationMS: 120,
		StartedAt:  time.Now().Add(-time.Minute),
	}
	if err := store.RecordOperation(record); err != nil {
		t.Fatalf("RecordOperation: %v", err)
	}

	recent, err := store.Recent("proj", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recent))
	}
	if recent[0].Op != "save" || recent[0].Path != "notes/hello.txt" || recent[0].Status != StatusOK {
		t.Errorf("retrieved record = %+v", recent[0])
	}
}

func TestRecordOperation_InvalidStatus(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	err = store.RecordOperation(OperationRecord{
		Op: "save", Project: "p", Path: "x", Status: "bogus", StartedAt: time.Now(),
	})
	if err == nil {
		t.Error("Expected error for invalid status")
	}
}

func TestRecent_OrderAndLimit(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		err := store.RecordOperation(OperationRecord{
			Op: "read", Project: "proj", Path: "f.txt", Status: StatusOK,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordOperation: %v", err)
		}
	}

	recent, err := store.Recent("proj", 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(recent))
	}
	// Newest first
	if !recent[0].StartedAt.After(recent[2].StartedAt) {
		t.Errorf("records not in descending time order")
	}

	if _, err := store.Recent("proj", 0); err == nil {
		t.Error("Expected error for non-positive limit")
	}
}

func TestPrune(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	old := OperationRecord{Op: "read", Project: "p", Path: "x", Status: StatusOK, StartedAt: time.Now().Add(-48 * time.Hour)}
	fresh := OperationRecord{Op: "read", Project: "p", Path: "x", Status: StatusOK, StartedAt: time.Now()}
	if err := store.RecordOperation(old); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordOperation(fresh); err != nil {
		t.Fatal(err)
	}

	pruned, err := store.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
}
