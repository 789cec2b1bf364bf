package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// countingJob records how many times it ran
type countingJob struct {
	mu        sync.Mutex
	runs      int
	shouldErr bool
}

func (j *countingJob) Run(ctx context.Context) error {
	j.mu.Lock()
	j.runs++
	j.mu.Unlock()
	if j.shouldErr {
		return errors.New("job failed")
	}
	return nil
}

func (j *countingJob) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

func TestNewIntervalScheduler(t *testing.T) {
	s, err := NewIntervalScheduler(time.Second, &countingJob{})
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}
	if s == nil {
		t.Fatal("Scheduler is nil")
	}
}

func TestNewIntervalScheduler_InvalidInterval(t *testing.T) {
	if _, err := NewIntervalScheduler(0, &countingJob{}); err == nil {
		t.Error("Expected error for zero interval, got nil")
	}
}

func TestNewIntervalScheduler_NilJob(t *testing.T) {
	if _, err := NewIntervalScheduler(time.Second, nil); err == nil {
		t.Error("Expected error for nil job, got nil")
	}
}

func TestIntervalScheduler_RunsJob(t *testing.T) {
	job := &countingJob{}
	s, err := NewIntervalScheduler(20*time.Millisecond, job)
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}

	time.Sleep(110 * time.Millisecond)

	if err := s.Stop(); err != nil {
		t.Fatalf("Failed to stop: %v", err)
	}

	if job.count() == 0 {
		t.Error("Job never ran")
	}

	status := s.Status()
	if status.Running {
		t.Error("Status still reports running after stop")
	}
	if status.TotalRuns != job.count() {
		t.Errorf("TotalRuns = %d, job ran %d times", status.TotalRuns, job.count())
	}
	if status.FailedRuns != 0 {
		t.Errorf("FailedRuns = %d, want 0", status.FailedRuns)
	}
}

func TestIntervalScheduler_RecordsFailures(t *testing.T) {
	job := &countingJob{shouldErr: true}
	s, err := NewIntervalScheduler(20*time.Millisecond, job)
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}

	time.Sleep(70 * time.Millisecond)

	if err := s.Stop(); err != nil {
		t.Fatalf("Failed to stop: %v", err)
	}

	status := s.Status()
	if status.FailedRuns == 0 {
		t.Error("FailedRuns = 0, want > 0")
	}
	if status.LastError != "job failed" {
		t.Errorf("LastError = %q", status.LastError)
	}
}

func TestIntervalScheduler_StartTwice(t *testing.T) {
	s, _ := NewIntervalScheduler(time.Second, &countingJob{})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}
	if err := s.Start(context.Background()); err == nil {
		t.Error("Expected error starting twice, got nil")
	}
	_ = s.Stop()
}

func TestIntervalScheduler_NoRestartAfterStop(t *testing.T) {
	s, _ := NewIntervalScheduler(time.Second, &countingJob{})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Failed to stop: %v", err)
	}

	if err := s.Start(context.Background()); err == nil {
		t.Error("Expected error restarting after stop, got nil")
	}
}

func TestIntervalScheduler_ContextCancelStops(t *testing.T) {
	s, _ := NewIntervalScheduler(20*time.Millisecond, &countingJob{})

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}

	cancel()
	time.Sleep(50 * time.Millisecond)

	if s.Status().Running {
		t.Error("Scheduler still running after context cancel")
	}
}
