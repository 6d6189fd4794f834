package pipeline

import (
	"testing"
	"time"
)

func TestNewJob(t *testing.T) {
	job := NewJob("en", "Paris")
	if job.ID == "" {
		t.Fatal("expected generated job ID")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if other := NewJob("en", "Paris"); other.ID == job.ID {
		t.Errorf("expected distinct IDs, got %q twice", job.ID)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("en", "")

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusFetching, "fetching"},
		{StatusParsing, "parsing"},
		{StatusReady, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusQueued, StatusFetching, StatusParsing} {
		if s.Done() {
			t.Errorf("expected %q to be in progress", s)
		}
	}
	for _, s := range []JobStatus{StatusReady, StatusFailed} {
		if !s.Done() {
			t.Errorf("expected %q to be terminal", s)
		}
	}
}

func TestJob_Finish(t *testing.T) {
	job := NewJob("en", "Paris")
	job.Finish("game-1")

	snap := job.Snapshot()
	if snap.Status != StatusReady {
		t.Errorf("expected status %q, got %q", StatusReady, snap.Status)
	}
	if snap.GameID != "game-1" {
		t.Errorf("expected game ID %q, got %q", "game-1", snap.GameID)
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob("en", "Paris")
	job.AddError("fetch failed")
	job.AddError("still failing")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "fetch failed" {
		t.Errorf("expected first error %q, got %q", "fetch failed", snap.Errors[0])
	}

	// The snapshot must not alias job state.
	snap.Errors[0] = "changed"
	if job.Snapshot().Errors[0] != "fetch failed" {
		t.Error("expected snapshot errors to be a copy")
	}
}

func TestJob_IncrAttempts(t *testing.T) {
	job := NewJob("en", "Paris")
	job.IncrAttempts()
	job.IncrAttempts()

	if snap := job.Snapshot(); snap.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", snap.Attempts)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	snap := NewJob("en", "Paris").Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("en", "Paris")
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob("en", "old")
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := NewJob("en", "new")
	store.Put(fresh)

	if n := store.Cleanup(); n != 1 {
		t.Errorf("expected 1 job removed, got %d", n)
	}

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
