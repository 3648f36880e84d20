package handler

import (
	"errors"
	"testing"

	"github.com/podscribe-team/podscribe/internal/infrastructure/cache"
)

func TestJobLifecycle(t *testing.T) {
	tracker := NewJobTracker(cache.NewMemoryStore())

	job := tracker.Create(testOperator)
	if job.Status != JobStatusRunning {
		t.Errorf("new job status = %q", job.Status)
	}

	tracker.Progress(job, "Downloading audio...")
	tracker.Complete(job, map[string]interface{}{"title": "Go Time"})

	got, ok := tracker.Get(job.ID.String())
	if !ok {
		t.Fatal("job not found after create")
	}
	snap := got.Snapshot()
	if snap.Status != JobStatusCompleted {
		t.Errorf("status = %q", snap.Status)
	}
	if snap.Stage != "Downloading audio..." {
		t.Errorf("stage = %q", snap.Stage)
	}
}

func TestJobFail(t *testing.T) {
	tracker := NewJobTracker(cache.NewMemoryStore())

	job := tracker.Create(testOperator)
	tracker.Fail(job, errors.New("yt-dlp exited 1"))

	snap := job.Snapshot()
	if snap.Status != JobStatusFailed {
		t.Errorf("status = %q", snap.Status)
	}
	if snap.Error != "yt-dlp exited 1" {
		t.Errorf("error = %q", snap.Error)
	}
}

func TestJobUnknownID(t *testing.T) {
	tracker := NewJobTracker(cache.NewMemoryStore())
	if _, ok := tracker.Get("nope"); ok {
		t.Error("found a job that was never created")
	}
}

func TestUserLocks(t *testing.T) {
	locks := NewUserLocks()

	release, ok := locks.TryAcquire("a")
	if !ok {
		t.Fatal("first acquire failed")
	}
	if _, ok := locks.TryAcquire("a"); ok {
		t.Error("second acquire on a held lock succeeded")
	}
	if otherRelease, ok := locks.TryAcquire("b"); !ok {
		t.Error("lock for another user blocked")
	} else {
		otherRelease()
	}

	release()
	if release2, ok := locks.TryAcquire("a"); !ok {
		t.Error("reacquire after release failed")
	} else {
		release2()
	}
}
