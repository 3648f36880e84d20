package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/podscribe-team/podscribe/internal/infrastructure/cache"
)

// Job lifecycle states.
const (
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// jobTTL keeps finished jobs around long enough for clients to poll them.
const jobTTL = time.Hour

// JobRecord is the pollable state of one background acquisition.
type JobRecord struct {
	mu sync.Mutex

	ID        uuid.UUID   `json:"id"`
	UserID    string      `json:"user_id"`
	Status    string      `json:"status"`
	Stage     string      `json:"stage,omitempty"`
	Error     string      `json:"error,omitempty"`
	Result    interface{} `json:"result,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Snapshot returns a copy safe to serialize while the job mutates.
func (j *JobRecord) Snapshot() JobRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobRecord{
		ID:        j.ID,
		UserID:    j.UserID,
		Status:    j.Status,
		Stage:     j.Stage,
		Error:     j.Error,
		Result:    j.Result,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// JobTracker stores acquisition jobs in the TTL cache so finished records
// expire on their own.
type JobTracker struct {
	store *cache.MemoryStore
}

func NewJobTracker(store *cache.MemoryStore) *JobTracker {
	return &JobTracker{store: store}
}

func (t *JobTracker) Create(userID string) *JobRecord {
	now := time.Now()
	job := &JobRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    JobStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.store.Set(job.ID.String(), job, jobTTL)
	return job
}

func (t *JobTracker) Get(id string) (*JobRecord, bool) {
	v, ok := t.store.Get(id)
	if !ok {
		return nil, false
	}
	job, ok := v.(*JobRecord)
	return job, ok
}

// Progress records the latest human-readable stage message.
func (t *JobTracker) Progress(job *JobRecord, stage string) {
	job.mu.Lock()
	job.Stage = stage
	job.UpdatedAt = time.Now()
	job.mu.Unlock()
}

func (t *JobTracker) Complete(job *JobRecord, result interface{}) {
	job.mu.Lock()
	job.Status = JobStatusCompleted
	job.Result = result
	job.UpdatedAt = time.Now()
	job.mu.Unlock()
}

func (t *JobTracker) Fail(job *JobRecord, err error) {
	job.mu.Lock()
	job.Status = JobStatusFailed
	if err != nil {
		job.Error = err.Error()
	}
	job.UpdatedAt = time.Now()
	job.mu.Unlock()
}
