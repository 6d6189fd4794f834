package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a game load job.
type JobStatus string

const (
	StatusQueued   JobStatus = "queued"
	StatusFetching JobStatus = "fetching"
	StatusParsing  JobStatus = "parsing"
	StatusReady    JobStatus = "ready"
	StatusFailed   JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusReady || s == StatusFailed
}

// Job tracks the loading of one article into a new game.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	Lang  string `json:"lang"`
	Title string `json:"title,omitempty"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`
	GameID string    `json:"game_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	attempts int
	errors   []string
}

// NewJob creates a queued job. An empty title asks for a random article.
func NewJob(lang, title string) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Lang:      lang,
		Title:     title,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs and returns how many were removed.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, job := range s.jobs {
		if now.Sub(job.lastUpdate()) > s.ttl {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

func (j *Job) lastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// IncrAttempts counts one fetch attempt.
func (j *Job) IncrAttempts() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts++
	j.UpdatedAt = time.Now()
}

// Finish marks the job ready with the game it produced.
func (j *Job) Finish(gameID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.GameID = gameID
	j.Status = StatusReady
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Lang      string    `json:"lang"`
	Title     string    `json:"title,omitempty"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	GameID    string    `json:"game_id,omitempty"`
	Attempts  int       `json:"attempts"`
	Errors    []string  `json:"errors"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:        j.ID,
		Lang:      j.Lang,
		Title:     j.Title,
		Status:    j.Status,
		Phase:     j.Phase,
		GameID:    j.GameID,
		Attempts:  j.attempts,
		Errors:    errs,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
