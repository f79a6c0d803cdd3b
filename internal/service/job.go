package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Analysis phases
const (
	PhasePending   = "pending"
	PhaseFetching  = "fetching"
	PhaseDeriving  = "deriving"
	PhaseCompleted = "completed"
	PhaseFailed    = "failed"
)

// Phase events
const (
	EventFetch    = "fetch"
	EventDerive   = "derive"
	EventComplete = "complete"
	EventFail     = "fail"
)

// JobStatus is the externally visible snapshot of an analysis job.
type JobStatus struct {
	ID        string         `json:"id"`
	Request   AnalyzeRequest `json:"request"`
	Phase     string         `json:"phase"`
	StartedAt time.Time      `json:"started_at"`
	Error     string         `json:"error,omitempty"`
}

// Job tracks one analysis request through its lifecycle. The request itself
// runs synchronously; the job exists so the dashboard can follow progress
// over the websocket and fetch the result afterwards.
type Job struct {
	ID        string
	Request   AnalyzeRequest
	StartedAt time.Time

	mu       sync.RWMutex
	fsm      *fsm.FSM
	errMsg   string
	report   *AnalysisReport
	onChange func(status JobStatus)
}

func newJob(req AnalyzeRequest, onChange func(status JobStatus)) *Job {
	j := &Job{
		ID:        uuid.NewString(),
		Request:   req,
		StartedAt: time.Now(),
		onChange:  onChange,
	}

	j.fsm = fsm.NewFSM(
		PhasePending,
		fsm.Events{
			{Name: EventFetch, Src: []string{PhasePending}, Dst: PhaseFetching},
			{Name: EventDerive, Src: []string{PhaseFetching}, Dst: PhaseDeriving},
			{Name: EventComplete, Src: []string{PhaseDeriving}, Dst: PhaseCompleted},
			{Name: EventFail, Src: []string{PhasePending, PhaseFetching, PhaseDeriving}, Dst: PhaseFailed},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if j.onChange != nil && e.Src != e.Dst {
					j.onChange(j.statusLocked())
				}
			},
		},
	)

	return j
}

// Phase returns the current lifecycle phase.
func (j *Job) Phase() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.fsm.Current()
}

// Status returns a snapshot of the job.
func (j *Job) Status() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.statusLocked()
}

func (j *Job) statusLocked() JobStatus {
	return JobStatus{
		ID:        j.ID,
		Request:   j.Request,
		Phase:     j.fsm.Current(),
		StartedAt: j.StartedAt,
		Error:     j.errMsg,
	}
}

// Report returns the analysis result, nil until the job completes.
func (j *Job) Report() *AnalysisReport {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.report
}

func (j *Job) advance(event string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}
	return nil
}

func (j *Job) complete(report *AnalysisReport) {
	j.mu.Lock()
	j.report = report
	j.mu.Unlock()
	_ = j.advance(EventComplete)
}

func (j *Job) fail(message string) {
	j.mu.Lock()
	j.errMsg = message
	j.mu.Unlock()
	_ = j.advance(EventFail)
}

// JobManager keeps the jobs of the current process, newest first.
type JobManager struct {
	mu       sync.RWMutex
	jobs     map[string]*Job
	order    []string
	onChange func(status JobStatus)
}

// NewJobManager creates a job manager. onChange fires on every phase
// transition of every job.
func NewJobManager(onChange func(status JobStatus)) *JobManager {
	return &JobManager{
		jobs:     make(map[string]*Job),
		onChange: onChange,
	}
}

// Create registers a new pending job.
func (m *JobManager) Create(req AnalyzeRequest) *Job {
	job := newJob(req, m.onChange)

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.order = append([]string{job.ID}, m.order...)
	m.mu.Unlock()

	return job
}

// Get looks up a job by ID.
func (m *JobManager) Get(id string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	return job, ok
}

// Statuses returns snapshots of all jobs, newest first.
func (m *JobManager) Statuses() []JobStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make([]JobStatus, 0, len(m.order))
	for _, id := range m.order {
		statuses = append(statuses, m.jobs[id].Status())
	}
	return statuses
}
