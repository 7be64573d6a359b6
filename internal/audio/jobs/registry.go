// Package jobs tracks pipeline executions in process memory and runs
// them on a bounded worker pool.
package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nmamani/aymara-voices/internal/models"
)

// Registry is the in-memory job table. All methods are safe for
// concurrent use; Get returns a snapshot copy so callers never observe
// a job mid-update.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*models.ProcessJob
}

func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*models.ProcessJob),
	}
}

func (r *Registry) Create(storyID string) *models.ProcessJob {
	job := &models.ProcessJob{
		JobID:     uuid.New().String(),
		StoryID:   storyID,
		Status:    models.JobStatusPending,
		Progress:  0,
		CreatedAt: time.Now(),
	}
	r.mu.Lock()
	r.jobs[job.JobID] = job
	r.mu.Unlock()
	return r.snapshot(job)
}

func (r *Registry) Get(jobID string) (*models.ProcessJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, errors.Wrap(models.ErrNotFound, "jobs.Registry.Get")
	}
	return r.snapshot(job), nil
}

func (r *Registry) Delete(jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[jobID]; !ok {
		return errors.Wrap(models.ErrNotFound, "jobs.Registry.Delete")
	}
	delete(r.jobs, jobID)
	return nil
}

func (r *Registry) SetProcessing(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[jobID]; ok && !job.Status.Terminal() {
		job.Status = models.JobStatusProcessing
	}
}

func (r *Registry) SetProgress(jobID string, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[jobID]; ok && !job.Status.Terminal() {
		job.Progress = progress
	}
}

func (r *Registry) Complete(jobID string, result *models.ProcessResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[jobID]; ok && !job.Status.Terminal() {
		job.Status = models.JobStatusCompleted
		job.Progress = 100
		job.Result = result
	}
}

func (r *Registry) Fail(jobID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[jobID]; ok && !job.Status.Terminal() {
		job.Status = models.JobStatusFailed
		job.Error = message
	}
}

func (r *Registry) snapshot(job *models.ProcessJob) *models.ProcessJob {
	cp := *job
	if job.Result != nil {
		res := *job.Result
		cp.Result = &res
	}
	return &cp
}
