package models

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether a job can no longer change state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ProcessJob tracks one asynchronous pipeline execution. Jobs live in
// process memory only; a restart discards them.
type ProcessJob struct {
	JobID     string         `json:"job_id"`
	StoryID   string         `json:"story_id"`
	Status    JobStatus      `json:"status"`
	Progress  int            `json:"progress"`
	Result    *ProcessResult `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"-"`
}

type ProcessResult struct {
	StoryID        string `json:"story_id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	QRUrl          string `json:"qr_url"`
	PrintableQRUrl string `json:"printable_qr_url"`
	PublicURL      string `json:"public_url"`
}

type ProcessRequest struct {
	StoryID  string `json:"story_id" validate:"required"`
	AudioURL string `json:"audio_url" validate:"required"`
	Language string `json:"language"`
}

type ProcessResponse struct {
	JobID   string    `json:"job_id"`
	Status  JobStatus `json:"status"`
	Message string    `json:"message"`
}
