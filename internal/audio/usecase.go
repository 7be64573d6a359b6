package audio

import (
	"context"

	"github.com/nmamani/aymara-voices/internal/models"
)

// UseCase accepts processing requests, reports job progress and handles
// audio uploads. Submit only enqueues; the pipeline itself runs on the
// worker pool.
type UseCase interface {
	Submit(ctx context.Context, req *models.ProcessRequest) (*models.ProcessJob, error)
	GetStatus(ctx context.Context, jobID string) (*models.ProcessJob, error)
	Clear(ctx context.Context, jobID string) error

	UploadAudio(ctx context.Context, input *models.UploadInput) (string, error)
	GetPresignedUploadURL(ctx context.Context, input *models.UploadInput) (string, error)
}
