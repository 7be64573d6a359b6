package stories

import (
	"context"

	"github.com/nmamani/aymara-voices/internal/models"
)

// BlobRepository stores audio and generated images and hands back
// publicly fetchable URLs.
type BlobRepository interface {
	PutObject(ctx context.Context, input *models.UploadInput) (string, error)
	GetPresignedPutURL(ctx context.Context, input *models.UploadInput) (string, error)
	RemoveObject(ctx context.Context, key string) error
}
