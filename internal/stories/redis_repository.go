package stories

import (
	"context"

	"github.com/nmamani/aymara-voices/internal/models"
)

// CacheRepository is a read-through cache for single-story lookups.
type CacheRepository interface {
	GetStoryCtx(ctx context.Context, key string) (*models.Story, error)
	SetStoryCtx(ctx context.Context, key string, seconds int, story *models.Story) error
	DeleteStoryCtx(ctx context.Context, key string) error
}
