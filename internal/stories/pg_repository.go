package stories

import (
	"context"

	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/pkg/utils"
)

// Repository is the record-store adapter. Every call is synchronous and
// independently fallible; no retries happen underneath.
type Repository interface {
	Create(ctx context.Context, story *models.Story) (*models.Story, error)
	GetByID(ctx context.Context, storyID string) (*models.Story, error)
	Update(ctx context.Context, storyID string, input *models.StoryUpdateInput) (*models.Story, error)
	Publish(ctx context.Context, storyID string, fields *models.PublishFields) error
	SetPublicURL(ctx context.Context, storyID, publicURL string) error
	SetQRUrls(ctx context.Context, storyID, qrURL, printableURL string) error
	SoftDelete(ctx context.Context, storyID string) error
	List(ctx context.Context, filter *models.StoryFilter, pq *utils.Pagination) (*models.StoryList, error)
	IncrementViews(ctx context.Context, storyID string) error
	FindByCellPrefix(ctx context.Context, prefix string, limit int) ([]*models.Story, error)
}
