package stories

import (
	"context"

	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/pkg/utils"
)

type UseCase interface {
	Create(ctx context.Context, input *models.StoryCreateInput) (*models.Story, error)
	GetByID(ctx context.Context, storyID string) (*models.Story, error)
	List(ctx context.Context, filter *models.StoryFilter, pq *utils.Pagination) (*models.StoryList, error)
	Update(ctx context.Context, storyID string, input *models.StoryUpdateInput) (*models.Story, error)
	Delete(ctx context.Context, storyID string) error

	FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]*models.Story, error)

	GetQRCode(ctx context.Context, storyID string, size int) (string, error)
	GetPrintableQR(ctx context.Context, storyID string) (string, error)
}
