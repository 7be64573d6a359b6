package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/pkg/utils"
)

type mockStoriesRepo struct {
	mock.Mock
}

func (m *mockStoriesRepo) Create(ctx context.Context, story *models.Story) (*models.Story, error) {
	args := m.Called(ctx, story)
	if s := args.Get(0); s != nil {
		return s.(*models.Story), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStoriesRepo) GetByID(ctx context.Context, storyID string) (*models.Story, error) {
	args := m.Called(ctx, storyID)
	if s := args.Get(0); s != nil {
		return s.(*models.Story), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStoriesRepo) Update(ctx context.Context, storyID string, input *models.StoryUpdateInput) (*models.Story, error) {
	args := m.Called(ctx, storyID, input)
	if s := args.Get(0); s != nil {
		return s.(*models.Story), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStoriesRepo) Publish(ctx context.Context, storyID string, fields *models.PublishFields) error {
	args := m.Called(ctx, storyID, fields)
	return args.Error(0)
}

func (m *mockStoriesRepo) SetPublicURL(ctx context.Context, storyID, publicURL string) error {
	args := m.Called(ctx, storyID, publicURL)
	return args.Error(0)
}

func (m *mockStoriesRepo) SetQRUrls(ctx context.Context, storyID, qrURL, printableURL string) error {
	args := m.Called(ctx, storyID, qrURL, printableURL)
	return args.Error(0)
}

func (m *mockStoriesRepo) SoftDelete(ctx context.Context, storyID string) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}

func (m *mockStoriesRepo) List(ctx context.Context, filter *models.StoryFilter, pq *utils.Pagination) (*models.StoryList, error) {
	args := m.Called(ctx, filter, pq)
	if l := args.Get(0); l != nil {
		return l.(*models.StoryList), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStoriesRepo) IncrementViews(ctx context.Context, storyID string) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}

func (m *mockStoriesRepo) FindByCellPrefix(ctx context.Context, prefix string, limit int) ([]*models.Story, error) {
	args := m.Called(ctx, prefix, limit)
	if s := args.Get(0); s != nil {
		return s.([]*models.Story), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCacheRepo struct {
	mock.Mock
}

func (m *mockCacheRepo) GetStoryCtx(ctx context.Context, key string) (*models.Story, error) {
	args := m.Called(ctx, key)
	if s := args.Get(0); s != nil {
		return s.(*models.Story), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCacheRepo) SetStoryCtx(ctx context.Context, key string, seconds int, story *models.Story) error {
	args := m.Called(ctx, key, seconds, story)
	return args.Error(0)
}

func (m *mockCacheRepo) DeleteStoryCtx(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type mockBlobRepo struct {
	mock.Mock
}

func (m *mockBlobRepo) PutObject(ctx context.Context, input *models.UploadInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *mockBlobRepo) GetPresignedPutURL(ctx context.Context, input *models.UploadInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *mockBlobRepo) RemoveObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
