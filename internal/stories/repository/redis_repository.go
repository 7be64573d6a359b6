package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/internal/stories"
)

type storiesCacheRepo struct {
	redisClient *redis.Client
}

func NewStoriesCacheRepo(redisClient *redis.Client) stories.CacheRepository {
	return &storiesCacheRepo{
		redisClient: redisClient,
	}
}

// GetStoryCtx returns (nil, nil) on a cache miss.
func (c *storiesCacheRepo) GetStoryCtx(ctx context.Context, key string) (*models.Story, error) {
	storyBytes, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "storiesCacheRepo.GetStoryCtx")
	}
	story := &models.Story{}
	if err = json.Unmarshal(storyBytes, story); err != nil {
		return nil, errors.Wrap(err, "storiesCacheRepo.GetStoryCtx.unmarshal")
	}
	return story, nil
}

func (c *storiesCacheRepo) SetStoryCtx(ctx context.Context, key string, seconds int, story *models.Story) error {
	storyBytes, err := json.Marshal(story)
	if err != nil {
		return errors.Wrap(err, "storiesCacheRepo.SetStoryCtx.marshal")
	}
	if err = c.redisClient.Set(ctx, key, storyBytes, time.Second*time.Duration(seconds)).Err(); err != nil {
		return errors.Wrap(err, "storiesCacheRepo.SetStoryCtx")
	}
	return nil
}

func (c *storiesCacheRepo) DeleteStoryCtx(ctx context.Context, key string) error {
	if err := c.redisClient.Del(ctx, key).Err(); err != nil {
		return errors.Wrap(err, "storiesCacheRepo.DeleteStoryCtx")
	}
	return nil
}
