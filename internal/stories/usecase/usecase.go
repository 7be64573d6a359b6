package usecase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/nmamani/aymara-voices/internal/config"
	"github.com/nmamani/aymara-voices/internal/geoindex"
	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/internal/qrgen"
	"github.com/nmamani/aymara-voices/internal/stories"
	"github.com/nmamani/aymara-voices/pkg/logger"
	"github.com/nmamani/aymara-voices/pkg/utils"
)

const (
	cacheKeyPrefix = "story:"

	defaultNearbyLimit = 20
	maxNearbyLimit     = 100
)

type storiesUC struct {
	cfg         *config.Config
	storiesRepo stories.Repository
	cacheRepo   stories.CacheRepository
	blobRepo    stories.BlobRepository
	qr          *qrgen.Generator
	logger      logger.Logger
}

func NewStoriesUseCase(
	cfg *config.Config,
	storiesRepo stories.Repository,
	cacheRepo stories.CacheRepository,
	blobRepo stories.BlobRepository,
	qr *qrgen.Generator,
	log logger.Logger,
) stories.UseCase {
	return &storiesUC{
		cfg:         cfg,
		storiesRepo: storiesRepo,
		cacheRepo:   cacheRepo,
		blobRepo:    blobRepo,
		qr:          qr,
		logger:      log,
	}
}

func (u *storiesUC) Create(ctx context.Context, input *models.StoryCreateInput) (*models.Story, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if !input.Narrator.ConsentGiven {
		return nil, fmt.Errorf("%w: narrator consent is required", models.ErrValidation)
	}

	audioFormat := input.AudioFormat
	if audioFormat == "" {
		audioFormat = "webm"
	}

	story := &models.Story{
		AudioURL:      input.AudioURL,
		AudioDuration: input.AudioDuration,
		AudioSize:     input.AudioSize,
		AudioFormat:   audioFormat,
		Narrator:      input.Narrator,
		Location:      input.Location,
		Keywords:      []string{},
		Status:        models.StoryStatusDraft,
	}
	story.Location.Geohash = geoindex.Encode(
		input.Location.Latitude,
		input.Location.Longitude,
		geoindex.StoragePrecision,
	)

	created, err := u.storiesRepo.Create(ctx, story)
	if err != nil {
		u.logger.Errorf("Create - storiesRepo.Create error: %v", err)
		return nil, err
	}

	publicURL := u.qr.StoryURL(created.ID)
	if err = u.storiesRepo.SetPublicURL(ctx, created.ID, publicURL); err != nil {
		u.logger.Errorf("Create - SetPublicURL error: %v", err)
		return nil, err
	}
	created.PublicURL = publicURL

	return created, nil
}

func (u *storiesUC) GetByID(ctx context.Context, storyID string) (*models.Story, error) {
	if storyID == "" {
		return nil, fmt.Errorf("%w: story id cannot be empty", models.ErrValidation)
	}

	cached, err := u.cacheRepo.GetStoryCtx(ctx, cacheKeyPrefix+storyID)
	if err != nil {
		u.logger.Warnf("GetByID - cache read error: %v", err)
	}
	if cached != nil {
		// Views still increase for cached reads.
		if err = u.storiesRepo.IncrementViews(ctx, storyID); err != nil {
			u.logger.Warnf("GetByID - IncrementViews error: %v", err)
		}
		return cached, nil
	}

	story, err := u.storiesRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if err = u.storiesRepo.IncrementViews(ctx, storyID); err != nil {
		u.logger.Warnf("GetByID - IncrementViews error: %v", err)
	}

	if err = u.cacheRepo.SetStoryCtx(ctx, cacheKeyPrefix+storyID, u.cfg.Redis.StoryCacheTTL, story); err != nil {
		u.logger.Warnf("GetByID - cache write error: %v", err)
	}

	return story, nil
}

func (u *storiesUC) List(ctx context.Context, filter *models.StoryFilter, pq *utils.Pagination) (*models.StoryList, error) {
	if filter == nil {
		filter = &models.StoryFilter{}
	}
	// Unfiltered listings only expose published stories.
	if filter.Status == "" {
		filter.Status = string(models.StoryStatusPublished)
	}
	if pq == nil {
		pq = &utils.Pagination{Page: 1, Size: 20}
	}
	return u.storiesRepo.List(ctx, filter, pq)
}

func (u *storiesUC) Update(ctx context.Context, storyID string, input *models.StoryUpdateInput) (*models.Story, error) {
	if storyID == "" {
		return nil, fmt.Errorf("%w: story id cannot be empty", models.ErrValidation)
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	current, err := u.storiesRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !current.Status.CanTransition(*input.Status) {
		return nil, fmt.Errorf("%w: status cannot change from %s to %s",
			models.ErrValidation, current.Status, *input.Status)
	}

	// The proximity cell follows the location, and only the location.
	if input.Location != nil {
		input.Location.Geohash = geoindex.Encode(
			input.Location.Latitude,
			input.Location.Longitude,
			geoindex.StoragePrecision,
		)
	}

	updated, err := u.storiesRepo.Update(ctx, storyID, input)
	if err != nil {
		u.logger.Errorf("Update - storiesRepo.Update error: %v", err)
		return nil, err
	}

	if err = u.cacheRepo.DeleteStoryCtx(ctx, cacheKeyPrefix+storyID); err != nil {
		u.logger.Warnf("Update - cache invalidation error: %v", err)
	}

	return updated, nil
}

func (u *storiesUC) Delete(ctx context.Context, storyID string) error {
	if storyID == "" {
		return fmt.Errorf("%w: story id cannot be empty", models.ErrValidation)
	}
	if err := u.storiesRepo.SoftDelete(ctx, storyID); err != nil {
		return err
	}
	if err := u.cacheRepo.DeleteStoryCtx(ctx, cacheKeyPrefix+storyID); err != nil {
		u.logger.Warnf("Delete - cache invalidation error: %v", err)
	}
	return nil
}

// FindNearby approximates a circular search with the query point's
// precision-5 cell plus its 8 neighbors. radius_km does not filter results
// by true distance; see the known-gap note in DESIGN.md before changing
// that.
func (u *storiesUC) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]*models.Story, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%w: latitude out of range: %f", models.ErrValidation, lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: longitude out of range: %f", models.ErrValidation, lon)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius_km must be positive", models.ErrValidation)
	}
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	if limit > maxNearbyLimit {
		limit = maxNearbyLimit
	}

	center := geoindex.Encode(lat, lon, geoindex.SearchPrecision)
	cells := append([]string{center}, geoindex.Neighbors(center)...)

	result := make([]*models.Story, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, cell := range cells {
		found, err := u.storiesRepo.FindByCellPrefix(ctx, cell, limit)
		if err != nil {
			u.logger.Errorf("FindNearby - FindByCellPrefix(%s) error: %v", cell, err)
			return nil, err
		}
		for _, story := range found {
			// Disjoint prefixes should never overlap, but tolerate it.
			if _, ok := seen[story.ID]; ok {
				continue
			}
			seen[story.ID] = struct{}{}
			result = append(result, story)
		}
	}

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (u *storiesUC) GetQRCode(ctx context.Context, storyID string, size int) (string, error) {
	story, err := u.storiesRepo.GetByID(ctx, storyID)
	if err != nil {
		return "", err
	}
	if story.QRCodeURL != "" {
		return story.QRCodeURL, nil
	}

	data, err := u.qr.Generate(storyID, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	url, err := u.blobRepo.PutObject(ctx, &models.UploadInput{
		Key:      fmt.Sprintf("qr/%s.png", storyID),
		Name:     fmt.Sprintf("%s.png", storyID),
		MimeType: "image/png",
		Size:     int64(len(data)),
		File:     bytes.NewReader(data),
	})
	if err != nil {
		return "", err
	}

	if err = u.storiesRepo.SetQRUrls(ctx, storyID, url, ""); err != nil {
		return "", err
	}
	if err = u.cacheRepo.DeleteStoryCtx(ctx, cacheKeyPrefix+storyID); err != nil {
		u.logger.Warnf("GetQRCode - cache invalidation error: %v", err)
	}
	return url, nil
}

func (u *storiesUC) GetPrintableQR(ctx context.Context, storyID string) (string, error) {
	story, err := u.storiesRepo.GetByID(ctx, storyID)
	if err != nil {
		return "", err
	}
	if story.PrintableQRURL != "" {
		return story.PrintableQRURL, nil
	}

	title := story.Title
	if title == "" {
		title = "Untitled Story"
	}
	data, err := u.qr.GeneratePrintable(storyID, title, story.Narrator.Name, story.Narrator.Community)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	url, err := u.blobRepo.PutObject(ctx, &models.UploadInput{
		Key:      fmt.Sprintf("qr/%s_print.png", storyID),
		Name:     fmt.Sprintf("%s_print.png", storyID),
		MimeType: "image/png",
		Size:     int64(len(data)),
		File:     bytes.NewReader(data),
	})
	if err != nil {
		return "", err
	}

	if err = u.storiesRepo.SetQRUrls(ctx, storyID, "", url); err != nil {
		return "", err
	}
	if err = u.cacheRepo.DeleteStoryCtx(ctx, cacheKeyPrefix+storyID); err != nil {
		u.logger.Warnf("GetPrintableQR - cache invalidation error: %v", err)
	}
	return url, nil
}
