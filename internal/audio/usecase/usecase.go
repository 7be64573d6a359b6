package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nmamani/aymara-voices/internal/audio"
	"github.com/nmamani/aymara-voices/internal/audio/jobs"
	"github.com/nmamani/aymara-voices/internal/config"
	"github.com/nmamani/aymara-voices/internal/events"
	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/internal/qrgen"
	"github.com/nmamani/aymara-voices/internal/stories"
	"github.com/nmamani/aymara-voices/internal/transcriber"
	"github.com/nmamani/aymara-voices/pkg/logger"
	"github.com/nmamani/aymara-voices/pkg/utils"
)

type audioUC struct {
	cfg         *config.Config
	storiesRepo stories.Repository
	blobRepo    stories.BlobRepository
	registry    *jobs.Registry
	pool        *jobs.Pool
	transcriber transcriber.Transcriber
	analyzer    transcriber.Analyzer
	qr          *qrgen.Generator
	publisher   events.Publisher
	logger      logger.Logger
}

func NewAudioUseCase(
	cfg *config.Config,
	storiesRepo stories.Repository,
	blobRepo stories.BlobRepository,
	registry *jobs.Registry,
	pool *jobs.Pool,
	tr transcriber.Transcriber,
	an transcriber.Analyzer,
	qr *qrgen.Generator,
	publisher events.Publisher,
	log logger.Logger,
) audio.UseCase {
	return &audioUC{
		cfg:         cfg,
		storiesRepo: storiesRepo,
		blobRepo:    blobRepo,
		registry:    registry,
		pool:        pool,
		transcriber: tr,
		analyzer:    an,
		qr:          qr,
		publisher:   publisher,
		logger:      log,
	}
}

func (u *audioUC) Submit(ctx context.Context, req *models.ProcessRequest) (*models.ProcessJob, error) {
	if err := utils.ValidateStruct(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	story, err := u.storiesRepo.GetByID(ctx, req.StoryID)
	if err != nil {
		return nil, err
	}
	// Archiving is one way; a pipeline run must never republish.
	if story.Status == models.StoryStatusArchived {
		return nil, fmt.Errorf("%w: archived stories cannot be processed", models.ErrValidation)
	}

	job := u.registry.Create(req.StoryID)

	request := *req
	if err := u.pool.Submit(func() { u.process(job.JobID, &request) }); err != nil {
		u.logger.Errorf("Submit - pool rejected job %s: %v", job.JobID, err)
		u.registry.Fail(job.JobID, "worker queue is full")
		return u.registry.Get(job.JobID)
	}
	return job, nil
}

func (u *audioUC) GetStatus(ctx context.Context, jobID string) (*models.ProcessJob, error) {
	return u.registry.Get(jobID)
}

func (u *audioUC) Clear(ctx context.Context, jobID string) error {
	return u.registry.Delete(jobID)
}

// process runs the five pipeline stages for one job. It owns the job's
// registry entry exclusively; nothing else writes it while the job runs.
// Committed stage effects are never rolled back on a later failure.
func (u *audioUC) process(jobID string, req *models.ProcessRequest) {
	ctx := context.Background()
	u.registry.SetProcessing(jobID)

	audioURL := u.resolveAudioURL(req.AudioURL)
	u.registry.SetProgress(jobID, 10)

	u.registry.SetProgress(jobID, 30)
	transcription, err := u.transcriber.Transcribe(ctx, audioURL, req.Language)
	if err != nil {
		u.failJob(jobID, "transcription failed", err)
		return
	}
	u.registry.SetProgress(jobID, 60)

	analysis, err := u.analyzer.Analyze(ctx, transcription.Text)
	if err != nil {
		u.failJob(jobID, "analysis failed", err)
		return
	}

	publishedAt := time.Now()
	fields := &models.PublishFields{
		Transcription: models.Transcription{
			PrimaryText:    transcription.Text,
			TranslatedText: analysis.SpanishTranslation,
			Confidence:     transcription.Confidence,
		},
		Keywords:             analysis.Keywords,
		Category:             analysis.Category,
		CulturalSignificance: analysis.CulturalSignificance,
		Title:                analysis.Title,
		Description:          analysis.Description,
		PublishedAt:          publishedAt,
	}
	if err = u.storiesRepo.Publish(ctx, req.StoryID, fields); err != nil {
		u.failJob(jobID, "publishing failed", err)
		return
	}
	u.registry.SetProgress(jobID, 80)

	story, err := u.storiesRepo.GetByID(ctx, req.StoryID)
	if err != nil {
		u.failJob(jobID, "asset generation failed", err)
		return
	}
	qrURL, printableURL, err := u.generateAssets(ctx, story, analysis.Title)
	if err != nil {
		// The record stays published; assets can be regenerated later.
		u.failJob(jobID, "asset generation failed", err)
		return
	}

	if u.publisher != nil {
		event := events.StoryPublished{
			StoryID:     req.StoryID,
			Title:       analysis.Title,
			Category:    string(analysis.Category),
			PublishedAt: publishedAt,
		}
		if err = u.publisher.PublishStoryPublished(ctx, event); err != nil {
			u.logger.Warnf("process - publish event for story %s: %v", req.StoryID, err)
		}
	}

	u.registry.Complete(jobID, &models.ProcessResult{
		StoryID:        req.StoryID,
		Title:          analysis.Title,
		Category:       string(analysis.Category),
		QRUrl:          qrURL,
		PrintableQRUrl: printableURL,
		PublicURL:      story.PublicURL,
	})
	u.logger.Infof("process - job %s completed for story %s", jobID, req.StoryID)
}

func (u *audioUC) generateAssets(ctx context.Context, story *models.Story, title string) (string, string, error) {
	plain, err := u.qr.Generate(story.ID, 0)
	if err != nil {
		return "", "", errors.Wrap(err, "render qr")
	}
	printable, err := u.qr.GeneratePrintable(story.ID, title, story.Narrator.Name, story.Narrator.Community)
	if err != nil {
		return "", "", errors.Wrap(err, "render printable qr")
	}

	qrURL, err := u.blobRepo.PutObject(ctx, &models.UploadInput{
		Key:      fmt.Sprintf("qr/%s.png", story.ID),
		Name:     fmt.Sprintf("%s.png", story.ID),
		MimeType: "image/png",
		Size:     int64(len(plain)),
		File:     bytes.NewReader(plain),
	})
	if err != nil {
		return "", "", errors.Wrap(err, "upload qr")
	}
	printableURL, err := u.blobRepo.PutObject(ctx, &models.UploadInput{
		Key:      fmt.Sprintf("qr/%s_print.png", story.ID),
		Name:     fmt.Sprintf("%s_print.png", story.ID),
		MimeType: "image/png",
		Size:     int64(len(printable)),
		File:     bytes.NewReader(printable),
	})
	if err != nil {
		return "", "", errors.Wrap(err, "upload printable qr")
	}

	if err = u.storiesRepo.SetQRUrls(ctx, story.ID, qrURL, printableURL); err != nil {
		return "", "", errors.Wrap(err, "persist qr urls")
	}
	return qrURL, printableURL, nil
}

func (u *audioUC) resolveAudioURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	base := strings.TrimSuffix(u.cfg.Server.BaseURL, "/")
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return base + raw
}

func (u *audioUC) failJob(jobID, stage string, err error) {
	u.logger.Errorf("process - job %s %s: %v", jobID, stage, err)
	u.registry.Fail(jobID, fmt.Sprintf("%s: %v", stage, err))
}

func (u *audioUC) UploadAudio(ctx context.Context, input *models.UploadInput) (string, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return u.blobRepo.PutObject(ctx, input)
}

func (u *audioUC) GetPresignedUploadURL(ctx context.Context, input *models.UploadInput) (string, error) {
	if input.Name == "" {
		return "", fmt.Errorf("%w: file name is required", models.ErrValidation)
	}
	return u.blobRepo.GetPresignedPutURL(ctx, input)
}
