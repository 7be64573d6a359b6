package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nmamani/aymara-voices/internal/audio/jobs"
	"github.com/nmamani/aymara-voices/internal/config"
	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/internal/qrgen"
	"github.com/nmamani/aymara-voices/internal/transcriber"
	"github.com/nmamani/aymara-voices/pkg/logger"
)

type pipelineFixture struct {
	uc        *audioUC
	repo      *mockStoriesRepo
	blob      *mockBlobRepo
	trans     *mockTranscriber
	analyzer  *mockAnalyzer
	publisher *mockPublisher
	registry  *jobs.Registry
	pool      *jobs.Pool
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{BaseURL: "https://historias.example.com"},
		Logger: config.Logger{Development: true, Level: "debug"},
	}
	log := logger.NewApiLogger(cfg)
	log.InitLogger()

	f := &pipelineFixture{
		repo:      new(mockStoriesRepo),
		blob:      new(mockBlobRepo),
		trans:     new(mockTranscriber),
		analyzer:  new(mockAnalyzer),
		publisher: new(mockPublisher),
		registry:  jobs.NewRegistry(),
		pool:      jobs.NewPool(2, 8, log),
	}
	t.Cleanup(f.pool.Stop)

	f.uc = NewAudioUseCase(
		cfg, f.repo, f.blob, f.registry, f.pool,
		f.trans, f.analyzer,
		qrgen.NewGenerator(cfg.Server.BaseURL),
		f.publisher, log,
	).(*audioUC)
	return f
}

func validRequest() *models.ProcessRequest {
	return &models.ProcessRequest{
		StoryID:  "story-1",
		AudioURL: "/uploads/audio/rec.webm",
		Language: "ay",
	}
}

func publishedStory() *models.Story {
	return &models.Story{
		ID:     "story-1",
		Status: models.StoryStatusPublished,
		Narrator: models.Narrator{
			Name:      "Rosa Mamani",
			Community: "Jesus de Machaca",
		},
		PublicURL: "https://historias.example.com/story/story-1",
	}
}

func happyAnalysis() *transcriber.Analysis {
	return &transcriber.Analysis{
		Keywords:             []string{"lago", "condor"},
		Category:             models.CategoryLegend,
		CulturalSignificance: models.SignificanceHigh,
		Title:                "La leyenda del lago",
		Description:          "Una historia sobre el origen del lago.",
		SpanishTranslation:   "texto en espanol",
	}
}

func waitForTerminal(t *testing.T, r *jobs.Registry, jobID string) *models.ProcessJob {
	t.Helper()
	var job *models.ProcessJob
	require.Eventually(t, func() bool {
		got, err := r.Get(jobID)
		if err != nil {
			return false
		}
		job = got
		return job.Status.Terminal()
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestSubmit_HappyPathCompletesWithAllFields(t *testing.T) {
	f := newPipelineFixture(t)

	f.repo.On("GetByID", mock.Anything, "story-1").Return(publishedStory(), nil)
	f.trans.On("Transcribe", mock.Anything, "https://historias.example.com/uploads/audio/rec.webm", "ay").
		Return(&transcriber.Transcription{Text: "nayax aymara parlirista", Confidence: 1.0, Language: "ay"}, nil)
	f.analyzer.On("Analyze", mock.Anything, "nayax aymara parlirista").Return(happyAnalysis(), nil)
	f.repo.On("Publish", mock.Anything, "story-1", mock.MatchedBy(func(fields *models.PublishFields) bool {
		return fields.Transcription.PrimaryText == "nayax aymara parlirista" &&
			fields.Transcription.TranslatedText == "texto en espanol" &&
			fields.Title == "La leyenda del lago" &&
			fields.Category == models.CategoryLegend &&
			!fields.PublishedAt.IsZero()
	})).Return(nil)
	f.blob.On("PutObject", mock.Anything, mock.MatchedBy(func(in *models.UploadInput) bool {
		return in.Key == "qr/story-1.png"
	})).Return("https://cdn.example.com/qr/story-1.png", nil)
	f.blob.On("PutObject", mock.Anything, mock.MatchedBy(func(in *models.UploadInput) bool {
		return in.Key == "qr/story-1_print.png"
	})).Return("https://cdn.example.com/qr/story-1_print.png", nil)
	f.repo.On("SetQRUrls", mock.Anything, "story-1",
		"https://cdn.example.com/qr/story-1.png",
		"https://cdn.example.com/qr/story-1_print.png").Return(nil)
	f.publisher.On("PublishStoryPublished", mock.Anything, mock.Anything).Return(nil)

	job, err := f.uc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, models.JobStatusPending, job.Status)
	require.Equal(t, 0, job.Progress)

	final := waitForTerminal(t, f.registry, job.JobID)
	require.Equal(t, models.JobStatusCompleted, final.Status)
	require.Equal(t, 100, final.Progress)
	require.Empty(t, final.Error)
	require.NotNil(t, final.Result)
	require.Equal(t, "La leyenda del lago", final.Result.Title)
	require.Equal(t, "legend", final.Result.Category)
	require.Equal(t, "https://cdn.example.com/qr/story-1.png", final.Result.QRUrl)
	require.Equal(t, "https://cdn.example.com/qr/story-1_print.png", final.Result.PrintableQRUrl)
	require.Equal(t, "https://historias.example.com/story/story-1", final.Result.PublicURL)

	f.repo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestSubmit_ProgressNeverDecreases(t *testing.T) {
	f := newPipelineFixture(t)

	f.repo.On("GetByID", mock.Anything, "story-1").Return(publishedStory(), nil)
	f.trans.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(&transcriber.Transcription{Text: "texto", Confidence: 1.0}, nil)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(happyAnalysis(), nil)
	f.repo.On("Publish", mock.Anything, "story-1", mock.Anything).Return(nil)
	f.blob.On("PutObject", mock.Anything, mock.Anything).Return("https://cdn.example.com/x.png", nil)
	f.repo.On("SetQRUrls", mock.Anything, "story-1", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishStoryPublished", mock.Anything, mock.Anything).Return(nil)

	job, err := f.uc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	last := -1
	require.Eventually(t, func() bool {
		got, err := f.registry.Get(job.JobID)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got.Progress, last)
		last = got.Progress
		return got.Status.Terminal()
	}, 5*time.Second, time.Millisecond)
	require.Equal(t, 100, last)
}

func TestSubmit_UnknownStory(t *testing.T) {
	f := newPipelineFixture(t)

	f.repo.On("GetByID", mock.Anything, "missing").
		Return(nil, errors.Wrap(models.ErrNotFound, "storiesRepo.GetByID"))

	_, err := f.uc.Submit(context.Background(), &models.ProcessRequest{
		StoryID:  "missing",
		AudioURL: "/uploads/audio/rec.webm",
	})
	require.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSubmit_RejectsArchivedStory(t *testing.T) {
	f := newPipelineFixture(t)

	archived := publishedStory()
	archived.Status = models.StoryStatusArchived
	f.repo.On("GetByID", mock.Anything, "story-1").Return(archived, nil)

	_, err := f.uc.Submit(context.Background(), validRequest())
	require.True(t, errors.Is(err, models.ErrValidation))
	f.trans.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_FailsWhenStoryArchivedMidFlight(t *testing.T) {
	f := newPipelineFixture(t)

	f.repo.On("GetByID", mock.Anything, "story-1").Return(publishedStory(), nil)
	f.trans.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(&transcriber.Transcription{Text: "texto", Confidence: 1.0}, nil)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(happyAnalysis(), nil)
	// The guarded persist write matches no rows once the story is archived.
	f.repo.On("Publish", mock.Anything, "story-1", mock.Anything).
		Return(errors.Wrap(models.ErrNotFound, "storiesRepo.Publish"))

	job, err := f.uc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	final := waitForTerminal(t, f.registry, job.JobID)
	require.Equal(t, models.JobStatusFailed, final.Status)
	require.Contains(t, final.Error, "publishing failed")
	f.blob.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestSubmit_ValidatesRequest(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.uc.Submit(context.Background(), &models.ProcessRequest{StoryID: "story-1"})
	require.True(t, errors.Is(err, models.ErrValidation))
	f.repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestProcess_TranscriptionFailureFailsJob(t *testing.T) {
	f := newPipelineFixture(t)

	f.repo.On("GetByID", mock.Anything, "story-1").Return(publishedStory(), nil)
	f.trans.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.Wrap(models.ErrUpstream, "groq: status 500"))

	job, err := f.uc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	final := waitForTerminal(t, f.registry, job.JobID)
	require.Equal(t, models.JobStatusFailed, final.Status)
	require.Contains(t, final.Error, "transcription failed")
	f.repo.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_AnalysisFailureLeavesRecordUnpublished(t *testing.T) {
	f := newPipelineFixture(t)

	f.repo.On("GetByID", mock.Anything, "story-1").Return(publishedStory(), nil)
	f.trans.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(&transcriber.Transcription{Text: "texto", Confidence: 1.0}, nil)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, errors.Wrap(models.ErrUpstream, "groq: rate limited"))

	job, err := f.uc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	final := waitForTerminal(t, f.registry, job.JobID)
	require.Equal(t, models.JobStatusFailed, final.Status)
	require.NotEmpty(t, final.Error)
	require.Contains(t, final.Error, "analysis failed")
	f.repo.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	f.blob.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestProcess_AssetFailureKeepsRecordPublished(t *testing.T) {
	f := newPipelineFixture(t)

	f.repo.On("GetByID", mock.Anything, "story-1").Return(publishedStory(), nil)
	f.trans.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(&transcriber.Transcription{Text: "texto", Confidence: 1.0}, nil)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(happyAnalysis(), nil)
	f.repo.On("Publish", mock.Anything, "story-1", mock.Anything).Return(nil)
	f.blob.On("PutObject", mock.Anything, mock.Anything).
		Return("", errors.Wrap(models.ErrUpstream, "s3 unreachable"))

	job, err := f.uc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	final := waitForTerminal(t, f.registry, job.JobID)
	require.Equal(t, models.JobStatusFailed, final.Status)
	require.Contains(t, final.Error, "asset generation failed")

	// Publish already ran; the record stays published without assets.
	f.repo.AssertCalled(t, "Publish", mock.Anything, "story-1", mock.Anything)
	f.repo.AssertNotCalled(t, "SetQRUrls", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_EventFailureDoesNotFailJob(t *testing.T) {
	f := newPipelineFixture(t)

	f.repo.On("GetByID", mock.Anything, "story-1").Return(publishedStory(), nil)
	f.trans.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(&transcriber.Transcription{Text: "texto", Confidence: 1.0}, nil)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(happyAnalysis(), nil)
	f.repo.On("Publish", mock.Anything, "story-1", mock.Anything).Return(nil)
	f.blob.On("PutObject", mock.Anything, mock.Anything).Return("https://cdn.example.com/x.png", nil)
	f.repo.On("SetQRUrls", mock.Anything, "story-1", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishStoryPublished", mock.Anything, mock.Anything).
		Return(errors.New("broker down"))

	job, err := f.uc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	final := waitForTerminal(t, f.registry, job.JobID)
	require.Equal(t, models.JobStatusCompleted, final.Status)
}

func TestSubmit_QueueFullFailsJobImmediately(t *testing.T) {
	f := newPipelineFixture(t)

	// Saturate the pool with blocked tasks plus a full queue.
	block := make(chan struct{})
	defer close(block)
	var started sync.WaitGroup
	for i := 0; i < 2; i++ {
		started.Add(1)
		require.NoError(t, f.pool.Submit(func() {
			started.Done()
			<-block
		}))
	}
	started.Wait()
	for f.pool.Submit(func() { <-block }) == nil {
	}

	f.repo.On("GetByID", mock.Anything, "story-1").Return(publishedStory(), nil)

	job, err := f.uc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, models.JobStatusFailed, job.Status)
	require.Equal(t, "worker queue is full", job.Error)
}

func TestStatusAndClear(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	_, err := f.uc.GetStatus(ctx, "nope")
	require.True(t, errors.Is(err, models.ErrNotFound))

	err = f.uc.Clear(ctx, "nope")
	require.True(t, errors.Is(err, models.ErrNotFound))

	f.repo.On("GetByID", mock.Anything, "story-1").Return(publishedStory(), nil)
	f.trans.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.Wrap(models.ErrUpstream, "boom"))

	job, err := f.uc.Submit(ctx, validRequest())
	require.NoError(t, err)
	waitForTerminal(t, f.registry, job.JobID)

	require.NoError(t, f.uc.Clear(ctx, job.JobID))
	_, err = f.uc.GetStatus(ctx, job.JobID)
	require.True(t, errors.Is(err, models.ErrNotFound))
}

func TestProcess_ConcurrentJobsAreIndependent(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	okStory := publishedStory()
	f.repo.On("GetByID", mock.Anything, "story-1").Return(okStory, nil)
	badStory := publishedStory()
	badStory.ID = "story-2"
	f.repo.On("GetByID", mock.Anything, "story-2").Return(badStory, nil)

	f.trans.On("Transcribe", mock.Anything, "https://historias.example.com/uploads/a.webm", mock.Anything).
		Return(&transcriber.Transcription{Text: "texto", Confidence: 1.0}, nil)
	f.trans.On("Transcribe", mock.Anything, "https://historias.example.com/uploads/b.webm", mock.Anything).
		Return(nil, errors.Wrap(models.ErrUpstream, "groq: status 500"))
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(happyAnalysis(), nil)
	f.repo.On("Publish", mock.Anything, "story-1", mock.Anything).Return(nil)
	f.blob.On("PutObject", mock.Anything, mock.Anything).Return("https://cdn.example.com/x.png", nil)
	f.repo.On("SetQRUrls", mock.Anything, "story-1", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishStoryPublished", mock.Anything, mock.Anything).Return(nil)

	okJob, err := f.uc.Submit(ctx, &models.ProcessRequest{StoryID: "story-1", AudioURL: "/uploads/a.webm"})
	require.NoError(t, err)
	badJob, err := f.uc.Submit(ctx, &models.ProcessRequest{StoryID: "story-2", AudioURL: "/uploads/b.webm"})
	require.NoError(t, err)

	okFinal := waitForTerminal(t, f.registry, okJob.JobID)
	badFinal := waitForTerminal(t, f.registry, badJob.JobID)

	require.Equal(t, models.JobStatusCompleted, okFinal.Status)
	require.Equal(t, models.JobStatusFailed, badFinal.Status)
}

func TestUploadAudio_Validates(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.uc.UploadAudio(context.Background(), &models.UploadInput{})
	require.True(t, errors.Is(err, models.ErrValidation))
	f.blob.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestGetPresignedUploadURL(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.uc.GetPresignedUploadURL(context.Background(), &models.UploadInput{})
	require.True(t, errors.Is(err, models.ErrValidation))

	f.blob.On("GetPresignedPutURL", mock.Anything, mock.Anything).
		Return("https://s3.example.com/presigned", nil)

	url, err := f.uc.GetPresignedUploadURL(context.Background(), &models.UploadInput{Name: "rec.webm"})
	require.NoError(t, err)
	require.Equal(t, "https://s3.example.com/presigned", url)
}
