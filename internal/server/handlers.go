package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	audioHttp "github.com/nmamani/aymara-voices/internal/audio/delivery/http"
	"github.com/nmamani/aymara-voices/internal/audio/jobs"
	audioUsecase "github.com/nmamani/aymara-voices/internal/audio/usecase"
	"github.com/nmamani/aymara-voices/internal/middleware"
	"github.com/nmamani/aymara-voices/internal/qrgen"
	storiesHttp "github.com/nmamani/aymara-voices/internal/stories/delivery/http"
	storiesRepository "github.com/nmamani/aymara-voices/internal/stories/repository"
	storiesUsecase "github.com/nmamani/aymara-voices/internal/stories/usecase"
	"github.com/nmamani/aymara-voices/internal/transcriber/groq"
	"github.com/nmamani/aymara-voices/pkg/utils"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	sRepo := storiesRepository.NewStoriesRepo(s.db)
	sRedisRepo := storiesRepository.NewStoriesCacheRepo(s.redisClient)
	sAWSRepo := storiesRepository.NewAwsRepository(s.s3Client, s.preSignClient, s.cfg.S3.MediaBucket, s.cfg.S3.PublicBaseURL)

	qrGenerator := qrgen.NewGenerator(s.cfg.Server.BaseURL)
	groqClient := groq.NewClient(&s.cfg.Groq, s.logger)
	registry := jobs.NewRegistry()
	s.pool = jobs.NewPool(s.cfg.Pipeline.WorkerCount, s.cfg.Pipeline.QueueSize, s.logger)

	storiesUC := storiesUsecase.NewStoriesUseCase(s.cfg, sRepo, sRedisRepo, sAWSRepo, qrGenerator, s.logger)
	audioUC := audioUsecase.NewAudioUseCase(
		s.cfg, sRepo, sAWSRepo, registry, s.pool,
		groqClient, groqClient, qrGenerator, s.publisher, s.logger,
	)

	storiesHandlers := storiesHttp.NewStoriesHandler(storiesUC, s.logger)
	audioHandlers := audioHttp.NewAudioHandler(audioUC, s.logger)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	storiesGroup := v1.Group("/stories")
	audioGroup := v1.Group("/audio")
	uploadGroup := v1.Group("/upload")
	qrGroup := v1.Group("/qr")

	storiesHttp.MapStoriesRoutes(storiesGroup, storiesHandlers)
	storiesHttp.MapQRRoutes(qrGroup, storiesHandlers)
	audioHttp.MapAudioRoutes(audioGroup, audioHandlers)
	audioHttp.MapUploadRoutes(uploadGroup, audioHandlers)

	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
