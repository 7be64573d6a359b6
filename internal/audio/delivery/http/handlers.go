package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nmamani/aymara-voices/internal/audio"
	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/pkg/logger"
	"github.com/nmamani/aymara-voices/pkg/utils"
)

const maxAudioUploadSize = 50 << 20 // 50MB

type audioHandler struct {
	audioUC audio.UseCase
	logger  logger.Logger
}

func NewAudioHandler(audioUC audio.UseCase, log logger.Logger) audio.Handler {
	return &audioHandler{
		audioUC: audioUC,
		logger:  log,
	}
}

func (h *audioHandler) ProcessAudio() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &models.ProcessRequest{}
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		job, err := h.audioUC.Submit(c.Request().Context(), req)
		if err != nil {
			h.logger.Errorf("audioHandler.ProcessAudio: %v, RequestID: %s", err, utils.GetRequestID(c))
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusAccepted, models.ProcessResponse{
			JobID:   job.JobID,
			Status:  job.Status,
			Message: "Audio processing started. Use /audio/status/{job_id} to check progress.",
		})
	}
}

func (h *audioHandler) GetStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := h.audioUC.GetStatus(c.Request().Context(), c.Param("job_id"))
		if err != nil {
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *audioHandler) ClearStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.audioUC.Clear(c.Request().Context(), c.Param("job_id")); err != nil {
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Job status cleared"})
	}
}

func (h *audioHandler) UploadAudio() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Audio file is required"})
		}
		if fileHeader.Size > maxAudioUploadSize {
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "Audio file exceeds 50MB"})
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "audio/") {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Content type must be audio/*"})
		}

		src, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Could not read audio file"})
		}
		defer src.Close()

		url, err := h.audioUC.UploadAudio(c.Request().Context(), &models.UploadInput{
			Key:      "audio/" + fileHeader.Filename,
			Name:     fileHeader.Filename,
			MimeType: contentType,
			Size:     fileHeader.Size,
			File:     src,
		})
		if err != nil {
			h.logger.Errorf("audioHandler.UploadAudio: %v, RequestID: %s", err, utils.GetRequestID(c))
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]string{"audio_url": url})
	}
}

func (h *audioHandler) GetPresignUpload() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.UploadInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		presignURL, err := h.audioUC.GetPresignedUploadURL(c.Request().Context(), input)
		if err != nil {
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"presign_url": presignURL})
	}
}
