package http

import (
	"github.com/labstack/echo/v4"

	"github.com/nmamani/aymara-voices/internal/audio"
)

func MapAudioRoutes(audioGroup *echo.Group, h audio.Handler) {
	audioGroup.POST("/process", h.ProcessAudio())
	audioGroup.GET("/status/:job_id", h.GetStatus())
	audioGroup.DELETE("/status/:job_id", h.ClearStatus())
}

func MapUploadRoutes(uploadGroup *echo.Group, h audio.Handler) {
	uploadGroup.POST("/audio", h.UploadAudio())
	uploadGroup.POST("/presign", h.GetPresignUpload())
}
