package http

import (
	"github.com/labstack/echo/v4"

	"github.com/nmamani/aymara-voices/internal/stories"
)

func MapStoriesRoutes(storiesGroup *echo.Group, h stories.Handler) {
	storiesGroup.POST("", h.Create())
	storiesGroup.GET("", h.List())
	storiesGroup.GET("/nearby/search", h.FindNearby())
	storiesGroup.GET("/:story_id", h.GetByID())
	storiesGroup.PUT("/:story_id", h.Update())
	storiesGroup.DELETE("/:story_id", h.Delete())
}

// QR routes live under their own group so the printable poster and the
// plain code share the /qr prefix. Both redirect to the stored asset,
// generating it on first request.
func MapQRRoutes(qrGroup *echo.Group, h stories.Handler) {
	qrGroup.GET("/:story_id", h.GetQRCode())
	qrGroup.GET("/:story_id/print", h.GetPrintableQR())
}
