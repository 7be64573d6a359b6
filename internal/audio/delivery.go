package audio

import "github.com/labstack/echo/v4"

type Handler interface {
	ProcessAudio() echo.HandlerFunc
	GetStatus() echo.HandlerFunc
	ClearStatus() echo.HandlerFunc
	UploadAudio() echo.HandlerFunc
	GetPresignUpload() echo.HandlerFunc
}
