package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nmamani/aymara-voices/internal/config"
	"github.com/nmamani/aymara-voices/pkg/logger"
)

type MiddlewareManager struct {
	cfg     *config.Config
	origins []string
	logger  logger.Logger
}

// Middleware manager constructor
func NewMiddlewareManager(cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{cfg: cfg, origins: origins, logger: logger}
}

// RequestLoggerMiddleware logs method, uri, status and latency per request.
func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		req := c.Request()
		res := c.Response()
		mw.logger.Infof("Method: %s, URI: %s, Status: %d, Size: %d, Time: %s",
			req.Method, req.RequestURI, res.Status, res.Size, time.Since(start).String(),
		)
		return err
	}
}
