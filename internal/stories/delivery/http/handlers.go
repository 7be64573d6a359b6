package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/internal/stories"
	"github.com/nmamani/aymara-voices/pkg/logger"
	"github.com/nmamani/aymara-voices/pkg/utils"
)

type storiesHandler struct {
	storiesUC stories.UseCase
	logger    logger.Logger
}

func NewStoriesHandler(storiesUC stories.UseCase, log logger.Logger) stories.Handler {
	return &storiesHandler{
		storiesUC: storiesUC,
		logger:    log,
	}
}

func (h *storiesHandler) Create() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.StoryCreateInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		story, err := h.storiesUC.Create(c.Request().Context(), input)
		if err != nil {
			h.logger.Errorf("storiesHandler.Create: %v, RequestID: %s", err, utils.GetRequestID(c))
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, story)
	}
}

func (h *storiesHandler) GetByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		story, err := h.storiesUC.GetByID(c.Request().Context(), c.Param("story_id"))
		if err != nil {
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, story)
	}
}

func (h *storiesHandler) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		filter := &models.StoryFilter{
			Status:   c.QueryParam("status"),
			Category: c.QueryParam("category"),
		}
		list, err := h.storiesUC.List(c.Request().Context(), filter, pagination)
		if err != nil {
			h.logger.Errorf("storiesHandler.List: %v, RequestID: %s", err, utils.GetRequestID(c))
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func (h *storiesHandler) Update() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.StoryUpdateInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		story, err := h.storiesUC.Update(c.Request().Context(), c.Param("story_id"), input)
		if err != nil {
			h.logger.Errorf("storiesHandler.Update: %v, RequestID: %s", err, utils.GetRequestID(c))
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, story)
	}
}

func (h *storiesHandler) Delete() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.storiesUC.Delete(c.Request().Context(), c.Param("story_id")); err != nil {
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Story archived"})
	}
}

func (h *storiesHandler) FindNearby() echo.HandlerFunc {
	return func(c echo.Context) error {
		lat, err := strconv.ParseFloat(c.QueryParam("latitude"), 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid latitude"})
		}
		lon, err := strconv.ParseFloat(c.QueryParam("longitude"), 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid longitude"})
		}
		radiusKm := 5.0
		if raw := c.QueryParam("radius_km"); raw != "" {
			if radiusKm, err = strconv.ParseFloat(raw, 64); err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid radius_km"})
			}
		}
		limit := 0
		if raw := c.QueryParam("limit"); raw != "" {
			if limit, err = strconv.Atoi(raw); err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
			}
		}

		found, err := h.storiesUC.FindNearby(c.Request().Context(), lat, lon, radiusKm, limit)
		if err != nil {
			return utils.ErrorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"stories": found,
			"count":   len(found),
			"search_location": map[string]float64{
				"latitude":  lat,
				"longitude": lon,
				"radius_km": radiusKm,
			},
		})
	}
}

func (h *storiesHandler) GetQRCode() echo.HandlerFunc {
	return func(c echo.Context) error {
		size := 0
		if raw := c.QueryParam("size"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid size"})
			}
			size = parsed
		}
		url, err := h.storiesUC.GetQRCode(c.Request().Context(), c.Param("story_id"), size)
		if err != nil {
			h.logger.Errorf("storiesHandler.GetQRCode: %v, RequestID: %s", err, utils.GetRequestID(c))
			return utils.ErrorResponse(c, err)
		}
		return c.Redirect(http.StatusFound, url)
	}
}

func (h *storiesHandler) GetPrintableQR() echo.HandlerFunc {
	return func(c echo.Context) error {
		url, err := h.storiesUC.GetPrintableQR(c.Request().Context(), c.Param("story_id"))
		if err != nil {
			h.logger.Errorf("storiesHandler.GetPrintableQR: %v, RequestID: %s", err, utils.GetRequestID(c))
			return utils.ErrorResponse(c, err)
		}
		return c.Redirect(http.StatusFound, url)
	}
}
