package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storesync_api/internal/catalog/business/models"
	"storesync_api/internal/catalog/business/services"
)

type publisher interface {
	Publish(ctx context.Context, itemNumbers []string) ([]models.PublishResult, error)
}

type PublishHandler struct {
	publisher publisher
}

func NewPublishHandler(p publisher) *PublishHandler {
	return &PublishHandler{publisher: p}
}

type publishRequest struct {
	ItemNumbers []string          `json:"item_numbers"`
	Mapping     map[string]string `json:"mapping"`
	Upsert      bool              `json:"upsert"`
}

func (h *PublishHandler) Publish(c echo.Context) error {
	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(req.ItemNumbers) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "item_numbers is required"})
	}

	results, err := h.publisher.Publish(c.Request().Context(), req.ItemNumbers)
	if errors.Is(err, services.ErrTooManyItems) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "publish failed"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"results": results})
}
