package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"storesync_api/internal/catalog/business/models"
)

type stagingReader interface {
	List(ctx context.Context, page, pageSize int) ([]models.SupplierItem, int, error)
	Clear(ctx context.Context) (int64, error)
}

type StagingHandler struct {
	staging stagingReader
}

func NewStagingHandler(staging stagingReader) *StagingHandler {
	return &StagingHandler{staging: staging}
}

type stagingItem struct {
	ItemNumber             string    `json:"item_number"`
	ManufacturerItemNumber string    `json:"manufacturer_item_number,omitempty"`
	Manufacturer           string    `json:"manufacturer,omitempty"`
	Title                  string    `json:"title,omitempty"`
	Category               string    `json:"category,omitempty"`
	ProductFamily          string    `json:"product_family,omitempty"`
	ItemStatus             string    `json:"item_status,omitempty"`
	PricingContext         string    `json:"pricing_context,omitempty"`
	Discontinued           bool      `json:"discontinued"`
	SyncedAt               time.Time `json:"synced_at"`
}

func (h *StagingHandler) ListItems(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	items, total, err := h.staging.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list staging items"})
	}

	listing := make([]stagingItem, 0, len(items))
	for _, item := range items {
		listing = append(listing, stagingItem{
			ItemNumber:             item.ItemNumber,
			ManufacturerItemNumber: item.ManufacturerItemNumber,
			Manufacturer:           item.Manufacturer,
			Title:                  item.Title,
			Category:               item.Category,
			ProductFamily:          item.ProductFamily,
			ItemStatus:             item.ItemStatus,
			PricingContext:         item.Pricing.ContextTag,
			Discontinued:           item.Discontinued,
			SyncedAt:               item.SyncedAt,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": listing,
		"total": total,
	})
}

func (h *StagingHandler) ClearItems(c echo.Context) error {
	deleted, err := h.staging.Clear(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to clear staging table"})
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}
