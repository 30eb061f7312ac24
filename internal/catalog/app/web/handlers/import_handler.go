package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storesync_api/internal/catalog/business/models"
	"storesync_api/internal/catalog/storage/repositories"
	"storesync_api/pkg/middleware"
)

const recentJobsLimit = 10

type importRunner interface {
	Run(ctx context.Context, cfg models.ImportConfig, createdBy string) (*models.ImportJob, error)
}

type jobReader interface {
	Get(ctx context.Context, jobID string) (*models.ImportJob, error)
	Recent(ctx context.Context, limit int) ([]models.ImportJob, error)
}

type diffReader interface {
	Unpublished(ctx context.Context, supplier string) ([]models.SupplierItem, error)
}

type ImportHandler struct {
	importer importRunner
	jobs     jobReader
	staging  diffReader
	supplier string
}

func NewImportHandler(importer importRunner, jobs jobReader, staging diffReader, supplier string) *ImportHandler {
	return &ImportHandler{importer: importer, jobs: jobs, staging: staging, supplier: supplier}
}

type runImportRequest struct {
	Manufacturers []string `json:"manufacturers"`
	Categories    []string `json:"categories"`
	SearchText    string   `json:"searchText"`
	MaxPages      int      `json:"maxPages"`
}

func (h *ImportHandler) RunImport(c echo.Context) error {
	var req runImportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	createdBy, _ := c.Get(middleware.UserIDKey).(string)

	job, err := h.importer.Run(c.Request().Context(), models.ImportConfig{
		Manufacturers: req.Manufacturers,
		Categories:    req.Categories,
		SearchText:    req.SearchText,
		MaxPages:      req.MaxPages,
	}, createdBy)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to start import job"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"jobId":  job.ID,
		"status": "started",
	})
}

// ImportStatus returns one job by id, or the most recent jobs when no
// id is given.
func (h *ImportHandler) ImportStatus(c echo.Context) error {
	jobID := c.QueryParam("jobId")
	if jobID == "" {
		jobs, err := h.jobs.Recent(c.Request().Context(), recentJobsLimit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list jobs"})
		}
		if jobs == nil {
			jobs = []models.ImportJob{}
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"jobs": jobs})
	}

	job, err := h.jobs.Get(c.Request().Context(), jobID)
	if errors.Is(err, repositories.ErrJobNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load job"})
	}
	return c.JSON(http.StatusOK, job)
}

type diffItem struct {
	ItemNumber   string `json:"item_number"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Title        string `json:"title,omitempty"`
	Category     string `json:"category,omitempty"`
	ItemStatus   string `json:"item_status,omitempty"`
}

// ImportDiff lists staged items not yet linked to a product.
func (h *ImportHandler) ImportDiff(c echo.Context) error {
	items, err := h.staging.Unpublished(c.Request().Context(), h.supplier)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute diff"})
	}

	diff := make([]diffItem, 0, len(items))
	for _, item := range items {
		diff = append(diff, diffItem{
			ItemNumber:   item.ItemNumber,
			Manufacturer: item.Manufacturer,
			Title:        item.Title,
			Category:     item.Category,
			ItemStatus:   item.ItemStatus,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": diff, "count": len(diff)})
}
