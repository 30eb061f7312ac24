package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"storesync_api/internal/catalog/storage"
	"storesync_api/pkg/logger"
)

type stockBackfill func(ctx context.Context, db *sql.DB) (*storage.StockBackfillResult, error)

type StockHandler struct {
	db       *sql.DB
	backfill stockBackfill
	log      logger.Logger
}

func NewStockHandler(db *sql.DB, log logger.Logger) *StockHandler {
	return &StockHandler{db: db, backfill: storage.RunStockBackfill, log: log}
}

// RunStockUpdate triggers the transactional stock backfill. The whole
// migration commits or rolls back as one unit.
func (h *StockHandler) RunStockUpdate(c echo.Context) error {
	result, err := h.backfill(c.Request().Context(), h.db)
	if err != nil {
		h.log.Log("stock backfill failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"details": result,
	})
}
