package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"storesync_api/internal/catalog/storage"
	"storesync_api/pkg/logger"
)

func stockTestHandler(backfill stockBackfill) *StockHandler {
	return &StockHandler{
		backfill: backfill,
		log:      logger.NewLogger(io.Discard, "[test]"),
	}
}

func TestRunStockUpdateSuccess(t *testing.T) {
	handler := stockTestHandler(func(context.Context, *sql.DB) (*storage.StockBackfillResult, error) {
		return &storage.StockBackfillResult{
			AlterColumn:     "done",
			BackfillUpdated: 42,
			SetDefault:      "done",
			Index:           "done",
		}, nil
	})

	c, rec := newTestContext(http.MethodPost, "/api/run-products-stock-update", "")
	if err := handler.RunStockUpdate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success bool                        `json:"success"`
		Details storage.StockBackfillResult `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !body.Success || body.Details.BackfillUpdated != 42 {
		t.Fatalf("unexpected response %+v", body)
	}
}

func TestRunStockUpdateFailure(t *testing.T) {
	handler := stockTestHandler(func(context.Context, *sql.DB) (*storage.StockBackfillResult, error) {
		return nil, errors.New("column type conflict")
	})

	c, rec := newTestContext(http.MethodPost, "/api/run-products-stock-update", "")
	if err := handler.RunStockUpdate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["success"] != false {
		t.Fatalf("expected success false, got %v", body)
	}
}
