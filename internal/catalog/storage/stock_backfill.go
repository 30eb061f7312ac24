package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// StockBackfillResult reports each step of the backfill transaction.
type StockBackfillResult struct {
	AlterColumn     string `json:"alter_column"`
	BackfillUpdated int64  `json:"backfill_updated"`
	SetDefault      string `json:"set_default"`
	Index           string `json:"index"`
}

// RunStockBackfill adds and populates products.stock_available inside
// one transaction: column add, backfill from the linked staged pricing
// payload, column default, supporting index. Any step failing rolls
// back all four.
func RunStockBackfill(ctx context.Context, db *sql.DB) (*StockBackfillResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin stock backfill: %w", err)
	}
	defer tx.Rollback()

	result := &StockBackfillResult{}

	if _, err := tx.ExecContext(ctx, `
		ALTER TABLE catalog.products
		ADD COLUMN IF NOT EXISTS stock_available INT
	`); err != nil {
		return nil, fmt.Errorf("add stock_available column: %w", err)
	}
	result.AlterColumn = "ok"

	res, err := tx.ExecContext(ctx, `
		UPDATE catalog.products AS p
		SET stock_available = COALESCE(
			NULLIF(si.pricing -> 'rows' -> 0 ->> 'Availability', '')::numeric::int,
			NULLIF(si.pricing -> 'rows' -> 0 ->> 'availability', '')::numeric::int,
			NULLIF(si.pricing -> 'rows' -> 0 ->> 'QtyAvailable', '')::numeric::int,
			NULLIF(si.pricing -> 'rows' -> 0 ->> 'qty_available', '')::numeric::int,
			NULLIF(si.pricing -> 'rows' -> 0 ->> 'Stock', '')::numeric::int,
			0)
		FROM catalog.product_sources ps
		JOIN catalog.supplier_items si ON si.item_number = ps.item_number
		WHERE ps.product_id = p.product_id
	`)
	if err != nil {
		return nil, fmt.Errorf("backfill stock_available: %w", err)
	}
	result.BackfillUpdated, err = res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("backfill rows affected: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		ALTER TABLE catalog.products
		ALTER COLUMN stock_available SET DEFAULT 0
	`); err != nil {
		return nil, fmt.Errorf("set stock_available default: %w", err)
	}
	result.SetDefault = "ok"

	if _, err := tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS products_stock_available_idx
		ON catalog.products(stock_available)
	`); err != nil {
		return nil, fmt.Errorf("create stock_available index: %w", err)
	}
	result.Index = "ok"

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stock backfill: %w", err)
	}
	return result, nil
}
