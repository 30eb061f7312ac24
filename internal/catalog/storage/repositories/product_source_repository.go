package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type ProductSourceRepository struct {
	db *sql.DB
}

func NewProductSourceRepository(db *sql.DB) *ProductSourceRepository {
	return &ProductSourceRepository{db: db}
}

// FindProductID returns the linked product for (supplier, itemNumber),
// if the link exists. Link presence means "already published".
func (r *ProductSourceRepository) FindProductID(ctx context.Context, supplier, itemNumber string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"SELECT product_id FROM catalog.product_sources WHERE supplier = $1 AND item_number = $2",
		supplier, itemNumber).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("looking up product source %s/%s: %w", supplier, itemNumber, err)
	}
	return id, true, nil
}

func (r *ProductSourceRepository) Link(ctx context.Context, productID int64, supplier, itemNumber string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO catalog.product_sources (product_id, supplier, item_number, created_at)
		VALUES ($1, $2, $3, $4)
	`, productID, supplier, itemNumber, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("linking product %d to %s/%s: %w", productID, supplier, itemNumber, err)
	}
	return nil
}
