package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type BrandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

// FindIDByName matches case-insensitively against existing brands.
func (r *BrandRepository) FindIDByName(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"SELECT brand_id FROM catalog.brands WHERE LOWER(name) = LOWER($1)",
		name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("looking up brand %q: %w", name, err)
	}
	return id, true, nil
}

func (r *BrandRepository) Create(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO catalog.brands (name) VALUES ($1) RETURNING brand_id",
		name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating brand %q: %w", name, err)
	}
	return id, nil
}
