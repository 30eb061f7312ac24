package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"storesync_api/internal/catalog/business/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Insert(ctx context.Context, product *models.Product) (int64, error) {
	var dimensions []byte
	if product.Dimensions != nil {
		var err error
		dimensions, err = json.Marshal(product.Dimensions)
		if err != nil {
			return 0, fmt.Errorf("encoding dimensions: %w", err)
		}
	}

	var brandID interface{}
	if product.BrandID != 0 {
		brandID = product.BrandID
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO catalog.products (
			sku, title, description, brand_id, price, map_price, cost,
			weight, dimensions, images, tags, category, stock_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING product_id
	`,
		product.SKU, product.Title, product.Description, brandID,
		product.Price, product.MapPrice, product.Cost, product.Weight,
		dimensions, pq.Array(product.Images), pq.Array(product.Tags),
		product.Category, product.StockStatus, product.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting product %s: %w", product.SKU, err)
	}
	return id, nil
}
