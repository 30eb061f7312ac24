package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"storesync_api/internal/catalog/business/models"
)

var ErrItemNotFound = errors.New("supplier item not found")

type SupplierItemRepository struct {
	db *sql.DB
}

func NewSupplierItemRepository(db *sql.DB) *SupplierItemRepository {
	return &SupplierItemRepository{db: db}
}

func (r *SupplierItemRepository) Exists(ctx context.Context, itemNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM catalog.supplier_items WHERE item_number = $1)",
		itemNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking staged item %s: %w", itemNumber, err)
	}
	return exists, nil
}

// Save upserts a staged record keyed on item_number. ON CONFLICT keeps
// a concurrent-insert race from failing; it degrades to a second update.
func (r *SupplierItemRepository) Save(ctx context.Context, item *models.SupplierItem) error {
	detail, err := json.Marshal(item.Detail)
	if err != nil {
		return fmt.Errorf("encoding detail payload: %w", err)
	}
	pricing, err := json.Marshal(item.Pricing)
	if err != nil {
		return fmt.Errorf("encoding pricing payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO catalog.supplier_items (
			item_number, manufacturer_item_number, manufacturer, title,
			catalog, category, product_family, item_status, images,
			detail, pricing, discontinued, manufacturer_norm, category_norm, synced_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (item_number) DO UPDATE SET
			manufacturer_item_number = EXCLUDED.manufacturer_item_number,
			manufacturer = EXCLUDED.manufacturer,
			title = EXCLUDED.title,
			catalog = EXCLUDED.catalog,
			category = EXCLUDED.category,
			product_family = EXCLUDED.product_family,
			item_status = EXCLUDED.item_status,
			images = EXCLUDED.images,
			detail = EXCLUDED.detail,
			pricing = EXCLUDED.pricing,
			discontinued = EXCLUDED.discontinued,
			manufacturer_norm = EXCLUDED.manufacturer_norm,
			category_norm = EXCLUDED.category_norm,
			synced_at = EXCLUDED.synced_at
	`,
		item.ItemNumber, item.ManufacturerItemNumber, item.Manufacturer, item.Title,
		item.Catalog, item.Category, item.ProductFamily, item.ItemStatus, pq.Array(item.Images),
		detail, pricing, item.Discontinued, item.ManufacturerNorm, item.CategoryNorm, item.SyncedAt)
	if err != nil {
		return fmt.Errorf("saving staged item %s: %w", item.ItemNumber, err)
	}
	return nil
}

func (r *SupplierItemRepository) Get(ctx context.Context, itemNumber string) (*models.SupplierItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT item_number, manufacturer_item_number, manufacturer, title,
		       catalog, category, product_family, item_status, images,
		       detail, pricing, discontinued, manufacturer_norm, category_norm, synced_at
		FROM catalog.supplier_items
		WHERE item_number = $1
	`, itemNumber)

	item, err := scanSupplierItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading staged item %s: %w", itemNumber, err)
	}
	return item, nil
}

func (r *SupplierItemRepository) List(ctx context.Context, page, pageSize int) ([]models.SupplierItem, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog.supplier_items").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting staged items: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT item_number, manufacturer_item_number, manufacturer, title,
		       catalog, category, product_family, item_status, images,
		       detail, pricing, discontinued, manufacturer_norm, category_norm, synced_at
		FROM catalog.supplier_items
		ORDER BY item_number
		LIMIT $1 OFFSET $2
	`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("listing staged items: %w", err)
	}
	defer rows.Close()

	items, err := collectSupplierItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Unpublished returns staged items with no product link for the given
// supplier: the publish diff.
func (r *SupplierItemRepository) Unpublished(ctx context.Context, supplier string) ([]models.SupplierItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT si.item_number, si.manufacturer_item_number, si.manufacturer, si.title,
		       si.catalog, si.category, si.product_family, si.item_status, si.images,
		       si.detail, si.pricing, si.discontinued, si.manufacturer_norm, si.category_norm, si.synced_at
		FROM catalog.supplier_items si
		LEFT JOIN catalog.product_sources ps
		  ON ps.item_number = si.item_number AND ps.supplier = $1
		WHERE ps.product_id IS NULL
		ORDER BY si.item_number
	`, supplier)
	if err != nil {
		return nil, fmt.Errorf("listing unpublished items: %w", err)
	}
	defer rows.Close()

	return collectSupplierItems(rows)
}

func (r *SupplierItemRepository) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM catalog.supplier_items")
	if err != nil {
		return 0, fmt.Errorf("clearing staging table: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSupplierItem(row rowScanner) (*models.SupplierItem, error) {
	var (
		item        models.SupplierItem
		images      []string
		detailRaw   []byte
		pricingRaw  []byte
		syncedAt    sql.NullTime
		mfrItem     sql.NullString
		mfr         sql.NullString
		title       sql.NullString
		catalogName sql.NullString
		category    sql.NullString
		family      sql.NullString
		status      sql.NullString
		mfrNorm     sql.NullString
		catNorm     sql.NullString
	)

	err := row.Scan(&item.ItemNumber, &mfrItem, &mfr, &title,
		&catalogName, &category, &family, &status, pq.Array(&images),
		&detailRaw, &pricingRaw, &item.Discontinued, &mfrNorm, &catNorm, &syncedAt)
	if err != nil {
		return nil, err
	}

	item.ManufacturerItemNumber = mfrItem.String
	item.Manufacturer = mfr.String
	item.Title = title.String
	item.Catalog = catalogName.String
	item.Category = category.String
	item.ProductFamily = family.String
	item.ItemStatus = status.String
	item.ManufacturerNorm = mfrNorm.String
	item.CategoryNorm = catNorm.String
	item.Images = images
	if syncedAt.Valid {
		item.SyncedAt = syncedAt.Time
	}
	if len(detailRaw) > 0 {
		if err := json.Unmarshal(detailRaw, &item.Detail); err != nil {
			return nil, fmt.Errorf("decoding detail payload: %w", err)
		}
	}
	if len(pricingRaw) > 0 {
		if err := json.Unmarshal(pricingRaw, &item.Pricing); err != nil {
			return nil, fmt.Errorf("decoding pricing payload: %w", err)
		}
	}
	return &item, nil
}

func collectSupplierItems(rows *sql.Rows) ([]models.SupplierItem, error) {
	var items []models.SupplierItem
	for rows.Next() {
		item, err := scanSupplierItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
