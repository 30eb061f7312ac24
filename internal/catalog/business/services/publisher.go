package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storesync_api/internal/catalog/business/models"
	"storesync_api/internal/catalog/storage/repositories"
	"storesync_api/internal/supplier/business/models/dto/response"
	supplier "storesync_api/internal/supplier/business/services"
	"storesync_api/pkg/logger"
)

const maxPublishBatch = 20

var ErrTooManyItems = fmt.Errorf("at most %d item numbers per publish call", maxPublishBatch)

type publishStaging interface {
	Get(ctx context.Context, itemNumber string) (*models.SupplierItem, error)
}

type brandStore interface {
	FindIDByName(ctx context.Context, name string) (int64, bool, error)
	Create(ctx context.Context, name string) (int64, error)
}

type productStore interface {
	Insert(ctx context.Context, product *models.Product) (int64, error)
}

type sourceStore interface {
	FindProductID(ctx context.Context, supplier, itemNumber string) (int64, bool, error)
	Link(ctx context.Context, productID int64, supplier, itemNumber string) error
}

// PublishService maps staged supplier records into the local product
// schema and records the supplier linkage.
type PublishService struct {
	staging  publishStaging
	brands   brandStore
	products productStore
	sources  sourceStore
	supplier string
	log      logger.Logger
}

func NewPublishService(staging publishStaging, brands brandStore, products productStore,
	sources sourceStore, supplierName string, log logger.Logger) *PublishService {
	return &PublishService{
		staging:  staging,
		brands:   brands,
		products: products,
		sources:  sources,
		supplier: supplierName,
		log:      log,
	}
}

// Publish handles every item number independently; one bad item yields
// an error result for that item, never a failure of the whole call.
func (s *PublishService) Publish(ctx context.Context, itemNumbers []string) ([]models.PublishResult, error) {
	if len(itemNumbers) > maxPublishBatch {
		return nil, ErrTooManyItems
	}

	results := make([]models.PublishResult, 0, len(itemNumbers))
	for _, itemNumber := range itemNumbers {
		results = append(results, s.publishOne(ctx, itemNumber))
	}
	return results, nil
}

func (s *PublishService) publishOne(ctx context.Context, itemNumber string) models.PublishResult {
	result := models.PublishResult{ItemNumber: itemNumber}

	item, err := s.staging.Get(ctx, itemNumber)
	if errors.Is(err, repositories.ErrItemNotFound) {
		result.Status = models.PublishStatusNotFound
		return result
	}
	if err != nil {
		result.Status = models.PublishStatusError
		result.Error = err.Error()
		return result
	}

	if productID, linked, err := s.sources.FindProductID(ctx, s.supplier, itemNumber); err != nil {
		result.Status = models.PublishStatusError
		result.Error = err.Error()
		return result
	} else if linked {
		result.Status = models.PublishStatusAlreadyPublished
		result.ProductID = productID
		return result
	}

	product, err := s.mapProduct(ctx, item)
	if err != nil {
		result.Status = models.PublishStatusError
		result.Error = err.Error()
		return result
	}

	productID, err := s.products.Insert(ctx, product)
	if err != nil {
		result.Status = models.PublishStatusError
		result.Error = err.Error()
		return result
	}

	if err := s.sources.Link(ctx, productID, s.supplier, itemNumber); err != nil {
		result.Status = models.PublishStatusError
		result.Error = err.Error()
		return result
	}

	result.Status = models.PublishStatusPublished
	result.ProductID = productID
	return result
}

func (s *PublishService) mapProduct(ctx context.Context, item *models.SupplierItem) (*models.Product, error) {
	product := &models.Product{
		SKU:         item.ItemNumber,
		Title:       item.Title,
		Category:    item.Category,
		StockStatus: item.ItemStatus,
		Images:      dedupeImages(item.Images),
		Tags:        deriveTags(item),
		CreatedAt:   time.Now().UTC(),
	}

	if description, ok := supplier.FirstString(item.Detail, "Description", "description"); ok {
		product.Description = description
	}

	price, _ := supplier.FirstNumber(item.Detail, "MSRP", "msrp")
	product.Price = price

	if mapPrice, ok := supplier.FirstNumber(item.Detail, "UnitPrice", "unitPrice"); ok {
		product.MapPrice = mapPrice
	} else {
		product.MapPrice = price
	}

	product.Cost = quotedUnitPrice(item.Pricing)

	if weight, ok := supplier.FirstNumber(item.Detail, "Weight", "weight"); ok {
		product.Weight = weight
	}
	product.Dimensions = deriveDimensions(item.Detail)

	if item.Manufacturer != "" {
		brandID, err := s.resolveBrand(ctx, item.Manufacturer)
		if err != nil {
			return nil, err
		}
		product.BrandID = brandID
	}

	return product, nil
}

// resolveBrand matches case-insensitively and auto-creates the brand
// when no match exists.
func (s *PublishService) resolveBrand(ctx context.Context, name string) (int64, error) {
	id, found, err := s.brands.FindIDByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	return s.brands.Create(ctx, name)
}

// quotedUnitPrice takes the unit price of the first valid staged quote
// row; zero when the item was staged price-unavailable.
func quotedUnitPrice(pricing models.PricingPayload) float64 {
	for _, raw := range pricing.Rows {
		row := response.PriceRow(raw)
		if !supplier.ValidPriceRow(row) {
			continue
		}
		if price, ok := supplier.RowUnitPrice(row); ok {
			return price
		}
	}
	return 0
}

// deriveDimensions emits a dimensions document only when at least one
// of the three detail fields is present.
func deriveDimensions(detail map[string]interface{}) *models.Dimensions {
	length, lengthOK := supplier.FirstNumber(detail, "Length", "length")
	width, widthOK := supplier.FirstNumber(detail, "Width", "width")
	height, heightOK := supplier.FirstNumber(detail, "Height", "height")
	if !lengthOK && !widthOK && !heightOK {
		return nil
	}
	return &models.Dimensions{Length: length, Width: width, Height: height}
}

func dedupeImages(images []string) []string {
	seen := make(map[string]struct{}, len(images))
	deduped := make([]string, 0, len(images))
	for _, image := range images {
		trimmed := strings.TrimSpace(image)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		deduped = append(deduped, trimmed)
	}
	return deduped
}

// deriveTags uses the supplier tag field when present, else falls back
// to product family plus manufacturer.
func deriveTags(item *models.SupplierItem) []string {
	if raw, ok := supplier.FirstString(item.Detail, "Tags", "tags"); ok {
		parts := strings.Split(raw, ",")
		tags := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
		if len(tags) > 0 {
			return tags
		}
	}

	var tags []string
	if item.ProductFamily != "" {
		tags = append(tags, item.ProductFamily)
	}
	if item.Manufacturer != "" {
		tags = append(tags, item.Manufacturer)
	}
	return tags
}
