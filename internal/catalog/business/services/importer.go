package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storesync_api/config/values"
	"storesync_api/internal/catalog/business/models"
	"storesync_api/internal/supplier/business/models/dto/request"
	"storesync_api/internal/supplier/business/models/dto/response"
	supplier "storesync_api/internal/supplier/business/services"
	"storesync_api/metrics"
	"storesync_api/pkg/logger"
)

const (
	hardMaxPages    = 10
	defaultPageSize = 50
	maxStoredErrors = 50
)

type supplierSearcher interface {
	SearchItems(ctx context.Context, req request.SearchRequest) (*response.SearchResponse, error)
}

type itemResolver interface {
	Resolve(ctx context.Context, input string) (*supplier.Resolution, error)
}

type linePricer interface {
	PriceWithContexts(ctx context.Context, lines []request.PriceLine, opts supplier.QuoteOptions) (*supplier.QuoteResult, error)
}

type stagingStore interface {
	Exists(ctx context.Context, itemNumber string) (bool, error)
	Save(ctx context.Context, item *models.SupplierItem) error
}

type jobStore interface {
	Create(ctx context.Context, job *models.ImportJob) error
	MarkRunning(ctx context.Context, jobID string, startedAt time.Time) error
	UpdateProgress(ctx context.Context, jobID string, progress models.ImportProgress) error
	Finish(ctx context.Context, jobID, status string, progress models.ImportProgress, completedAt time.Time) error
}

// ImportService runs the supplier catalog import pipeline: paged
// search, per-item resolution, batched pricing, staging upsert.
type ImportService struct {
	search   supplierSearcher
	resolver itemResolver
	pricing  linePricer
	staging  stagingStore
	jobs     jobStore
	defaults values.SupplierValues
	log      logger.Logger
}

func NewImportService(search supplierSearcher, resolver itemResolver, pricing linePricer,
	staging stagingStore, jobs jobStore, defaults values.SupplierValues, log logger.Logger) *ImportService {
	return &ImportService{
		search:   search,
		resolver: resolver,
		pricing:  pricing,
		staging:  staging,
		jobs:     jobs,
		defaults: defaults,
		log:      log,
	}
}

// Run creates the job row synchronously and processes it on a detached
// goroutine, so the caller gets the job id back immediately. The
// persisted job row is the only way to observe progress.
func (s *ImportService) Run(ctx context.Context, cfg models.ImportConfig, createdBy string) (*models.ImportJob, error) {
	now := time.Now().UTC()
	job := &models.ImportJob{
		ID:        uuid.NewString(),
		Status:    models.JobStatusPending,
		Config:    cfg,
		Progress:  models.ImportProgress{Errors: []string{}},
		CreatedBy: createdBy,
		CreatedAt: now,
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	startedAt := time.Now().UTC()
	if err := s.jobs.MarkRunning(ctx, job.ID, startedAt); err != nil {
		return nil, err
	}
	job.Status = models.JobStatusRunning
	job.StartedAt = &startedAt

	// Detached from the request context: the job outlives the request.
	go s.process(context.Background(), *job)

	return job, nil
}

func (s *ImportService) process(ctx context.Context, job models.ImportJob) {
	progress := job.Progress
	if progress.Errors == nil {
		progress.Errors = []string{}
	}

	maxPages := job.Config.MaxPages
	if maxPages <= 0 {
		maxPages = s.defaults.MaxPages
	}
	if maxPages <= 0 || maxPages > hardMaxPages {
		maxPages = hardMaxPages
	}
	pageSize := job.Config.PageSize
	if pageSize <= 0 {
		pageSize = s.defaults.PageSize
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	for page := 1; page <= maxPages; page++ {
		searchReq := request.SearchRequest{
			SearchText:    job.Config.SearchText,
			Manufacturers: job.Config.Manufacturers,
			Categories:    job.Config.Categories,
			Page:          page,
			PageSize:      pageSize,
		}

		resp, err := s.search.SearchItems(ctx, searchReq)
		if err != nil {
			s.fail(ctx, job.ID, progress, fmt.Errorf("search page %d: %w", page, err))
			return
		}

		quote := s.priceForPage(ctx, resp.Items)
		rowsByItem := indexRowsByItem(quote.Rows)

		for _, searchItem := range resp.Items {
			progress.Scanned++

			if searchItem.ItemNumber == "" {
				progress.Skipped++
				metrics.RecordImportItem("skipped")
				continue
			}

			itemNumber := searchItem.ItemNumber
			detail := map[string]interface{}{}
			if resolution, err := s.resolver.Resolve(ctx, searchItem.ItemNumber); err != nil {
				// No part-number type resolved; stage the raw search
				// record with an empty detail and keep going.
				s.log.Log("item %s: %v", searchItem.ItemNumber, err)
				appendJobError(&progress, fmt.Sprintf("item %s: %v", searchItem.ItemNumber, err))
			} else {
				itemNumber = resolution.ItemNumber
				detail = resolution.Detail
			}

			staged := s.stagedItem(searchItem, itemNumber, detail, rowsByItem[itemNumber], quote.ContextTag)

			exists, err := s.staging.Exists(ctx, staged.ItemNumber)
			if err != nil {
				s.fail(ctx, job.ID, progress, err)
				return
			}
			if err := s.staging.Save(ctx, staged); err != nil {
				s.fail(ctx, job.ID, progress, err)
				return
			}

			if exists {
				progress.Updated++
				metrics.RecordImportItem("updated")
			} else {
				progress.Added++
				metrics.RecordImportItem("added")
			}
		}

		progress.Pages = page
		if err := s.jobs.UpdateProgress(ctx, job.ID, progress); err != nil {
			s.log.Log("job %s: persisting progress: %v", job.ID, err)
		}

		if len(resp.Items) < pageSize {
			break
		}
	}

	if err := s.jobs.Finish(ctx, job.ID, models.JobStatusCompleted, progress, time.Now().UTC()); err != nil {
		s.log.Log("job %s: marking completed: %v", job.ID, err)
		return
	}
	s.log.Log("job %s completed: scanned=%d added=%d updated=%d skipped=%d errors=%d",
		job.ID, progress.Scanned, progress.Added, progress.Updated, progress.Skipped, len(progress.Errors))
}

// priceForPage quotes the whole page in one batch. A page that cannot
// be priced is not fatal: items get staged price-unavailable.
func (s *ImportService) priceForPage(ctx context.Context, items []response.SearchItem) *supplier.QuoteResult {
	lines := make([]request.PriceLine, 0, len(items))
	for _, item := range items {
		if item.ItemNumber == "" {
			continue
		}
		lines = append(lines, request.PriceLine{ItemNumber: item.ItemNumber, Quantity: 1})
	}

	quote, err := s.pricing.PriceWithContexts(ctx, lines, supplier.QuoteOptions{
		BusinessUnits: s.defaults.BusinessUnits,
		Warehouses:    s.defaults.Warehouses,
		DealID:        s.defaults.DealID,
	})
	if err != nil || quote == nil {
		if err != nil {
			s.log.Log("pricing page batch: %v", err)
		}
		return &supplier.QuoteResult{ContextTag: supplier.NoContextTag}
	}
	return quote
}

func (s *ImportService) stagedItem(searchItem response.SearchItem, itemNumber string,
	detail map[string]interface{}, rows []response.PriceRow, contextTag string) *models.SupplierItem {
	rawRows := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		rawRows = append(rawRows, row)
	}

	return &models.SupplierItem{
		ItemNumber:             itemNumber,
		ManufacturerItemNumber: searchItem.ManufacturerItemNumber,
		Manufacturer:           searchItem.Manufacturer,
		Title:                  searchItem.Title,
		Catalog:                searchItem.Catalog,
		Category:               searchItem.Category,
		ProductFamily:          searchItem.ProductFamily,
		ItemStatus:             searchItem.ItemStatus,
		Images:                 searchItem.Images,
		Detail:                 detail,
		Pricing:                models.PricingPayload{ContextTag: contextTag, Rows: rawRows},
		Discontinued:           strings.EqualFold(searchItem.ItemStatus, "discontinued"),
		ManufacturerNorm:       Normalize(searchItem.Manufacturer),
		CategoryNorm:           Normalize(searchItem.Category),
		SyncedAt:               time.Now().UTC(),
	}
}

// fail marks the job failed, keeping the counters accumulated so far:
// staged rows are not rolled back, so the numbers stay truthful.
func (s *ImportService) fail(ctx context.Context, jobID string, progress models.ImportProgress, cause error) {
	appendJobError(&progress, cause.Error())
	if err := s.jobs.Finish(ctx, jobID, models.JobStatusFailed, progress, time.Now().UTC()); err != nil {
		s.log.Log("job %s: marking failed: %v", jobID, err)
	}
	s.log.Log("job %s failed: %v", jobID, cause)
}

func appendJobError(progress *models.ImportProgress, message string) {
	if len(progress.Errors) >= maxStoredErrors {
		return
	}
	progress.Errors = append(progress.Errors, message)
}

func indexRowsByItem(rows []response.PriceRow) map[string][]response.PriceRow {
	indexed := make(map[string][]response.PriceRow, len(rows))
	for _, row := range rows {
		itemNumber, ok := supplier.FirstString(row, "ItemNumber", "itemNumber", "item_number")
		if !ok {
			continue
		}
		indexed[itemNumber] = append(indexed[itemNumber], row)
	}
	return indexed
}
