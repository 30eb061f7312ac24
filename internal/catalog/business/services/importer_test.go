package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"storesync_api/config/values"
	"storesync_api/internal/catalog/business/models"
	"storesync_api/internal/supplier/business/models/dto/request"
	"storesync_api/internal/supplier/business/models/dto/response"
	supplier "storesync_api/internal/supplier/business/services"
	"storesync_api/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.NewLogger(io.Discard, "[test]")
}

type fakeSearcher struct {
	pages map[int][]response.SearchItem
	err   error
}

func (f *fakeSearcher) SearchItems(_ context.Context, req request.SearchRequest) (*response.SearchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	items := f.pages[req.Page]
	return &response.SearchResponse{Items: items, TotalCount: len(items)}, nil
}

type fakeResolver struct {
	fail map[string]bool
}

func (f *fakeResolver) Resolve(_ context.Context, input string) (*supplier.Resolution, error) {
	if f.fail[input] {
		return nil, &supplier.ResolutionError{Input: input, LastErr: errors.New("not found")}
	}
	return &supplier.Resolution{
		ItemNumber: input,
		PartType:   supplier.PartTypeSupplier,
		Detail:     map[string]interface{}{"ItemNumber": input},
	}, nil
}

type fakePricer struct {
	rowsFor map[string]float64
}

func (f *fakePricer) PriceWithContexts(_ context.Context, lines []request.PriceLine, _ supplier.QuoteOptions) (*supplier.QuoteResult, error) {
	var rows []response.PriceRow
	for _, line := range lines {
		price, ok := f.rowsFor[line.ItemNumber]
		if !ok {
			continue
		}
		rows = append(rows, response.PriceRow{"ItemNumber": line.ItemNumber, "UnitPrice": price})
	}
	if len(rows) == 0 {
		return &supplier.QuoteResult{ContextTag: supplier.NoContextTag}, nil
	}
	return &supplier.QuoteResult{ContextTag: "bu=B1", Rows: rows}, nil
}

type fakeStaging struct {
	mu    sync.Mutex
	items map[string]*models.SupplierItem
}

func newFakeStaging() *fakeStaging {
	return &fakeStaging{items: map[string]*models.SupplierItem{}}
}

func (f *fakeStaging) Exists(_ context.Context, itemNumber string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[itemNumber]
	return ok, nil
}

func (f *fakeStaging) Save(_ context.Context, item *models.SupplierItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.ItemNumber] = item
	return nil
}

type fakeJobs struct {
	mu       sync.Mutex
	created  *models.ImportJob
	status   string
	progress models.ImportProgress
	done     chan struct{}
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{done: make(chan struct{})}
}

func (f *fakeJobs) Create(_ context.Context, job *models.ImportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *job
	f.created = &copied
	return nil
}

func (f *fakeJobs) MarkRunning(_ context.Context, _ string, _ time.Time) error { return nil }

func (f *fakeJobs) UpdateProgress(_ context.Context, _ string, progress models.ImportProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = progress
	return nil
}

func (f *fakeJobs) Finish(_ context.Context, _, status string, progress models.ImportProgress, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.progress = progress
	close(f.done)
	return nil
}

func (f *fakeJobs) wait(t *testing.T) (string, models.ImportProgress) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(5 * time.Second):
		t.Fatal("job never finished")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.progress
}

func importDefaults() values.SupplierValues {
	return values.SupplierValues{
		BusinessUnits: []string{"B1"},
		Warehouses:    []string{"W1"},
		PageSize:      50,
		MaxPages:      10,
	}
}

func TestImportStagesPageAndCountsAdds(t *testing.T) {
	search := &fakeSearcher{pages: map[int][]response.SearchItem{
		1: {
			{ItemNumber: "A", Manufacturer: "Canon", Title: "Printer A"},
			{ItemNumber: "B", Manufacturer: "Epson", Title: "Printer B"},
		},
	}}
	// B has no quote row; it must still be staged and counted.
	pricer := &fakePricer{rowsFor: map[string]float64{"A": 10.0}}
	staging := newFakeStaging()
	jobs := newFakeJobs()

	svc := NewImportService(search, &fakeResolver{}, pricer, staging, jobs, importDefaults(), testLogger())

	job, err := svc.Run(context.Background(), models.ImportConfig{MaxPages: 1}, "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected a job id")
	}
	if job.Status != models.JobStatusRunning {
		t.Fatalf("expected running status returned, got %q", job.Status)
	}

	status, progress := jobs.wait(t)
	if status != models.JobStatusCompleted {
		t.Fatalf("expected completed, got %q", status)
	}
	if progress.Scanned != 2 || progress.Added != 2 || progress.Updated != 0 || progress.Skipped != 0 {
		t.Fatalf("unexpected counters: %+v", progress)
	}
	if len(progress.Errors) != 0 {
		t.Fatalf("pricing gaps are not errors, got %v", progress.Errors)
	}

	itemA := staging.items["A"]
	if itemA == nil {
		t.Fatal("item A not staged")
	}
	if itemA.Pricing.ContextTag != "bu=B1" || len(itemA.Pricing.Rows) != 1 {
		t.Fatalf("unexpected pricing payload for A: %+v", itemA.Pricing)
	}
	if itemA.ManufacturerNorm != "canon" {
		t.Fatalf("expected normalized manufacturer, got %q", itemA.ManufacturerNorm)
	}

	itemB := staging.items["B"]
	if itemB == nil {
		t.Fatal("item B not staged")
	}
	if len(itemB.Pricing.Rows) != 0 {
		t.Fatalf("expected no quote rows for B, got %+v", itemB.Pricing)
	}
}

func TestImportSecondRunCountsUpdates(t *testing.T) {
	search := &fakeSearcher{pages: map[int][]response.SearchItem{
		1: {{ItemNumber: "A", Title: "Printer A"}},
	}}
	staging := newFakeStaging()
	defaults := importDefaults()

	first := newFakeJobs()
	svc := NewImportService(search, &fakeResolver{}, &fakePricer{}, staging, first, defaults, testLogger())
	if _, err := svc.Run(context.Background(), models.ImportConfig{MaxPages: 1}, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.wait(t)

	second := newFakeJobs()
	svc = NewImportService(search, &fakeResolver{}, &fakePricer{}, staging, second, defaults, testLogger())
	if _, err := svc.Run(context.Background(), models.ImportConfig{MaxPages: 1}, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, progress := second.wait(t)
	if progress.Added != 0 || progress.Updated != 1 {
		t.Fatalf("re-import must count updates: %+v", progress)
	}
}

func TestImportResolutionFailureStagesWithEmptyDetail(t *testing.T) {
	search := &fakeSearcher{pages: map[int][]response.SearchItem{
		1: {{ItemNumber: "A", Title: "Printer A"}},
	}}
	staging := newFakeStaging()
	jobs := newFakeJobs()

	svc := NewImportService(search, &fakeResolver{fail: map[string]bool{"A": true}}, &fakePricer{},
		staging, jobs, importDefaults(), testLogger())
	if _, err := svc.Run(context.Background(), models.ImportConfig{MaxPages: 1}, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, progress := jobs.wait(t)
	if status != models.JobStatusCompleted {
		t.Fatalf("resolution failures are non-fatal, got %q", status)
	}
	if progress.Added != 1 {
		t.Fatalf("item must still be staged: %+v", progress)
	}
	if len(progress.Errors) != 1 {
		t.Fatalf("expected one recorded error, got %v", progress.Errors)
	}

	staged := staging.items["A"]
	if staged == nil {
		t.Fatal("item A not staged")
	}
	if len(staged.Detail) != 0 {
		t.Fatalf("expected empty detail, got %v", staged.Detail)
	}
}

func TestImportBlankItemNumberSkipped(t *testing.T) {
	search := &fakeSearcher{pages: map[int][]response.SearchItem{
		1: {{ItemNumber: "", Title: "Mystery"}, {ItemNumber: "A"}},
	}}
	staging := newFakeStaging()
	jobs := newFakeJobs()

	svc := NewImportService(search, &fakeResolver{}, &fakePricer{}, staging, jobs, importDefaults(), testLogger())
	if _, err := svc.Run(context.Background(), models.ImportConfig{MaxPages: 1}, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, progress := jobs.wait(t)
	if progress.Scanned != 2 || progress.Skipped != 1 || progress.Added != 1 {
		t.Fatalf("unexpected counters: %+v", progress)
	}
	if len(staging.items) != 1 {
		t.Fatalf("blank item must not be staged, got %d items", len(staging.items))
	}
}

func TestImportSearchFailureFailsJob(t *testing.T) {
	search := &fakeSearcher{err: errors.New("upstream down")}
	jobs := newFakeJobs()

	svc := NewImportService(search, &fakeResolver{}, &fakePricer{}, newFakeStaging(), jobs, importDefaults(), testLogger())
	if _, err := svc.Run(context.Background(), models.ImportConfig{MaxPages: 1}, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, progress := jobs.wait(t)
	if status != models.JobStatusFailed {
		t.Fatalf("expected failed, got %q", status)
	}
	if len(progress.Errors) != 1 {
		t.Fatalf("expected the fatal error recorded, got %v", progress.Errors)
	}
}

func TestImportPageCapBounded(t *testing.T) {
	pages := map[int][]response.SearchItem{}
	for page := 1; page <= hardMaxPages+5; page++ {
		var items []response.SearchItem
		for i := 0; i < 50; i++ {
			items = append(items, response.SearchItem{ItemNumber: fmt.Sprintf("P%d-%d", page, i)})
		}
		pages[page] = items
	}
	search := &fakeSearcher{pages: pages}
	jobs := newFakeJobs()

	// MaxPages 0 in both config and defaults falls back to the hard cap.
	defaults := importDefaults()
	defaults.MaxPages = 0
	svc := NewImportService(search, &fakeResolver{}, &fakePricer{}, newFakeStaging(), jobs, defaults, testLogger())
	if _, err := svc.Run(context.Background(), models.ImportConfig{}, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, progress := jobs.wait(t)
	if progress.Pages != hardMaxPages {
		t.Fatalf("expected the page cap honored, got %d pages", progress.Pages)
	}
}
