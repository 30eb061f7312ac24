package services

import (
	"context"
	"fmt"

	"storesync_api/internal/supplier/business/models/dto/request"
	"storesync_api/internal/supplier/business/models/dto/response"
	"storesync_api/pkg/logger"
)

// NoContextTag marks a quote result where no candidate context yielded
// a valid row.
const NoContextTag = "none"

var priceFields = []string{
	"UnitPrice", "unitPrice",
	"NetPrice", "netPrice",
	"CustomerPrice", "customerPrice",
	"Price", "price",
}

var priceErrorFields = []string{"PricingError", "Error", "IsError"}

type QuotePoster interface {
	PriceLines(ctx context.Context, req request.PriceRequest) (*response.PriceResponse, error)
}

type QuoteOptions struct {
	BusinessUnits []string
	Warehouses    []string
	DealID        string
}

// QuoteResult carries the winning context tag plus every row that
// context returned, valid or not, for diagnostic logging.
type QuoteResult struct {
	ContextTag string
	Rows       []response.PriceRow
}

type priceContext struct {
	BusinessUnit string
	Warehouse    string
}

func (pc priceContext) tag() string {
	switch {
	case pc.BusinessUnit != "" && pc.Warehouse != "":
		return fmt.Sprintf("bu=%s/wh=%s", pc.BusinessUnit, pc.Warehouse)
	case pc.BusinessUnit != "":
		return "bu=" + pc.BusinessUnit
	case pc.Warehouse != "":
		return "wh=" + pc.Warehouse
	default:
		return NoContextTag
	}
}

// candidateContexts lists quote contexts in priority order: every
// BUxWH pair, then each BU alone, then each WH alone, then bare.
func candidateContexts(opts QuoteOptions) []priceContext {
	candidates := make([]priceContext, 0, (len(opts.BusinessUnits)+1)*(len(opts.Warehouses)+1))
	for _, bu := range opts.BusinessUnits {
		for _, wh := range opts.Warehouses {
			candidates = append(candidates, priceContext{BusinessUnit: bu, Warehouse: wh})
		}
	}
	for _, bu := range opts.BusinessUnits {
		candidates = append(candidates, priceContext{BusinessUnit: bu})
	}
	for _, wh := range opts.Warehouses {
		candidates = append(candidates, priceContext{Warehouse: wh})
	}
	candidates = append(candidates, priceContext{})
	return candidates
}

// ValidPriceRow reports whether a quote row carries an economically
// usable price: a finite positive unit price and no error flag.
func ValidPriceRow(row response.PriceRow) bool {
	if flagged, ok := FirstBool(row, priceErrorFields...); ok && flagged {
		return false
	}
	price, ok := FirstNumber(row, priceFields...)
	return ok && price > 0
}

// RowUnitPrice resolves the unit price of a row through the field
// chain; ok is false when no finite value is present.
func RowUnitPrice(row response.PriceRow) (float64, bool) {
	return FirstNumber(row, priceFields...)
}

type PricingResolver struct {
	client QuotePoster
	log    logger.Logger
}

func NewPricingResolver(client QuotePoster, log logger.Logger) *PricingResolver {
	return &PricingResolver{client: client, log: log}
}

// PriceWithContexts issues one quote request per candidate context and
// stops at the first context yielding at least one valid row. When no
// context produces a valid row the result carries the "none" tag and an
// empty row set; the error return stays nil so callers can mark items
// price-unavailable and keep going.
func (p *PricingResolver) PriceWithContexts(ctx context.Context, lines []request.PriceLine, opts QuoteOptions) (*QuoteResult, error) {
	if len(lines) == 0 {
		return &QuoteResult{ContextTag: NoContextTag}, nil
	}

	for _, candidate := range candidateContexts(opts) {
		req := request.PriceRequest{
			Lines:        lines,
			BusinessUnit: candidate.BusinessUnit,
			Warehouse:    candidate.Warehouse,
			DealID:       opts.DealID,
		}

		resp, err := p.client.PriceLines(ctx, req)
		if err != nil {
			p.log.Log("pricing context %s failed: %v", candidate.tag(), err)
			continue
		}

		for _, row := range resp.Rows {
			if ValidPriceRow(row) {
				return &QuoteResult{ContextTag: candidate.tag(), Rows: resp.Rows}, nil
			}
		}
	}

	return &QuoteResult{ContextTag: NoContextTag}, nil
}
