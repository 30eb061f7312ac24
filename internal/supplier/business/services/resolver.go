package services

import (
	"context"
	"fmt"

	"storesync_api/pkg/logger"
)

// Part-number types understood by the supplier detail endpoint, in the
// order they are attempted.
const (
	PartTypeSupplier     = 1
	PartTypeManufacturer = 2
	PartTypeSAP          = 3
)

var partTypeOrder = []int{PartTypeSupplier, PartTypeManufacturer, PartTypeSAP}

var itemNumberFields = []string{"ItemNumber", "itemNumber", "item_number"}

type DetailFetcher interface {
	ItemDetail(ctx context.Context, partNumber string, partType int) (map[string]interface{}, error)
}

// Resolution is a part number resolved to the supplier's canonical
// item record.
type Resolution struct {
	ItemNumber string
	PartType   int
	Detail     map[string]interface{}
}

type ResolutionError struct {
	Input   string
	LastErr error
}

func (e *ResolutionError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("no part-number type resolved %q (last error: %v)", e.Input, e.LastErr)
	}
	return fmt.Sprintf("no part-number type resolved %q", e.Input)
}

type ItemResolver struct {
	client DetailFetcher
	log    logger.Logger
}

func NewItemResolver(client DetailFetcher, log logger.Logger) *ItemResolver {
	return &ItemResolver{client: client, log: log}
}

// Resolve tries the supplier's part-number types in fixed order and
// returns the first detail lookup that yields a canonical item number.
// The caller records the error per item; a failed resolution never
// aborts a batch.
func (r *ItemResolver) Resolve(ctx context.Context, input string) (*Resolution, error) {
	var lastErr error
	for _, partType := range partTypeOrder {
		detail, err := r.client.ItemDetail(ctx, input, partType)
		if err != nil {
			lastErr = err
			continue
		}
		itemNumber, ok := FirstString(detail, itemNumberFields...)
		if !ok {
			continue
		}
		return &Resolution{
			ItemNumber: itemNumber,
			PartType:   partType,
			Detail:     detail,
		}, nil
	}
	return nil, &ResolutionError{Input: input, LastErr: lastErr}
}
