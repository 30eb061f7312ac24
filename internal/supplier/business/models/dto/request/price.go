package request

type PriceLine struct {
	ItemNumber string `json:"itemNumber"`
	Quantity   int    `json:"quantity"`
}

// PriceRequest asks for quotes on a batch of lines under an optional
// business-unit/warehouse context. Empty context fields are omitted so
// the supplier falls back to account defaults.
type PriceRequest struct {
	Lines        []PriceLine `json:"lines"`
	BusinessUnit string      `json:"businessUnit,omitempty"`
	Warehouse    string      `json:"warehouse,omitempty"`
	DealID       string      `json:"dealId,omitempty"`
}
