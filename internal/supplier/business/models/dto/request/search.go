package request

// SearchRequest is the body for the supplier catalog search endpoint.
// Pages are 1-based; the supplier caps pageSize at 100.
type SearchRequest struct {
	SearchText    string   `json:"searchText,omitempty"`
	Manufacturers []string `json:"manufacturers,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Page          int      `json:"page"`
	PageSize      int      `json:"pageSize"`
}
