package values

// SupplierValues carries the pricing/paging defaults for the supplier API.
// Business units and warehouses are listed in fallback priority order.
type SupplierValues struct {
	BusinessUnits []string `yaml:"business-units"`
	Warehouses    []string `yaml:"warehouses"`
	DealID        string   `yaml:"deal-id"`
	PageSize      int      `yaml:"page-size"`
	MaxPages      int      `yaml:"max-pages"`
}
