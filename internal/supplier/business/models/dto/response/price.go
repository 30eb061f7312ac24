package response

// PriceRow is one quote line as returned by the supplier. The row
// schema varies by account and context, so it stays a raw document and
// fields are probed by name chains.
type PriceRow map[string]interface{}

type PriceResponse struct {
	Rows []PriceRow `json:"rows"`
}
