package response

type SearchItem struct {
	ItemNumber             string   `json:"itemNumber"`
	ManufacturerItemNumber string   `json:"manufacturerItemNumber"`
	Manufacturer           string   `json:"manufacturer"`
	Title                  string   `json:"title"`
	Catalog                string   `json:"catalog"`
	Category               string   `json:"category"`
	ProductFamily          string   `json:"productFamily"`
	ItemStatus             string   `json:"itemStatus"`
	Images                 []string `json:"images"`
}

type SearchResponse struct {
	Items      []SearchItem `json:"items"`
	TotalCount int          `json:"totalCount"`
}
