package models

const (
	PublishStatusPublished        = "published"
	PublishStatusAlreadyPublished = "already_published"
	PublishStatusNotFound         = "not_found"
	PublishStatusError            = "error"
)

type PublishResult struct {
	ItemNumber string `json:"item_number"`
	Status     string `json:"status"`
	ProductID  int64  `json:"product_id,omitempty"`
	Error      string `json:"error,omitempty"`
}
