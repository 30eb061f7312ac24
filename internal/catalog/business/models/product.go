package models

import "time"

type Brand struct {
	ID   int64
	Name string
}

type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Product is the local, customer-visible catalog entity built from a
// staged supplier record.
type Product struct {
	ID          int64
	SKU         string
	Title       string
	Description string
	BrandID     int64
	Price       float64
	MapPrice    float64
	Cost        float64
	Weight      float64
	Dimensions  *Dimensions
	Images      []string
	Tags        []string
	Category    string
	StockStatus string
	CreatedAt   time.Time
}

// ProductSource links a published product back to the supplier record
// it came from. At most one link exists per (supplier, item_number).
type ProductSource struct {
	ProductID  int64
	Supplier   string
	ItemNumber string
	CreatedAt  time.Time
}
