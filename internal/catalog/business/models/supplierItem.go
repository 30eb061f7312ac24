package models

import "time"

// PricingPayload is the staged quote result for one item: the context
// that won plus the raw rows it returned.
type PricingPayload struct {
	ContextTag string                   `json:"contextTag"`
	Rows       []map[string]interface{} `json:"rows,omitempty"`
}

// SupplierItem is the canonical staged record for one upstream SKU.
// Detail and Pricing stay opaque documents; the normalized columns
// exist for matching only.
type SupplierItem struct {
	ItemNumber             string
	ManufacturerItemNumber string
	Manufacturer           string
	Title                  string
	Catalog                string
	Category               string
	ProductFamily          string
	ItemStatus             string
	Images                 []string
	Detail                 map[string]interface{}
	Pricing                PricingPayload
	Discontinued           bool
	ManufacturerNorm       string
	CategoryNorm           string
	SyncedAt               time.Time
}
