package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	importItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_items_total",
			Help: "Staged supplier items by import outcome.",
		},
		[]string{"result"},
	)
	supplierRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supplier_requests_total",
			Help: "Requests issued to the supplier API.",
		},
		[]string{"endpoint", "status"},
	)
	supplierRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "supplier_request_retries_total",
			Help: "Supplier API calls retried after 429/5xx responses.",
		},
	)
)

func init() {
	prometheus.MustRegister(importItemsTotal)
	prometheus.MustRegister(supplierRequestsTotal)
	prometheus.MustRegister(supplierRetriesTotal)
}

func RecordImportItem(result string) {
	importItemsTotal.WithLabelValues(result).Inc()
}

func RecordSupplierRequest(endpoint string, statusCode int) {
	supplierRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

func RecordSupplierRetry() {
	supplierRetriesTotal.Inc()
}
