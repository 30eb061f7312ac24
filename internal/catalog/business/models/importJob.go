package models

import "time"

const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

type ImportConfig struct {
	Manufacturers []string `json:"manufacturers,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	SearchText    string   `json:"searchText,omitempty"`
	MaxPages      int      `json:"maxPages,omitempty"`
	PageSize      int      `json:"pageSize,omitempty"`
}

type ImportProgress struct {
	Scanned int      `json:"scanned"`
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Pages   int      `json:"pages"`
	Errors  []string `json:"errors"`
}

// ImportJob is one run of the import pipeline. Terminal statuses are
// never retried automatically.
type ImportJob struct {
	ID          string         `json:"jobId"`
	Status      string         `json:"status"`
	Config      ImportConfig   `json:"config"`
	Progress    ImportProgress `json:"progress"`
	CreatedBy   string         `json:"createdBy,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}
