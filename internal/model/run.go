package model

import "time"

// IngestionRun is the audit record of one pipeline run. Unpublished rows are
// picked up by the poller and shipped to Kafka.
type IngestionRun struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	StartedAt     time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt    time.Time  `json:"finished_at"`
	Status        string     `gorm:"size:16;not null" json:"status"`
	FailedStep    string     `gorm:"size:32" json:"failed_step,omitempty"`
	Error         string     `gorm:"type:text" json:"error,omitempty"`
	RowsParsed    int        `gorm:"not null" json:"rows_parsed"`
	RowsDropped   int        `gorm:"not null" json:"rows_dropped"`
	RowsMalformed int        `gorm:"not null" json:"rows_malformed"`
	RowsDuplicate int        `gorm:"not null" json:"rows_duplicate"`
	RowsInvalid   int        `gorm:"not null" json:"rows_invalid"`
	RowsWritten   int        `gorm:"not null" json:"rows_written"`
	Published     bool       `gorm:"not null;default:false" json:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

// Run statuses.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

func (IngestionRun) TableName() string { return "ingestion_runs" }
