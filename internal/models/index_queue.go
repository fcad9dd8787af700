package models

import "time"

// IndexQueue holds properties whose search-index write failed and must be
// retried by the background worker. Indexing failures never fail the API
// request that caused them; they land here instead.
type IndexQueue struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID string `gorm:"type:varchar(36);not null;index:idx_queue_property" json:"property_id"`
	Op         string `gorm:"type:varchar(10);not null;default:'index'" json:"op"` // index or delete
	Status     string `gorm:"type:varchar(20);not null;default:'pending';index:idx_queue_status" json:"status"`
	Attempts   int    `gorm:"default:0" json:"attempts"`
	LastError  string `gorm:"type:text" json:"last_error,omitempty"`

	NextRetryAt *time.Time `gorm:"index:idx_queue_retry" json:"next_retry_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (IndexQueue) TableName() string {
	return "index_queue"
}

// Queue operations.
const (
	IndexOpIndex  = "index"
	IndexOpDelete = "delete"
)

// Queue status values.
const (
	QueueStatusPending       = "pending"
	QueueStatusProcessing    = "processing"
	QueueStatusDone          = "done"
	QueueStatusFailed        = "failed"
	QueueStatusPermanentFail = "permanent_fail"
)

// MaxIndexAttempts before a queue item is marked permanently failed.
const MaxIndexAttempts = 5

// NextIndexRetryDelay returns the backoff before the given retry attempt.
func NextIndexRetryDelay(attempts int) time.Duration {
	delays := []time.Duration{
		30 * time.Second,
		2 * time.Minute,
		10 * time.Minute,
		30 * time.Minute,
		2 * time.Hour,
	}

	if attempts >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[attempts]
}
