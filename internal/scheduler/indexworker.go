package scheduler

import (
	"errors"
	"sync"
	"time"

	"real-estate-crm/internal/models"
	"real-estate-crm/internal/search"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IndexWorker drains the index_queue: properties whose search-index
// write failed on the API path are retried here with backoff until they
// succeed or exhaust their attempts.
type IndexWorker struct {
	db           *gorm.DB
	search       *search.SearchClient
	logger       *zap.Logger
	stopChan     chan struct{}
	pollInterval time.Duration

	// mu guards isRunning; GetQueueStats reads it from handler goroutines.
	mu        sync.Mutex
	isRunning bool
}

// NewIndexWorker creates a worker polling every 30 seconds.
func NewIndexWorker(db *gorm.DB, sc *search.SearchClient, logger *zap.Logger) *IndexWorker {
	return &IndexWorker{
		db:           db,
		search:       sc,
		logger:       logger,
		stopChan:     make(chan struct{}),
		pollInterval: 30 * time.Second,
	}
}

// Enqueue records a failed index write for later retry. Called from the
// API write path; the caller's request has already succeeded.
func Enqueue(db *gorm.DB, propertyID, op string) error {
	var existing models.IndexQueue
	err := db.Where("property_id = ? AND status IN ?", propertyID,
		[]string{models.QueueStatusPending, models.QueueStatusFailed}).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		item := models.IndexQueue{
			PropertyID: propertyID,
			Op:         op,
			Status:     models.QueueStatusPending,
		}
		return db.Create(&item).Error
	}
	if err != nil {
		return err
	}

	// A later write supersedes the queued operation.
	return db.Model(&existing).Updates(map[string]interface{}{
		"op":            op,
		"status":        models.QueueStatusPending,
		"attempts":      0,
		"last_error":    "",
		"next_retry_at": nil,
	}).Error
}

// Start launches the polling loop.
func (w *IndexWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isRunning {
		return
	}
	w.isRunning = true
	w.logger.Info("index worker started", zap.Duration("poll_interval", w.pollInterval))
	go w.run()
}

// Stop terminates the polling loop. Safe to call more than once.
func (w *IndexWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isRunning {
		return
	}
	w.isRunning = false
	close(w.stopChan)
}

func (w *IndexWorker) running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *IndexWorker) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("index worker stopped")
			return
		case <-ticker.C:
			w.processNext()
		}
	}
}

// processNext picks one queue item and attempts it.
func (w *IndexWorker) processNext() {
	var item models.IndexQueue
	now := time.Now()

	result := w.db.Where("status = ?", models.QueueStatusPending).
		Order("created_at ASC").
		First(&item)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		result = w.db.Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?",
			models.QueueStatusFailed, now).
			Order("created_at ASC").
			First(&item)
	}

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			w.logger.Error("failed to fetch next queue item", zap.Error(result.Error))
		}
		return
	}

	w.processItem(&item)
}

func (w *IndexWorker) processItem(item *models.IndexQueue) {
	item.Status = models.QueueStatusProcessing
	item.Attempts++
	if err := w.db.Save(item).Error; err != nil {
		w.logger.Error("failed to mark queue item as processing", zap.Error(err))
		return
	}

	err := w.apply(item)
	if err != nil {
		w.handleFailure(item, err)
		return
	}

	completedAt := time.Now()
	item.Status = models.QueueStatusDone
	item.LastError = ""
	item.CompletedAt = &completedAt
	item.NextRetryAt = nil
	if err := w.db.Save(item).Error; err != nil {
		w.logger.Error("failed to mark queue item as done", zap.Error(err))
		return
	}
	w.logger.Info("index queue item completed",
		zap.Int64("id", item.ID), zap.String("property_id", item.PropertyID))
}

// apply performs the queued index operation against Meilisearch.
func (w *IndexWorker) apply(item *models.IndexQueue) error {
	if item.Op == models.IndexOpDelete {
		return w.search.RemoveProperty(item.PropertyID)
	}

	var property models.Property
	err := w.db.Where("id = ?", item.PropertyID).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Deleted between enqueue and processing: remove from the index.
		return w.search.RemoveProperty(item.PropertyID)
	}
	if err != nil {
		return err
	}
	return w.search.IndexProperty(&property)
}

func (w *IndexWorker) handleFailure(item *models.IndexQueue, cause error) {
	w.logger.Warn("index queue item failed",
		zap.Int64("id", item.ID),
		zap.String("property_id", item.PropertyID),
		zap.Int("attempts", item.Attempts),
		zap.Error(cause))

	item.LastError = cause.Error()
	if item.Attempts >= models.MaxIndexAttempts {
		completedAt := time.Now()
		item.Status = models.QueueStatusPermanentFail
		item.CompletedAt = &completedAt
		item.NextRetryAt = nil
	} else {
		nextRetry := time.Now().Add(models.NextIndexRetryDelay(item.Attempts - 1))
		item.Status = models.QueueStatusFailed
		item.NextRetryAt = &nextRetry
	}

	if err := w.db.Save(item).Error; err != nil {
		w.logger.Error("failed to save queue item failure", zap.Error(err))
	}
}

// GetQueueStats returns current queue statistics.
func (w *IndexWorker) GetQueueStats() map[string]interface{} {
	var stats struct {
		Pending       int64
		Processing    int64
		Done          int64
		Failed        int64
		PermanentFail int64
	}

	w.db.Model(&models.IndexQueue{}).Where("status = ?", models.QueueStatusPending).Count(&stats.Pending)
	w.db.Model(&models.IndexQueue{}).Where("status = ?", models.QueueStatusProcessing).Count(&stats.Processing)
	w.db.Model(&models.IndexQueue{}).Where("status = ?", models.QueueStatusDone).Count(&stats.Done)
	w.db.Model(&models.IndexQueue{}).Where("status = ?", models.QueueStatusFailed).Count(&stats.Failed)
	w.db.Model(&models.IndexQueue{}).Where("status = ?", models.QueueStatusPermanentFail).Count(&stats.PermanentFail)

	return map[string]interface{}{
		"pending":        stats.Pending,
		"processing":     stats.Processing,
		"done":           stats.Done,
		"failed":         stats.Failed,
		"permanent_fail": stats.PermanentFail,
		"is_running":     w.running(),
	}
}
