package scheduler

import (
	"testing"
	"time"

	"real-estate-crm/internal/models"
	"real-estate-crm/internal/search"
	"real-estate-crm/internal/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.Property{},
		&models.Agent{},
		&models.Contract{},
		&models.Visit{},
		&models.IndexQueue{},
	)
	assert.NoError(t, err)
	return db
}

func TestParseDailyRunTime(t *testing.T) {
	s := &Scheduler{logger: zap.NewNop()}

	assert.Equal(t, "30 3 * * *", s.parseDailyRunTime("03:30"))
	assert.Equal(t, "0 14 * * *", s.parseDailyRunTime("14:00"))
	assert.Equal(t, "0 3 * * *", s.parseDailyRunTime("garbage"))
	assert.Equal(t, "0 3 * * *", s.parseDailyRunTime(""))
}

func TestEnqueue_CreatesAndDeduplicates(t *testing.T) {
	db := setupTestDB(t)

	assert.NoError(t, Enqueue(db, "prop-1", models.IndexOpIndex))
	assert.NoError(t, Enqueue(db, "prop-1", models.IndexOpDelete))

	var items []models.IndexQueue
	assert.NoError(t, db.Find(&items).Error)
	assert.Len(t, items, 1)
	// The later operation supersedes the queued one.
	assert.Equal(t, models.IndexOpDelete, items[0].Op)
	assert.Equal(t, models.QueueStatusPending, items[0].Status)
	assert.Equal(t, 0, items[0].Attempts)
}

func TestEnqueue_DifferentPropertiesQueueSeparately(t *testing.T) {
	db := setupTestDB(t)

	assert.NoError(t, Enqueue(db, "prop-1", models.IndexOpIndex))
	assert.NoError(t, Enqueue(db, "prop-2", models.IndexOpIndex))

	var count int64
	db.Model(&models.IndexQueue{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestIndexWorker_FailureSchedulesRetryWithBackoff(t *testing.T) {
	db := setupTestDB(t)
	// Unreachable search backend: every index attempt fails fast.
	sc := search.NewSearchClient("http://127.0.0.1:1", "unused")
	worker := NewIndexWorker(db, sc, zap.NewNop())

	assert.NoError(t, Enqueue(db, "prop-1", models.IndexOpDelete))

	worker.processNext()

	var item models.IndexQueue
	assert.NoError(t, db.First(&item).Error)
	assert.Equal(t, models.QueueStatusFailed, item.Status)
	assert.Equal(t, 1, item.Attempts)
	assert.NotEmpty(t, item.LastError)
	assert.NotNil(t, item.NextRetryAt)
	assert.True(t, item.NextRetryAt.After(time.Now()))
}

func TestIndexWorker_ExhaustedAttemptsBecomePermanentFailure(t *testing.T) {
	db := setupTestDB(t)
	sc := search.NewSearchClient("http://127.0.0.1:1", "unused")
	worker := NewIndexWorker(db, sc, zap.NewNop())

	assert.NoError(t, Enqueue(db, "prop-1", models.IndexOpDelete))

	var item models.IndexQueue
	assert.NoError(t, db.First(&item).Error)
	item.Attempts = models.MaxIndexAttempts - 1
	assert.NoError(t, db.Save(&item).Error)

	worker.processItem(&item)

	assert.NoError(t, db.First(&item, item.ID).Error)
	assert.Equal(t, models.QueueStatusPermanentFail, item.Status)
	assert.Equal(t, models.MaxIndexAttempts, item.Attempts)
	assert.Nil(t, item.NextRetryAt)
	assert.NotNil(t, item.CompletedAt)
}

func TestIndexWorker_RetryNotDueIsSkipped(t *testing.T) {
	db := setupTestDB(t)
	sc := search.NewSearchClient("http://127.0.0.1:1", "unused")
	worker := NewIndexWorker(db, sc, zap.NewNop())

	assert.NoError(t, Enqueue(db, "prop-1", models.IndexOpDelete))
	worker.processNext()

	// The item failed once and is waiting out its backoff; another poll
	// must not pick it up early.
	worker.processNext()

	var item models.IndexQueue
	assert.NoError(t, db.First(&item).Error)
	assert.Equal(t, 1, item.Attempts)
}

func TestIndexWorker_GetQueueStats(t *testing.T) {
	db := setupTestDB(t)
	sc := search.NewSearchClient("http://127.0.0.1:1", "unused")
	worker := NewIndexWorker(db, sc, zap.NewNop())

	assert.NoError(t, Enqueue(db, "prop-1", models.IndexOpIndex))
	assert.NoError(t, Enqueue(db, "prop-2", models.IndexOpIndex))

	stats := worker.GetQueueStats()
	assert.Equal(t, int64(2), stats["pending"])
	assert.Equal(t, int64(0), stats["failed"])
	assert.Equal(t, false, stats["is_running"])
}

func TestIndexWorker_StopIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	sc := search.NewSearchClient("http://127.0.0.1:1", "unused")
	worker := NewIndexWorker(db, sc, zap.NewNop())

	worker.Start()
	assert.Equal(t, true, worker.GetQueueStats()["is_running"])

	worker.Stop()
	worker.Stop()
	assert.Equal(t, false, worker.GetQueueStats()["is_running"])
}

func TestIndexWorker_StatsReadableDuringStartAndStop(t *testing.T) {
	db := setupTestDB(t)
	sc := search.NewSearchClient("http://127.0.0.1:1", "unused")
	worker := NewIndexWorker(db, sc, zap.NewNop())

	// Stats are served from handler goroutines while the lifecycle moves.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			worker.GetQueueStats()
		}
	}()

	worker.Start()
	worker.Stop()
	<-done
}

func TestNextIndexRetryDelayGrows(t *testing.T) {
	previous := time.Duration(0)
	for attempts := 0; attempts < models.MaxIndexAttempts; attempts++ {
		delay := models.NextIndexRetryDelay(attempts)
		assert.Greater(t, delay, previous, "attempt %d", attempts)
		previous = delay
	}
}

func TestRunMaintenance_ExpiresContractsAndRecomputesStats(t *testing.T) {
	db := setupTestDB(t)
	agents := services.NewAgentService(db)
	contracts := services.NewContractService(db)

	agent, err := agents.Create(&models.Agent{
		Name:  "Laura Mendes",
		Email: "laura@example.com",
	}, "admin-1")
	assert.NoError(t, err)

	past := time.Now().AddDate(0, 0, -10)
	_, err = contracts.Create(&models.Contract{
		PropertyID:       "prop-1",
		ClientID:         "client-1",
		AgentID:          agent.ID,
		Type:             models.ContractTypeRental,
		Amount:           1000,
		CommissionAmount: 100,
		Status:           models.ContractStatusActive,
		EndDate:          &past,
	}, "admin-1")
	assert.NoError(t, err)

	s := &Scheduler{
		db:        db,
		agents:    agents,
		contracts: contracts,
		logger:    zap.NewNop(),
	}
	assert.NoError(t, s.runMaintenance())

	// The overdue rental was completed and the agent's counters caught up.
	reloaded, err := agents.GetByID(agent.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.TotalSales)
	assert.Equal(t, 100.0, reloaded.TotalRevenue)
}
