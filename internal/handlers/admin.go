package handlers

import (
	"net/http"
	"strconv"
	"time"

	"real-estate-crm/internal/cache"
	"real-estate-crm/internal/models"
	"real-estate-crm/internal/ratelimit"
	"real-estate-crm/internal/scheduler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminHandler handles the operations dashboard: aggregate statistics,
// maintenance triggers and subsystem status.
type AdminHandler struct {
	db          *gorm.DB
	scheduler   *scheduler.Scheduler
	indexWorker *scheduler.IndexWorker
	cache       *cache.Store
	limiter     *ratelimit.Limiter
	logger      *zap.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(db *gorm.DB, sched *scheduler.Scheduler, worker *scheduler.IndexWorker,
	store *cache.Store, limiter *ratelimit.Limiter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		db:          db,
		scheduler:   sched,
		indexWorker: worker,
		cache:       store,
		limiter:     limiter,
		logger:      logger,
	}
}

// GetStats returns system statistics for the dashboard.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	// Property counts by status
	propertyCounts := make(map[string]int64)
	for _, status := range []models.PropertyStatus{
		models.PropertyStatusAvailable,
		models.PropertyStatusReserved,
		models.PropertyStatusSold,
		models.PropertyStatusRented,
	} {
		var count int64
		h.db.Model(&models.Property{}).Where("status = ?", status).Count(&count)
		propertyCounts[string(status)] = count
	}
	var propertyTotal int64
	h.db.Model(&models.Property{}).Count(&propertyTotal)
	propertyCounts["total"] = propertyTotal
	stats["properties"] = propertyCounts

	// Client counts by lead status
	clientCounts := make(map[string]int64)
	for _, status := range []models.ClientStatus{
		models.ClientStatusLead,
		models.ClientStatusActive,
		models.ClientStatusClosed,
	} {
		var count int64
		h.db.Model(&models.Client{}).Where("status = ?", status).Count(&count)
		clientCounts[string(status)] = count
	}
	stats["clients"] = clientCounts

	// Contract counts by status
	contractCounts := make(map[string]int64)
	for _, status := range []models.ContractStatus{
		models.ContractStatusDraft,
		models.ContractStatusActive,
		models.ContractStatusCompleted,
		models.ContractStatusCancelled,
	} {
		var count int64
		h.db.Model(&models.Contract{}).Where("status = ?", status).Count(&count)
		contractCounts[string(status)] = count
	}
	stats["contracts"] = contractCounts

	// Visits scheduled in the next 7 days
	next7days := time.Now().AddDate(0, 0, 7)
	var upcomingVisits int64
	h.db.Model(&models.Visit{}).
		Where("status = ? AND scheduled_at BETWEEN ? AND ?",
			models.VisitStatusScheduled, time.Now(), next7days).
		Count(&upcomingVisits)
	stats["visits"] = map[string]interface{}{
		"upcoming_7_days": upcomingVisits,
	}

	// Contracts signed in the last 30 days
	last30days := time.Now().AddDate(0, 0, -30)
	var recentContracts int64
	h.db.Model(&models.Contract{}).Where("signed_at >= ?", last30days).Count(&recentContracts)
	stats["recent_activity"] = map[string]interface{}{
		"contracts_signed_last_30d": recentContracts,
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity returns the most recently touched records across
// the main collections.
func (h *AdminHandler) GetRecentActivity(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, _ := strconv.Atoi(limitStr)

	var properties []models.Property
	if err := h.db.Order("updated_at DESC").Limit(limit).Find(&properties).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var contracts []models.Contract
	if err := h.db.Order("updated_at DESC").Limit(limit).Find(&contracts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var visits []models.Visit
	if err := h.db.Order("updated_at DESC").Limit(limit).Find(&visits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"contracts":  contracts,
		"visits":     visits,
	})
}

// GetCityStats returns active listing counts per city.
func (h *AdminHandler) GetCityStats(c *gin.Context) {
	type CityStat struct {
		City  string `json:"city"`
		Count int64  `json:"count"`
	}

	var stats []CityStat
	err := h.db.Model(&models.Property{}).
		Select("city, count(*) as count").
		Where("status = ? AND city IS NOT NULL AND city != ''", models.PropertyStatusAvailable).
		Group("city").
		Order("count DESC").
		Limit(20).
		Scan(&stats).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city_stats": stats,
		"count":      len(stats),
	})
}

// GetPriceDistribution returns the listing count per price bracket.
func (h *AdminHandler) GetPriceDistribution(c *gin.Context) {
	type PriceRange struct {
		RangeLabel string  `json:"range_label"`
		MinPrice   float64 `json:"min_price"`
		MaxPrice   float64 `json:"max_price"`
		Count      int64   `json:"count"`
	}

	ranges := []PriceRange{
		{RangeLabel: "under 100k", MinPrice: 0, MaxPrice: 100000},
		{RangeLabel: "100k-250k", MinPrice: 100000, MaxPrice: 250000},
		{RangeLabel: "250k-500k", MinPrice: 250000, MaxPrice: 500000},
		{RangeLabel: "500k-1M", MinPrice: 500000, MaxPrice: 1000000},
		{RangeLabel: "over 1M", MinPrice: 1000000, MaxPrice: 1000000000},
	}

	for i := range ranges {
		var count int64
		h.db.Model(&models.Property{}).
			Where("status = ? AND price >= ? AND price < ?",
				models.PropertyStatusAvailable, ranges[i].MinPrice, ranges[i].MaxPrice).
			Count(&count)
		ranges[i].Count = count
	}

	c.JSON(http.StatusOK, gin.H{
		"price_distribution": ranges,
	})
}

// GetTopAgents returns agents ranked by completed sales.
func (h *AdminHandler) GetTopAgents(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, _ := strconv.Atoi(limitStr)

	var agents []models.Agent
	err := h.db.Where("active = ?", true).
		Order("total_sales DESC, total_revenue DESC").
		Limit(limit).
		Find(&agents).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agents": agents,
		"count":  len(agents),
	})
}

// GetMonthlyContractVolume returns contract counts and amounts per month
// over the last 12 months.
func (h *AdminHandler) GetMonthlyContractVolume(c *gin.Context) {
	type MonthStat struct {
		Month  string  `json:"month"`
		Count  int64   `json:"count"`
		Amount float64 `json:"amount"`
	}

	start := time.Now().AddDate(-1, 0, 0)
	var stats []MonthStat

	rows, err := h.db.Model(&models.Contract{}).
		Where("signed_at IS NOT NULL AND signed_at >= ?", start).
		Order("signed_at ASC").
		Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rows.Close()

	// Group in memory; month truncation SQL differs per database.
	byMonth := make(map[string]*MonthStat)
	var order []string
	for rows.Next() {
		var contract models.Contract
		if err := h.db.ScanRows(rows, &contract); err != nil {
			continue
		}
		if contract.SignedAt == nil {
			continue
		}
		month := contract.SignedAt.Format("2006-01")
		stat, ok := byMonth[month]
		if !ok {
			stat = &MonthStat{Month: month}
			byMonth[month] = stat
			order = append(order, month)
		}
		stat.Count++
		stat.Amount += contract.Amount
	}
	for _, month := range order {
		stats = append(stats, *byMonth[month])
	}

	c.JSON(http.StatusOK, gin.H{
		"monthly_volume": stats,
	})
}

// TriggerMaintenance manually runs the daily maintenance job.
func (h *AdminHandler) TriggerMaintenance(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not available"})
		return
	}

	h.logger.Info("manual maintenance trigger requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			h.logger.Error("manual maintenance failed", zap.Error(err))
		} else {
			h.logger.Info("manual maintenance completed")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "maintenance job started",
		"status":  "running",
	})
}

// GetQueueStats returns search index queue statistics.
func (h *AdminHandler) GetQueueStats(c *gin.Context) {
	if h.indexWorker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "index worker not available"})
		return
	}
	c.JSON(http.StatusOK, h.indexWorker.GetQueueStats())
}

// GetRateLimitStats returns current rate limiter usage.
func (h *AdminHandler) GetRateLimitStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.limiter.GetStats())
}

// FlushCache drops every cached query result.
func (h *AdminHandler) FlushCache(c *gin.Context) {
	h.cache.Flush()
	h.logger.Info("query cache flushed")
	c.JSON(http.StatusOK, gin.H{"message": "cache flushed"})
}
