package scheduler

import (
	"fmt"

	"real-estate-crm/internal/config"
	"real-estate-crm/internal/models"
	"real-estate-crm/internal/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// actorSystem is the audit actor used for scheduler-driven writes.
const actorSystem = "system"

// Scheduler runs the daily maintenance jobs: recomputing agent
// performance counters and completing contracts past their end date.
type Scheduler struct {
	cron      *cron.Cron
	db        *gorm.DB
	agents    *services.AgentService
	contracts *services.ContractService
	config    *config.Config
	logger    *zap.Logger
	isRunning bool
}

// New creates a scheduler.
func New(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		db:        db,
		agents:    services.NewAgentService(db),
		contracts: services.NewContractService(db),
		config:    cfg,
		logger:    logger,
	}
}

// Start registers the daily job and starts the cron loop.
func (s *Scheduler) Start() error {
	if !s.config.Scheduler.Enabled {
		s.logger.Info("scheduler disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.Scheduler.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		if err := s.runMaintenance(); err != nil {
			s.logger.Error("daily maintenance failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("scheduler started",
		zap.String("daily_run_time", s.config.Scheduler.DailyRunTime),
		zap.String("cron", cronSpec))
	return nil
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		s.logger.Info("scheduler stopped")
	}
}

// RunNow immediately executes the maintenance job (manual trigger).
func (s *Scheduler) RunNow() error {
	return s.runMaintenance()
}

// runMaintenance executes the daily routine.
func (s *Scheduler) runMaintenance() error {
	expired, err := s.contracts.ExpireOverdue(actorSystem)
	if err != nil {
		return fmt.Errorf("expire contracts: %w", err)
	}
	if expired > 0 {
		s.logger.Info("expired overdue contracts", zap.Int64("count", expired))
	}

	var agents []models.Agent
	if err := s.db.Find(&agents).Error; err != nil {
		return fmt.Errorf("list agents: %w", err)
	}

	recomputed := 0
	for _, agent := range agents {
		if _, err := s.agents.RecomputeStats(agent.ID); err != nil {
			s.logger.Warn("failed to recompute agent stats",
				zap.String("agent_id", agent.ID), zap.Error(err))
			continue
		}
		recomputed++
	}

	s.logger.Info("daily maintenance completed",
		zap.Int64("contracts_expired", expired),
		zap.Int("agents_recomputed", recomputed))
	return nil
}

// parseDailyRunTime converts HH:MM to a cron specification.
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	s.logger.Warn("failed to parse daily run time, using default 03:00",
		zap.String("value", timeStr))
	return "0 3 * * *"
}
