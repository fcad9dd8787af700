package services

import (
	"errors"

	"real-estate-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgentService handles CRUD against the agents collection.
type AgentService struct {
	db *gorm.DB
}

// NewAgentService creates a new agent service.
func NewAgentService(db *gorm.DB) *AgentService {
	return &AgentService{db: db}
}

// GetAll returns the most recently created agents, newest first.
func (s *AgentService) GetAll(limit int) ([]models.Agent, error) {
	var agents []models.Agent
	err := s.db.Order("created_at DESC").Limit(listLimit(limit)).Find(&agents).Error
	return agents, err
}

// GetActive returns agents currently on the team.
func (s *AgentService) GetActive(limit int) ([]models.Agent, error) {
	var agents []models.Agent
	err := s.db.Where("active = ?", true).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&agents).Error
	return agents, err
}

// GetByID returns one agent, or nil when the id does not exist.
func (s *AgentService) GetByID(id string) (*models.Agent, error) {
	var agent models.Agent
	err := s.db.Where("id = ?", id).First(&agent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// GetByEmail returns the agent with the given email, or nil.
func (s *AgentService) GetByEmail(email string) (*models.Agent, error) {
	var agent models.Agent
	err := s.db.Where("email = ?", email).First(&agent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// Create stores a new agent stamped with the actor's id and server
// timestamps, and returns the record as stored.
func (s *AgentService) Create(a *models.Agent, actorID string) (*models.Agent, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	ts := now()
	a.CreatedAt = ts
	a.UpdatedAt = ts
	a.CreatedBy = actorID
	a.UpdatedBy = actorID

	if err := s.db.Create(a).Error; err != nil {
		return nil, err
	}
	return s.GetByID(a.ID)
}

// Update shallow-merges the patch into the stored record inside a
// transaction and returns the post-update record, or nil when the id
// does not exist.
func (s *AgentService) Update(id string, patch map[string]interface{}, actorID string) (*models.Agent, error) {
	var updated *models.Agent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Agent
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Model(&models.Agent{}).Where("id = ?", id).
			Updates(sanitizePatch(patch, actorID)).Error; err != nil {
			return err
		}

		var after models.Agent
		if err := tx.Where("id = ?", id).First(&after).Error; err != nil {
			return err
		}
		updated = &after
		return nil
	})
	return updated, err
}

// Delete removes the agent unconditionally. Clients and properties that
// reference the agent keep their dangling ids.
func (s *AgentService) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.Agent{}).Error
}

// SearchByName matches agents whose name begins with the exact
// case-sensitive prefix.
func (s *AgentService) SearchByName(prefix string, limit int) ([]models.Agent, error) {
	var agents []models.Agent
	err := s.db.Where("name >= ? AND name <= ?", prefix, prefix+nameSentinel).
		Order("name ASC").Limit(listLimit(limit)).Find(&agents).Error
	return agents, err
}

// AgentStats are the recomputed aggregate counters for one agent.
type AgentStats struct {
	TotalSales     int64
	TotalRevenue   float64
	ActiveListings int64
	VisitsHandled  int64
}

// RecomputeStats derives the aggregate counters for one agent from
// contracts, properties and visits, and persists them. Called by the
// scheduler; the counters are never written through Update.
func (s *AgentService) RecomputeStats(agentID string) (*AgentStats, error) {
	var stats AgentStats

	err := s.db.Model(&models.Contract{}).
		Where("agent_id = ? AND status = ?", agentID, models.ContractStatusCompleted).
		Count(&stats.TotalSales).Error
	if err != nil {
		return nil, err
	}

	var revenue *float64
	err = s.db.Model(&models.Contract{}).
		Where("agent_id = ? AND status = ?", agentID, models.ContractStatusCompleted).
		Select("SUM(commission_amount)").Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.TotalRevenue = *revenue
	}

	err = s.db.Model(&models.Property{}).
		Where("agent_id = ? AND status = ?", agentID, models.PropertyStatusAvailable).
		Count(&stats.ActiveListings).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&models.Visit{}).
		Where("agent_id = ? AND status = ?", agentID, models.VisitStatusCompleted).
		Count(&stats.VisitsHandled).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&models.Agent{}).Where("id = ?", agentID).
		Updates(map[string]interface{}{
			"total_sales":     stats.TotalSales,
			"total_revenue":   stats.TotalRevenue,
			"active_listings": stats.ActiveListings,
			"visits_handled":  stats.VisitsHandled,
			"updated_at":      now(),
		}).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
