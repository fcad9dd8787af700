package services

import (
	"errors"
	"time"

	"real-estate-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisitService handles CRUD against the visits collection.
type VisitService struct {
	db *gorm.DB
}

// NewVisitService creates a new visit service.
func NewVisitService(db *gorm.DB) *VisitService {
	return &VisitService{db: db}
}

// GetAll returns the most recently created visits, newest first.
func (s *VisitService) GetAll(limit int) ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.Order("created_at DESC").Limit(listLimit(limit)).Find(&visits).Error
	return visits, err
}

// GetByID returns one visit, or nil when the id does not exist.
func (s *VisitService) GetByID(id string) (*models.Visit, error) {
	var visit models.Visit
	err := s.db.Where("id = ?", id).First(&visit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

// Create stores a new visit stamped with the actor's id and server
// timestamps, and returns the record as stored.
func (s *VisitService) Create(v *models.Visit, actorID string) (*models.Visit, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = models.VisitStatusScheduled
	}
	ts := now()
	v.CreatedAt = ts
	v.UpdatedAt = ts
	v.CreatedBy = actorID
	v.UpdatedBy = actorID

	if err := s.db.Create(v).Error; err != nil {
		return nil, err
	}
	return s.GetByID(v.ID)
}

// Update shallow-merges the patch into the stored record inside a
// transaction and returns the post-update record, or nil when the id
// does not exist.
func (s *VisitService) Update(id string, patch map[string]interface{}, actorID string) (*models.Visit, error) {
	var updated *models.Visit
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Visit
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Model(&models.Visit{}).Where("id = ?", id).
			Updates(sanitizePatch(patch, actorID)).Error; err != nil {
			return err
		}

		var after models.Visit
		if err := tx.Where("id = ?", id).First(&after).Error; err != nil {
			return err
		}
		updated = &after
		return nil
	})
	return updated, err
}

// Delete removes the visit unconditionally.
func (s *VisitService) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.Visit{}).Error
}

// GetByStatus returns visits in the given status.
func (s *VisitService) GetByStatus(status models.VisitStatus, limit int) ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.Where("status = ?", status).
		Order("scheduled_at DESC").Limit(listLimit(limit)).Find(&visits).Error
	return visits, err
}

// GetByAgent returns visits handled by the given agent.
func (s *VisitService) GetByAgent(agentID string, limit int) ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.Where("agent_id = ?", agentID).
		Order("scheduled_at DESC").Limit(listLimit(limit)).Find(&visits).Error
	return visits, err
}

// GetByClient returns visits booked for the given client.
func (s *VisitService) GetByClient(clientID string, limit int) ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.Where("client_id = ?", clientID).
		Order("scheduled_at DESC").Limit(listLimit(limit)).Find(&visits).Error
	return visits, err
}

// GetByProperty returns visits booked at the given property.
func (s *VisitService) GetByProperty(propertyID string, limit int) ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.Where("property_id = ?", propertyID).
		Order("scheduled_at DESC").Limit(listLimit(limit)).Find(&visits).Error
	return visits, err
}

// GetUpcoming returns scheduled visits from the given moment forward,
// soonest first.
func (s *VisitService) GetUpcoming(from time.Time, limit int) ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.Where("status = ? AND scheduled_at >= ?", models.VisitStatusScheduled, from).
		Order("scheduled_at ASC").Limit(listLimit(limit)).Find(&visits).Error
	return visits, err
}
