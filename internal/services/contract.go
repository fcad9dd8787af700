package services

import (
	"errors"

	"real-estate-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractService handles CRUD against the contracts collection.
type ContractService struct {
	db *gorm.DB
}

// NewContractService creates a new contract service.
func NewContractService(db *gorm.DB) *ContractService {
	return &ContractService{db: db}
}

// GetAll returns the most recently created contracts, newest first.
func (s *ContractService) GetAll(limit int) ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.Order("created_at DESC").Limit(listLimit(limit)).Find(&contracts).Error
	return contracts, err
}

// GetByID returns one contract, or nil when the id does not exist.
func (s *ContractService) GetByID(id string) (*models.Contract, error) {
	var contract models.Contract
	err := s.db.Where("id = ?", id).First(&contract).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// Create stores a new contract stamped with the actor's id and server
// timestamps, and returns the record as stored.
func (s *ContractService) Create(c *models.Contract, actorID string) (*models.Contract, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ContractStatusDraft
	}
	ts := now()
	c.CreatedAt = ts
	c.UpdatedAt = ts
	c.CreatedBy = actorID
	c.UpdatedBy = actorID

	if err := s.db.Create(c).Error; err != nil {
		return nil, err
	}
	return s.GetByID(c.ID)
}

// Update shallow-merges the patch into the stored record inside a
// transaction and returns the post-update record, or nil when the id
// does not exist.
func (s *ContractService) Update(id string, patch map[string]interface{}, actorID string) (*models.Contract, error) {
	var updated *models.Contract
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Contract
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Model(&models.Contract{}).Where("id = ?", id).
			Updates(sanitizePatch(patch, actorID)).Error; err != nil {
			return err
		}

		var after models.Contract
		if err := tx.Where("id = ?", id).First(&after).Error; err != nil {
			return err
		}
		updated = &after
		return nil
	})
	return updated, err
}

// Delete removes the contract unconditionally.
func (s *ContractService) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.Contract{}).Error
}

// GetByStatus returns contracts in the given status.
func (s *ContractService) GetByStatus(status models.ContractStatus, limit int) ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.Where("status = ?", status).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&contracts).Error
	return contracts, err
}

// GetByAgent returns contracts brokered by the given agent.
func (s *ContractService) GetByAgent(agentID string, limit int) ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.Where("agent_id = ?", agentID).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&contracts).Error
	return contracts, err
}

// GetByClient returns contracts signed with the given client.
func (s *ContractService) GetByClient(clientID string, limit int) ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.Where("client_id = ?", clientID).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&contracts).Error
	return contracts, err
}

// GetByProperty returns contracts covering the given property.
func (s *ContractService) GetByProperty(propertyID string, limit int) ([]models.Contract, error) {
	var contracts []models.Contract
	err := s.db.Where("property_id = ?", propertyID).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&contracts).Error
	return contracts, err
}

// Sign activates a draft contract and reserves its property in one
// transaction. Returns nil when the contract does not exist.
func (s *ContractService) Sign(id, actorID string) (*models.Contract, error) {
	var signed *models.Contract
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var contract models.Contract
		if err := tx.Where("id = ?", id).First(&contract).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		ts := now()
		if err := tx.Model(&models.Contract{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     models.ContractStatusActive,
				"signed_at":  ts,
				"updated_at": ts,
				"updated_by": actorID,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Property{}).Where("id = ?", contract.PropertyID).
			Updates(map[string]interface{}{
				"status":     models.PropertyStatusReserved,
				"updated_at": ts,
				"updated_by": actorID,
			}).Error; err != nil {
			return err
		}

		var after models.Contract
		if err := tx.Where("id = ?", id).First(&after).Error; err != nil {
			return err
		}
		signed = &after
		return nil
	})
	return signed, err
}

// Close completes a contract and moves its property to the terminal
// status for the contract type (sold for sales, rented for rentals),
// atomically. Returns nil when the contract does not exist.
func (s *ContractService) Close(id, actorID string) (*models.Contract, error) {
	var closed *models.Contract
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var contract models.Contract
		if err := tx.Where("id = ?", id).First(&contract).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		propertyStatus := models.PropertyStatusSold
		if contract.Type == models.ContractTypeRental {
			propertyStatus = models.PropertyStatusRented
		}

		ts := now()
		if err := tx.Model(&models.Contract{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     models.ContractStatusCompleted,
				"updated_at": ts,
				"updated_by": actorID,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Property{}).Where("id = ?", contract.PropertyID).
			Updates(map[string]interface{}{
				"status":     propertyStatus,
				"updated_at": ts,
				"updated_by": actorID,
			}).Error; err != nil {
			return err
		}

		var after models.Contract
		if err := tx.Where("id = ?", id).First(&after).Error; err != nil {
			return err
		}
		closed = &after
		return nil
	})
	return closed, err
}

// ExpireOverdue marks active contracts whose end date has passed as
// completed. Returns the number of contracts expired. Called by the
// scheduler's daily job.
func (s *ContractService) ExpireOverdue(actorID string) (int64, error) {
	result := s.db.Model(&models.Contract{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?",
			models.ContractStatusActive, now()).
		Updates(map[string]interface{}{
			"status":     models.ContractStatusCompleted,
			"updated_at": now(),
			"updated_by": actorID,
		})
	return result.RowsAffected, result.Error
}
