package services

import (
	"errors"

	"real-estate-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientService handles CRUD against the clients collection.
type ClientService struct {
	db *gorm.DB
}

// NewClientService creates a new client service.
func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// GetAll returns the most recently created clients, newest first.
func (s *ClientService) GetAll(limit int) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.Order("created_at DESC").Limit(listLimit(limit)).Find(&clients).Error
	return clients, err
}

// GetByID returns one client, or nil when the id does not exist.
func (s *ClientService) GetByID(id string) (*models.Client, error) {
	var client models.Client
	err := s.db.Where("id = ?", id).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Create stores a new client stamped with the actor's id and server
// timestamps, and returns the record as stored.
func (s *ClientService) Create(c *models.Client, actorID string) (*models.Client, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ClientStatusLead
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

// CreateWithVisit creates a client and its first scheduled visit in one
// transaction, so a failure cannot leave an orphaned counterpart record.
func (s *ClientService) CreateWithVisit(c *models.Client, v *models.Visit, actorID string) (*models.Client, *models.Visit, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ClientStatusLead
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = models.VisitStatusScheduled
	}
	v.ClientID = c.ID
	if v.AgentID == "" {
		v.AgentID = c.AssignedAgentID
	}

	ts := now()
	c.CreatedAt, c.UpdatedAt = ts, ts
	c.CreatedBy, c.UpdatedBy = actorID, actorID
	v.CreatedAt, v.UpdatedAt = ts, ts
	v.CreatedBy, v.UpdatedBy = actorID, actorID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(v).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return c, v, nil
}

// Update shallow-merges the patch into the stored record inside a
// transaction and returns the post-update record, or nil when the id
// does not exist.
func (s *ClientService) Update(id string, patch map[string]interface{}, actorID string) (*models.Client, error) {
	var updated *models.Client
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Client
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Model(&models.Client{}).Where("id = ?", id).
			Updates(sanitizePatch(patch, actorID)).Error; err != nil {
			return err
		}

		var after models.Client
		if err := tx.Where("id = ?", id).First(&after).Error; err != nil {
			return err
		}
		updated = &after
		return nil
	})
	return updated, err
}

// Delete removes the client unconditionally; visits and contracts that
// reference it are not cascaded.
func (s *ClientService) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.Client{}).Error
}

// GetByStatus returns clients in the given lead status.
func (s *ClientService) GetByStatus(status models.ClientStatus, limit int) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.Where("status = ?", status).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&clients).Error
	return clients, err
}

// GetByAgent returns clients assigned to the given agent.
func (s *ClientService) GetByAgent(agentID string, limit int) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.Where("assigned_agent_id = ?", agentID).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&clients).Error
	return clients, err
}

// GetBySource returns clients acquired through the given channel.
func (s *ClientService) GetBySource(source string, limit int) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.Where("source = ?", source).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&clients).Error
	return clients, err
}

// GetByEmail returns the client with the given email, or nil.
func (s *ClientService) GetByEmail(email string) (*models.Client, error) {
	var client models.Client
	err := s.db.Where("email = ?", email).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// SearchByName matches clients whose name begins with the exact
// case-sensitive prefix. A name containing the prefix mid-string is not
// matched.
func (s *ClientService) SearchByName(prefix string, limit int) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.Where("name >= ? AND name <= ?", prefix, prefix+nameSentinel).
		Order("name ASC").Limit(listLimit(limit)).Find(&clients).Error
	return clients, err
}
