package services

import (
	"errors"

	"real-estate-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyService handles CRUD against the properties collection.
type PropertyService struct {
	db *gorm.DB
}

// NewPropertyService creates a new property service.
func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{db: db}
}

// GetAll returns the most recently created properties, newest first.
func (s *PropertyService) GetAll(limit int) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.Order("created_at DESC").Limit(listLimit(limit)).Find(&properties).Error
	return properties, err
}

// GetByID returns one property, or nil when the id does not exist.
func (s *PropertyService) GetByID(id string) (*models.Property, error) {
	var property models.Property
	err := s.db.Where("id = ?", id).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// Create stores a new property stamped with the actor's id and server
// timestamps, and returns the record as stored.
func (s *PropertyService) Create(p *models.Property, actorID string) (*models.Property, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.PropertyStatusAvailable
	}
	ts := now()
	p.CreatedAt = ts
	p.UpdatedAt = ts
	p.CreatedBy = actorID
	p.UpdatedBy = actorID

	if err := s.db.Create(p).Error; err != nil {
		return nil, err
	}
	return s.GetByID(p.ID)
}

// Update shallow-merges the patch into the stored record inside a
// transaction and returns the post-update record. Fields absent from the
// patch are left unchanged; updated_at/updated_by always change. Returns
// nil when the id does not exist.
func (s *PropertyService) Update(id string, patch map[string]interface{}, actorID string) (*models.Property, error) {
	var updated *models.Property
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Property
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Model(&models.Property{}).Where("id = ?", id).
			Updates(sanitizePatch(patch, actorID)).Error; err != nil {
			return err
		}

		var after models.Property
		if err := tx.Where("id = ?", id).First(&after).Error; err != nil {
			return err
		}
		updated = &after
		return nil
	})
	return updated, err
}

// Delete removes the property unconditionally. No check is made for
// dependent contracts or visits; their references simply dangle.
func (s *PropertyService) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.Property{}).Error
}

// GetByStatus returns properties in the given lifecycle status.
func (s *PropertyService) GetByStatus(status models.PropertyStatus, limit int) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.Where("status = ?", status).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&properties).Error
	return properties, err
}

// GetByType returns properties of the given type.
func (s *PropertyService) GetByType(propertyType models.PropertyType, limit int) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.Where("type = ?", propertyType).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&properties).Error
	return properties, err
}

// GetByAgent returns properties owned by the given agent.
func (s *PropertyService) GetByAgent(agentID string, limit int) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.Where("agent_id = ?", agentID).
		Order("created_at DESC").Limit(listLimit(limit)).Find(&properties).Error
	return properties, err
}

// SearchByTitle matches properties whose title begins with the exact
// case-sensitive prefix. Substring occurrences are not matched.
func (s *PropertyService) SearchByTitle(prefix string, limit int) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.Where("title >= ? AND title <= ?", prefix, prefix+nameSentinel).
		Order("title ASC").Limit(listLimit(limit)).Find(&properties).Error
	return properties, err
}

// PropertyFilters describes the paginated listing query. Properties are
// the only entity with a paginated variant.
type PropertyFilters struct {
	Status      string
	Type        string
	City        string
	AgentID     string
	MinPrice    *float64
	MaxPrice    *float64
	MinBedrooms *int
	SortBy      string
	Limit       int
	Offset      int
}

// PagedProperties is the result of a paginated listing query.
type PagedProperties struct {
	Items  []models.Property `json:"items"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// ListPaginated returns a filtered page of properties with a total count.
func (s *PropertyService) ListPaginated(filters PropertyFilters) (*PagedProperties, error) {
	query := s.db.Model(&models.Property{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.City != "" {
		query = query.Where("city = ?", filters.City)
	}
	if filters.AgentID != "" {
		query = query.Where("agent_id = ?", filters.AgentID)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.MinBedrooms != nil {
		query = query.Where("bedrooms >= ?", *filters.MinBedrooms)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var orderClause string
	switch filters.SortBy {
	case "price_asc":
		orderClause = "price ASC"
	case "price_desc":
		orderClause = "price DESC"
	case "area_desc":
		orderClause = "CASE WHEN area IS NULL THEN 1 ELSE 0 END, area DESC"
	default:
		orderClause = "created_at DESC"
	}

	limit := listLimit(filters.Limit)
	var items []models.Property
	err := query.Order(orderClause).Limit(limit).Offset(filters.Offset).Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &PagedProperties{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: filters.Offset,
	}, nil
}

// SetStatus updates only the lifecycle status of a property.
func (s *PropertyService) SetStatus(id string, status models.PropertyStatus, actorID string) (*models.Property, error) {
	return s.Update(id, map[string]interface{}{"status": status}, actorID)
}

// AppendPhoto adds an uploaded photo URL to the property's photo list.
func (s *PropertyService) AppendPhoto(id, photoURL, actorID string) (*models.Property, error) {
	var updated *models.Property
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Property
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		photos := append(existing.Photos, photoURL)
		if err := tx.Model(&models.Property{}).Where("id = ?", id).
			Updates(sanitizePatch(map[string]interface{}{"photos": photos}, actorID)).Error; err != nil {
			return err
		}

		var after models.Property
		if err := tx.Where("id = ?", id).First(&after).Error; err != nil {
			return err
		}
		updated = &after
		return nil
	})
	return updated, err
}
