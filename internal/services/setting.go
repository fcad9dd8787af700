package services

import (
	"errors"

	"real-estate-crm/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingService handles the agency-wide key/value settings collection.
type SettingService struct {
	db *gorm.DB
}

// NewSettingService creates a new setting service.
func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

// All returns every setting. The column name is quoted through clause
// types because "key" is a reserved word on MySQL.
func (s *SettingService) All() ([]models.Setting, error) {
	var settings []models.Setting
	err := s.db.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&settings).Error
	return settings, err
}

// Get returns one setting, or nil when the key does not exist.
func (s *SettingService) Get(key string) (*models.Setting, error) {
	var setting models.Setting
	err := s.db.Where(map[string]interface{}{"key": key}).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Set upserts a setting value, stamping the audit fields.
func (s *SettingService) Set(key, value, description, actorID string) (*models.Setting, error) {
	ts := now()
	setting := models.Setting{
		Key:         key,
		Value:       value,
		Description: description,
	}
	setting.CreatedAt = ts
	setting.UpdatedAt = ts
	setting.CreatedBy = actorID
	setting.UpdatedBy = actorID

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":       value,
			"description": description,
			"updated_at":  ts,
			"updated_by":  actorID,
		}),
	}).Create(&setting).Error
	if err != nil {
		return nil, err
	}
	return s.Get(key)
}

// Delete removes a setting.
func (s *SettingService) Delete(key string) error {
	return s.db.Where(map[string]interface{}{"key": key}).Delete(&models.Setting{}).Error
}
