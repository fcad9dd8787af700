package services

import (
	"testing"

	"real-estate-crm/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.Property{},
		&models.Client{},
		&models.Agent{},
		&models.Contract{},
		&models.Visit{},
		&models.User{},
		&models.Setting{},
		&models.IndexQueue{},
	)
	assert.NoError(t, err)
	return db
}
