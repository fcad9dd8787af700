package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingSet_UpsertsByKey(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSettingService(db)

	first, err := svc.Set("company_name", "Demo Realty", "dashboard title", "admin-1")
	assert.NoError(t, err)
	assert.Equal(t, "Demo Realty", first.Value)
	assert.Equal(t, "admin-1", first.CreatedBy)

	second, err := svc.Set("company_name", "Acme Estates", "dashboard title", "admin-2")
	assert.NoError(t, err)
	assert.Equal(t, "Acme Estates", second.Value)
	assert.Equal(t, "admin-2", second.UpdatedBy)

	all, err := svc.All()
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSettingGetAndDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSettingService(db)

	_, err := svc.Set("default_currency", "EUR", "", "admin-1")
	assert.NoError(t, err)

	setting, err := svc.Get("default_currency")
	assert.NoError(t, err)
	assert.NotNil(t, setting)
	assert.Equal(t, "EUR", setting.Value)

	missing, err := svc.Get("missing")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	assert.NoError(t, svc.Delete("default_currency"))
	gone, err := svc.Get("default_currency")
	assert.NoError(t, err)
	assert.Nil(t, gone)
}
