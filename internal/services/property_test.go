package services

import (
	"testing"
	"time"

	"real-estate-crm/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPropertyCreate_StampsAuditFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	created, err := svc.Create(&models.Property{
		Title: "Test listing",
		Type:  models.PropertyTypeHouse,
		Price: 500000,
		City:  "Lisboa",
	}, "agent-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "agent-1", created.CreatedBy)
	assert.Equal(t, "agent-1", created.UpdatedBy)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, models.PropertyStatusAvailable, created.Status)
}

func TestPropertyUpdate_MergesPatchAndPreservesOtherFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	bedrooms := 3
	created, err := svc.Create(&models.Property{
		Title:    "Family house",
		Type:     models.PropertyTypeHouse,
		Price:    500000,
		City:     "Porto",
		Bedrooms: &bedrooms,
	}, "agent-1")
	assert.NoError(t, err)

	updated, err := svc.Update(created.ID, map[string]interface{}{
		"price": 550000.0,
	}, "agent-2")
	assert.NoError(t, err)
	assert.NotNil(t, updated)

	// Only the patched field changed; everything else survived.
	assert.Equal(t, 550000.0, updated.Price)
	assert.Equal(t, "Family house", updated.Title)
	assert.NotNil(t, updated.Bedrooms)
	assert.Equal(t, 3, *updated.Bedrooms)
	assert.Equal(t, "Porto", updated.City)

	// Audit trail: creator untouched, updater rewritten.
	assert.Equal(t, "agent-1", updated.CreatedBy)
	assert.Equal(t, "agent-2", updated.UpdatedBy)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
}

func TestPropertyUpdate_PatchCannotOverrideAuditFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	created, err := svc.Create(&models.Property{
		Title: "Loft",
		Type:  models.PropertyTypeApartment,
		Price: 200000,
	}, "agent-1")
	assert.NoError(t, err)

	updated, err := svc.Update(created.ID, map[string]interface{}{
		"price":      210000.0,
		"id":         "spoofed",
		"created_by": "spoofed",
		"created_at": time.Now().AddDate(-1, 0, 0),
	}, "agent-2")
	assert.NoError(t, err)
	assert.NotNil(t, updated)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "agent-1", updated.CreatedBy)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 210000.0, updated.Price)
}

func TestPropertyUpdate_UnknownIDReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	updated, err := svc.Update("missing", map[string]interface{}{"price": 1.0}, "agent-1")
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestPropertyGetByID_RoundTripAndDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	created, err := svc.Create(&models.Property{
		Title:    "Townhouse",
		Type:     models.PropertyTypeHouse,
		Price:    320000,
		Features: models.StringList{"garden", "garage"},
	}, "agent-1")
	assert.NoError(t, err)

	fetched, err := svc.GetByID(created.ID)
	assert.NoError(t, err)
	assert.NotNil(t, fetched)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, models.StringList{"garden", "garage"}, fetched.Features)

	assert.NoError(t, svc.Delete(created.ID))

	gone, err := svc.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)
}

func TestPropertyListPaginated_FiltersAndCounts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	for i, p := range []models.Property{
		{Title: "A", Type: models.PropertyTypeApartment, City: "Lisboa", Price: 100000},
		{Title: "B", Type: models.PropertyTypeApartment, City: "Lisboa", Price: 300000},
		{Title: "C", Type: models.PropertyTypeHouse, City: "Porto", Price: 500000},
	} {
		_, err := svc.Create(&p, "agent-1")
		assert.NoError(t, err, "property %d", i)
	}

	minPrice := 150000.0
	page, err := svc.ListPaginated(PropertyFilters{
		City:     "Lisboa",
		MinPrice: &minPrice,
		Limit:    10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "B", page.Items[0].Title)

	page, err = svc.ListPaginated(PropertyFilters{SortBy: "price_asc", Limit: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "A", page.Items[0].Title)
	assert.Equal(t, "B", page.Items[1].Title)
}

func TestPropertySearchByTitle_PrefixOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	for _, title := range []string{"Sunny loft", "Sunset villa", "Grand sunny estate"} {
		_, err := svc.Create(&models.Property{Title: title, Type: models.PropertyTypeHouse, Price: 1}, "agent-1")
		assert.NoError(t, err)
	}

	matches, err := svc.SearchByTitle("Sun", 10)
	assert.NoError(t, err)
	assert.Len(t, matches, 2)
	for _, m := range matches {
		assert.True(t, m.Title == "Sunny loft" || m.Title == "Sunset villa")
	}
}

func TestPropertyAppendPhoto(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPropertyService(db)

	created, err := svc.Create(&models.Property{
		Title:  "Penthouse",
		Type:   models.PropertyTypeApartment,
		Price:  900000,
		Photos: models.StringList{"https://cdn.example.com/1.jpg"},
	}, "agent-1")
	assert.NoError(t, err)

	updated, err := svc.AppendPhoto(created.ID, "https://cdn.example.com/2.jpg", "agent-1")
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, models.StringList{
		"https://cdn.example.com/1.jpg",
		"https://cdn.example.com/2.jpg",
	}, updated.Photos)
}
