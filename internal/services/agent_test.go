package services

import (
	"testing"
	"time"

	"real-estate-crm/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAgentRecomputeStats(t *testing.T) {
	db := setupTestDB(t)
	agents := NewAgentService(db)
	properties := NewPropertyService(db)
	contracts := NewContractService(db)
	visits := NewVisitService(db)

	agent, err := agents.Create(&models.Agent{
		Name:   "Laura Mendes",
		Email:  "laura@example.com",
		Active: true,
	}, "admin-1")
	assert.NoError(t, err)

	_, err = properties.Create(&models.Property{
		Title:   "Listing 1",
		Type:    models.PropertyTypeHouse,
		Price:   100000,
		AgentID: agent.ID,
	}, "admin-1")
	assert.NoError(t, err)

	for _, commission := range []float64{9000, 4500} {
		_, err = contracts.Create(&models.Contract{
			PropertyID:       "prop-x",
			ClientID:         "client-x",
			AgentID:          agent.ID,
			Type:             models.ContractTypeSale,
			Amount:           300000,
			CommissionAmount: commission,
			Status:           models.ContractStatusCompleted,
		}, "admin-1")
		assert.NoError(t, err)
	}

	_, err = visits.Create(&models.Visit{
		PropertyID:  "prop-x",
		ClientID:    "client-x",
		AgentID:     agent.ID,
		ScheduledAt: time.Now().AddDate(0, 0, -1),
		Status:      models.VisitStatusCompleted,
	}, "admin-1")
	assert.NoError(t, err)

	stats, err := agents.RecomputeStats(agent.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalSales)
	assert.Equal(t, 13500.0, stats.TotalRevenue)
	assert.Equal(t, int64(1), stats.ActiveListings)
	assert.Equal(t, int64(1), stats.VisitsHandled)

	// The counters are persisted on the agent row.
	reloaded, err := agents.GetByID(agent.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.TotalSales)
	assert.Equal(t, 13500.0, reloaded.TotalRevenue)
}

func TestAgentRecomputeStats_NoActivityYieldsZeroes(t *testing.T) {
	db := setupTestDB(t)
	agents := NewAgentService(db)

	agent, err := agents.Create(&models.Agent{
		Name:  "Carlos Pinto",
		Email: "carlos@example.com",
	}, "admin-1")
	assert.NoError(t, err)

	stats, err := agents.RecomputeStats(agent.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalSales)
	assert.Equal(t, 0.0, stats.TotalRevenue)
}

func TestAgentGetActive(t *testing.T) {
	db := setupTestDB(t)
	agents := NewAgentService(db)

	_, err := agents.Create(&models.Agent{Name: "Active", Email: "a@example.com", Active: true}, "x")
	assert.NoError(t, err)
	inactive, err := agents.Create(&models.Agent{Name: "Inactive", Email: "b@example.com", Active: true}, "x")
	assert.NoError(t, err)
	_, err = agents.Update(inactive.ID, map[string]interface{}{"active": false}, "x")
	assert.NoError(t, err)

	active, err := agents.GetActive(10)
	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "Active", active[0].Name)
}
