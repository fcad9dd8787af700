package services

import (
	"testing"
	"time"

	"real-estate-crm/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClientSearchByName_MatchesPrefixOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db)

	for _, name := range []string{"Ana Ribeiro", "Anabela Costa", "Mariana Silva", "ana lima"} {
		_, err := svc.Create(&models.Client{Name: name}, "agent-1")
		assert.NoError(t, err)
	}

	matches, err := svc.SearchByName("Ana", 10)
	assert.NoError(t, err)

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Name)
	}
	// Prefix match is case sensitive: "Mariana Silva" contains "ana" but
	// does not start with it, and "ana lima" starts with the wrong case.
	assert.Equal(t, []string{"Ana Ribeiro", "Anabela Costa"}, names)
}

func TestClientCreateWithVisit_WritesBothRecords(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db)

	client := &models.Client{
		Name:            "Ana Ribeiro",
		AssignedAgentID: "agent-1",
	}
	visit := &models.Visit{
		PropertyID:  "prop-1",
		ScheduledAt: time.Now().AddDate(0, 0, 2),
	}

	createdClient, createdVisit, err := svc.CreateWithVisit(client, visit, "agent-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, createdClient.ID)
	assert.Equal(t, createdClient.ID, createdVisit.ClientID)
	// The visit inherits the client's assigned agent.
	assert.Equal(t, "agent-1", createdVisit.AgentID)
	assert.Equal(t, models.VisitStatusScheduled, createdVisit.Status)

	var visitCount int64
	db.Model(&models.Visit{}).Count(&visitCount)
	assert.Equal(t, int64(1), visitCount)
}

func TestClientCreateWithVisit_RollsBackOnVisitFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db)
	visits := NewVisitService(db)

	// Occupy a visit id so the transactional insert collides.
	existing, err := visits.Create(&models.Visit{
		ID:          "visit-dup",
		PropertyID:  "prop-1",
		ScheduledAt: time.Now(),
	}, "agent-1")
	assert.NoError(t, err)
	assert.Equal(t, "visit-dup", existing.ID)

	client := &models.Client{Name: "Orphan Candidate"}
	visit := &models.Visit{
		ID:          "visit-dup",
		PropertyID:  "prop-2",
		ScheduledAt: time.Now(),
	}

	_, _, err = svc.CreateWithVisit(client, visit, "agent-1")
	assert.Error(t, err)

	// The failed visit insert must not leave an orphaned client behind.
	var clientCount int64
	db.Model(&models.Client{}).Where("name = ?", "Orphan Candidate").Count(&clientCount)
	assert.Equal(t, int64(0), clientCount)
}

func TestClientUpdate_StatusTransition(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db)

	created, err := svc.Create(&models.Client{Name: "Ana Ribeiro"}, "agent-1")
	assert.NoError(t, err)
	assert.Equal(t, models.ClientStatusLead, created.Status)

	updated, err := svc.Update(created.ID, map[string]interface{}{
		"status": string(models.ClientStatusActive),
	}, "agent-1")
	assert.NoError(t, err)
	assert.Equal(t, models.ClientStatusActive, updated.Status)
}

func TestClientGetByAgentAndSource(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db)

	_, err := svc.Create(&models.Client{Name: "A", AssignedAgentID: "agent-1", Source: "website"}, "x")
	assert.NoError(t, err)
	_, err = svc.Create(&models.Client{Name: "B", AssignedAgentID: "agent-2", Source: "referral"}, "x")
	assert.NoError(t, err)

	byAgent, err := svc.GetByAgent("agent-1", 10)
	assert.NoError(t, err)
	assert.Len(t, byAgent, 1)
	assert.Equal(t, "A", byAgent[0].Name)

	bySource, err := svc.GetBySource("referral", 10)
	assert.NoError(t, err)
	assert.Len(t, bySource, 1)
	assert.Equal(t, "B", bySource[0].Name)
}
