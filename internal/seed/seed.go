// Package seed loads a small demo data set for local development and
// evaluation environments.
package seed

import (
	"fmt"
	"time"

	"real-estate-crm/internal/models"
	"real-estate-crm/internal/services"

	"gorm.io/gorm"
)

const seedActor = "seed"

// Run populates the database with demo records. It is idempotent at the
// coarse level: when any property already exists, the whole run is
// skipped.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Property{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("database not empty, refusing to seed")
	}

	agents := services.NewAgentService(db)
	properties := services.NewPropertyService(db)
	clients := services.NewClientService(db)
	visits := services.NewVisitService(db)
	contracts := services.NewContractService(db)
	users := services.NewUserService(db)
	settings := services.NewSettingService(db)

	agent1, err := agents.Create(&models.Agent{
		Name:           "Laura Mendes",
		Email:          "laura.mendes@example.com",
		Phone:          "+351 912 000 001",
		CommissionRate: 0.03,
		Specialties:    models.StringList{"residential", "luxury"},
		Active:         true,
	}, seedActor)
	if err != nil {
		return fmt.Errorf("seed agent: %w", err)
	}

	agent2, err := agents.Create(&models.Agent{
		Name:           "Carlos Pinto",
		Email:          "carlos.pinto@example.com",
		Phone:          "+351 912 000 002",
		CommissionRate: 0.025,
		Specialties:    models.StringList{"commercial"},
		Active:         true,
	}, seedActor)
	if err != nil {
		return fmt.Errorf("seed agent: %w", err)
	}

	area1 := 120.0
	bedrooms1 := 3
	bathrooms1 := 2
	prop1, err := properties.Create(&models.Property{
		Title:       "Sunny 3-bedroom apartment near the river",
		Description: "Renovated apartment with open kitchen and balcony.",
		Type:        models.PropertyTypeApartment,
		Status:      models.PropertyStatusAvailable,
		Price:       385000,
		Area:        &area1,
		Address:     "Rua do Ouro 25",
		City:        "Lisboa",
		Bedrooms:    &bedrooms1,
		Bathrooms:   &bathrooms1,
		Features:    models.StringList{"balcony", "elevator", "parking"},
		AgentID:     agent1.ID,
	}, seedActor)
	if err != nil {
		return fmt.Errorf("seed property: %w", err)
	}

	area2 := 310.0
	if _, err := properties.Create(&models.Property{
		Title:       "Downtown office space",
		Description: "Open-plan office floor with street frontage.",
		Type:        models.PropertyTypeCommercial,
		Status:      models.PropertyStatusAvailable,
		Price:       2400,
		Area:        &area2,
		Address:     "Avenida da Boavista 1100",
		City:        "Porto",
		AgentID:     agent2.ID,
	}, seedActor); err != nil {
		return fmt.Errorf("seed property: %w", err)
	}

	budgetMax := 450000.0
	client1 := &models.Client{
		Name:            "Ana Ribeiro",
		Email:           "ana.ribeiro@example.com",
		Phone:           "+351 913 000 001",
		Status:          models.ClientStatusLead,
		BudgetMax:       &budgetMax,
		PreferredTypes:  models.StringList{"apartment"},
		PreferredCities: models.StringList{"Lisboa"},
		Source:          "website",
		AssignedAgentID: agent1.ID,
	}
	firstVisit := &models.Visit{
		PropertyID:  prop1.ID,
		ScheduledAt: time.Now().AddDate(0, 0, 3),
	}
	seededClient, _, err := clients.CreateWithVisit(client1, firstVisit, seedActor)
	if err != nil {
		return fmt.Errorf("seed client: %w", err)
	}

	if _, err := visits.Create(&models.Visit{
		PropertyID:  prop1.ID,
		ClientID:    seededClient.ID,
		AgentID:     agent1.ID,
		ScheduledAt: time.Now().AddDate(0, 0, 10),
	}, seedActor); err != nil {
		return fmt.Errorf("seed visit: %w", err)
	}

	if _, err := contracts.Create(&models.Contract{
		PropertyID: prop1.ID,
		ClientID:   seededClient.ID,
		AgentID:    agent1.ID,
		Type:       models.ContractTypeSale,
		Amount:     380000,
	}, seedActor); err != nil {
		return fmt.Errorf("seed contract: %w", err)
	}

	if _, err := users.Create(&models.User{
		Email:       "admin@example.com",
		DisplayName: "Administrator",
		Role:        models.RoleAdmin,
	}, "admin123", seedActor); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if _, err := users.Create(&models.User{
		Email:       "laura.mendes@example.com",
		DisplayName: "Laura Mendes",
		Role:        models.RoleAgent,
	}, "agent123", seedActor); err != nil {
		return fmt.Errorf("seed agent user: %w", err)
	}

	if _, err := settings.Set("company_name", "Demo Realty", "Display name on the dashboard", seedActor); err != nil {
		return fmt.Errorf("seed setting: %w", err)
	}
	if _, err := settings.Set("default_currency", "EUR", "Currency used for listing prices", seedActor); err != nil {
		return fmt.Errorf("seed setting: %w", err)
	}

	return nil
}
