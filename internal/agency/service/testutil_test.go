package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

// newTestDB opens an in-memory SQLite database migrated with the full schema.
// Each test gets its own isolated database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Client{},
		&model.Employee{},
		&model.Service{},
		&model.ServicePackage{},
		&model.Contract{},
		&model.Project{},
		&model.ProcessTemplate{},
		&model.ProcessInstance{},
		&model.Task{},
		&model.TimeEntry{},
	))

	return db
}

// seedTemplate persists a two-step template with one task per step.
func seedTemplate(t *testing.T, db *gorm.DB) *model.ProcessTemplate {
	t.Helper()

	template := &model.ProcessTemplate{
		Name:     "Brand Identity Process",
		Category: "branding",
		Version:  "1.0",
		Active:   true,
		Steps: []model.StepTemplate{
			{
				ID:    uuid.New(),
				Name:  "Discovery",
				Order: 0,
				Tasks: []model.TaskTemplate{
					{
						ID:             uuid.New(),
						Name:           "Stakeholder interviews",
						EstimatedHours: 6,
						RequiredTools:  []string{"Zoom"},
						Deliverables:   []string{"Interview notes"},
					},
				},
			},
			{
				ID:    uuid.New(),
				Name:  "Design",
				Order: 1,
				Tasks: []model.TaskTemplate{
					{
						ID:             uuid.New(),
						Name:           "Logo concepts",
						EstimatedHours: 12,
						RequiredTools:  []string{"Figma"},
						Deliverables:   []string{"3 logo concepts"},
						InstructionDoc: &model.DocumentLink{Title: "Logo guide", URL: "/documents/logo-guide.pdf"},
					},
				},
			},
		},
	}
	require.NoError(t, db.Create(template).Error)
	return template
}

// seedEmployee persists one active employee.
func seedEmployee(t *testing.T, db *gorm.DB, name, role string) *model.Employee {
	t.Helper()

	employee := &model.Employee{Name: name, Role: role, Active: true}
	require.NoError(t, db.Create(employee).Error)
	return employee
}
