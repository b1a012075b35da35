package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

func TestPhasesFromSteps(t *testing.T) {
	steps := []model.StepTemplate{
		{
			ID:   uuid.New(),
			Name: "Discovery",
			Tasks: []model.TaskTemplate{
				{Name: "Interviews", EstimatedHours: 4, RequiredTools: []string{"Zoom"}, Deliverables: []string{"Notes"}},
				{Name: "Research", EstimatedHours: 6, RequiredTools: []string{"Zoom", "Docs"}, Deliverables: []string{"Report"}},
			},
		},
		{ID: uuid.New(), Name: "Design"},
	}

	phases := PhasesFromSteps(steps)
	require.Len(t, phases, 2)

	first := phases[0]
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, steps[0].ID, first.ID, "phase ids are fresh, not step ids")
	require.NotNil(t, first.StepTemplateID)
	assert.Equal(t, steps[0].ID, *first.StepTemplateID)
	assert.Equal(t, "Discovery", first.Name)
	assert.Equal(t, model.PhaseStatusPending, first.Status)
	assert.Zero(t, first.CompletedTasks)
	assert.Zero(t, first.TotalTasks)
	assert.Equal(t, 10.0, first.EstimatedHours, "hours aggregate across step tasks")
	assert.Equal(t, []string{"Zoom", "Docs"}, first.RequiredTools, "tools are deduplicated in order")
	assert.Equal(t, []string{"Notes", "Report"}, first.Deliverables)

	assert.Equal(t, "Design", phases[1].Name, "step order is preserved")
	assert.Zero(t, phases[1].EstimatedHours)
}

func TestProcessService_Materialize(t *testing.T) {
	db := newTestDB(t)
	ps := NewProcessService(db, NewCatalogService(db))
	ctx := context.Background()

	template := seedTemplate(t, db)
	projectID := uuid.New()

	instance, err := ps.Materialize(ctx, &model.CreateProcessInstanceDTO{
		Name:       "Acme - Brand Identity",
		ProjectID:  projectID,
		TemplateID: template.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, projectID, instance.ProjectID)
	require.NotNil(t, instance.TemplateID)
	assert.Equal(t, template.ID, *instance.TemplateID)
	assert.Equal(t, model.InstanceStatusActive, instance.Status, "status defaults to active")
	assert.True(t, instance.Active)
	require.Len(t, instance.Phases, len(template.Steps))

	for i, phase := range instance.Phases {
		assert.Equal(t, template.Steps[i].Name, phase.Name)
		assert.Equal(t, model.PhaseStatusPending, phase.Status)
	}

	// The template is untouched by materialization.
	var stored model.ProcessTemplate
	require.NoError(t, db.First(&stored, "id = ?", template.ID).Error)
	assert.Equal(t, template.Steps, stored.Steps)
}

func TestProcessService_Materialize_ZeroStepTemplate(t *testing.T) {
	db := newTestDB(t)
	ps := NewProcessService(db, NewCatalogService(db))
	ctx := context.Background()

	template := &model.ProcessTemplate{Name: "Empty", Version: "1.0", Active: true, Steps: []model.StepTemplate{}}
	require.NoError(t, db.Create(template).Error)

	instance, err := ps.Materialize(ctx, &model.CreateProcessInstanceDTO{
		Name:       "Empty run",
		ProjectID:  uuid.New(),
		TemplateID: template.ID,
	})
	require.NoError(t, err, "a template with zero steps is not an error")
	assert.Empty(t, instance.Phases)

	progress, err := ps.InstanceProgress(ctx, instance.ID)
	require.NoError(t, err)
	assert.Zero(t, progress.Percent)
	assert.Zero(t, progress.TotalPhases)
}

func TestProcessService_Materialize_InactiveTemplate(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	ps := NewProcessService(db, catalog)
	ctx := context.Background()

	template := seedTemplate(t, db)
	require.NoError(t, catalog.DeactivateTemplate(ctx, template.ID))

	_, err := ps.Materialize(ctx, &model.CreateProcessInstanceDTO{
		Name:       "Should fail",
		ProjectID:  uuid.New(),
		TemplateID: template.ID,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProcessService_UpdatePhase(t *testing.T) {
	db := newTestDB(t)
	ps := NewProcessService(db, NewCatalogService(db))
	ctx := context.Background()

	template := seedTemplate(t, db)
	instance, err := ps.Materialize(ctx, &model.CreateProcessInstanceDTO{
		Name:       "Acme - Brand Identity",
		ProjectID:  uuid.New(),
		TemplateID: template.ID,
	})
	require.NoError(t, err)

	assignee := uuid.New()
	phaseID := instance.Phases[0].ID

	updated, err := ps.UpdatePhase(ctx, instance.ID, phaseID, &model.UpdatePhaseStatusDTO{
		Status:     model.PhaseStatusInProgress,
		AssignedTo: &assignee,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseStatusInProgress, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, assignee, *updated.AssignedTo)

	// The update is persisted; other phases are untouched.
	phases, err := ps.GetPhases(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseStatusInProgress, phases[0].Status)
	assert.Equal(t, model.PhaseStatusPending, phases[1].Status)
}

func TestProcessService_UpdatePhase_Validation(t *testing.T) {
	db := newTestDB(t)
	ps := NewProcessService(db, NewCatalogService(db))
	ctx := context.Background()

	template := seedTemplate(t, db)
	instance, err := ps.Materialize(ctx, &model.CreateProcessInstanceDTO{
		Name:       "Acme",
		ProjectID:  uuid.New(),
		TemplateID: template.ID,
	})
	require.NoError(t, err)

	_, err = ps.UpdatePhase(ctx, instance.ID, instance.Phases[0].ID, &model.UpdatePhaseStatusDTO{Status: "done"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ps.UpdatePhase(ctx, instance.ID, uuid.New(), &model.UpdatePhaseStatusDTO{Status: model.PhaseStatusCompleted})
	assert.ErrorIs(t, err, ErrNotFound, "unknown phase id in a real instance")
}

func TestProcessService_InstanceProgress(t *testing.T) {
	db := newTestDB(t)
	ps := NewProcessService(db, NewCatalogService(db))
	ctx := context.Background()

	template := seedTemplate(t, db)
	instance, err := ps.Materialize(ctx, &model.CreateProcessInstanceDTO{
		Name:       "Acme",
		ProjectID:  uuid.New(),
		TemplateID: template.ID,
	})
	require.NoError(t, err)

	progress, err := ps.InstanceProgress(ctx, instance.ID)
	require.NoError(t, err)
	assert.Zero(t, progress.Percent)

	_, err = ps.UpdatePhase(ctx, instance.ID, instance.Phases[0].ID, &model.UpdatePhaseStatusDTO{Status: model.PhaseStatusCompleted})
	require.NoError(t, err)

	progress, err = ps.InstanceProgress(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.TotalPhases)
	assert.Equal(t, 1, progress.CompletedPhases)
	assert.Equal(t, 50, progress.Percent)
}

func TestProcessService_DeactivateInstance(t *testing.T) {
	db := newTestDB(t)
	ps := NewProcessService(db, NewCatalogService(db))
	ctx := context.Background()

	template := seedTemplate(t, db)
	instance, err := ps.Materialize(ctx, &model.CreateProcessInstanceDTO{
		Name:       "Acme",
		ProjectID:  uuid.New(),
		TemplateID: template.ID,
	})
	require.NoError(t, err)

	require.NoError(t, ps.DeactivateInstance(ctx, instance.ID))

	_, err = ps.GetInstance(ctx, instance.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
