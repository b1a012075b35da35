package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

func TestTaskService_CreateAndUpdateTask(t *testing.T) {
	db := newTestDB(t)
	ts := NewTaskService(db)
	ctx := context.Background()

	task, err := ts.CreateTask(ctx, &model.CreateTaskDTO{
		Name:      "Write proposal",
		ProjectID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, task.Status)
	assert.Equal(t, model.TaskPriorityMedium, task.Priority, "priority defaults to medium")

	status := model.TaskStatusInProgress
	priority := model.TaskPriorityHigh
	assignee := uuid.New()
	due := time.Now().UTC().Add(72 * time.Hour)

	updated, err := ts.UpdateTask(ctx, task.ID, &model.UpdateTaskDTO{
		Status:     &status,
		Priority:   &priority,
		AssignedTo: &assignee,
		DueDate:    &due,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, updated.Status)
	assert.Equal(t, model.TaskPriorityHigh, updated.Priority)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, assignee, *updated.AssignedTo)

	// Partial update leaves unset fields untouched.
	done := model.TaskStatusCompleted
	updated, err = ts.UpdateTask(ctx, task.ID, &model.UpdateTaskDTO{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, model.TaskPriorityHigh, updated.Priority)
	require.NotNil(t, updated.AssignedTo)
}

func TestTaskService_UpdateTask_Validation(t *testing.T) {
	db := newTestDB(t)
	ts := NewTaskService(db)
	ctx := context.Background()

	task, err := ts.CreateTask(ctx, &model.CreateTaskDTO{Name: "T", ProjectID: uuid.New()})
	require.NoError(t, err)

	bad := model.TaskStatus("done")
	_, err = ts.UpdateTask(ctx, task.ID, &model.UpdateTaskDTO{Status: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	badPriority := model.TaskPriority("urgent")
	_, err = ts.UpdateTask(ctx, task.ID, &model.UpdateTaskDTO{Priority: &badPriority})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ts.UpdateTask(ctx, uuid.New(), &model.UpdateTaskDTO{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_GetTaskDetails_TemplateEnrichment(t *testing.T) {
	db := newTestDB(t)
	ps := NewProjectService(db)
	ts := NewTaskService(db)
	ctx := context.Background()

	template := seedTemplate(t, db)
	svc := seedTemplateService(t, db, template.ID)

	result, err := ps.CreateProject(ctx, &model.CreateProjectDTO{
		Name:     "Acme Rebrand",
		ClientID: uuid.New(),
		Services: []model.ProjectServiceSelectionDTO{{ServiceID: svc.ID}},
	})
	require.NoError(t, err)
	require.Len(t, result.Tasks, 2)

	details, err := ts.GetTaskDetails(ctx, result.Tasks[0].ID)
	require.NoError(t, err)
	require.NotNil(t, details.TemplateInfo)
	assert.Equal(t, template.ID, details.TemplateInfo.TemplateID)
	assert.Equal(t, "Brand Identity Process", details.TemplateInfo.TemplateName)
	assert.Equal(t, "Discovery", details.TemplateInfo.StepName)
	assert.Equal(t, "Stakeholder interviews", details.TemplateInfo.TaskName)
}

func TestTaskService_GetTaskDetails_BareTaskFallback(t *testing.T) {
	db := newTestDB(t)
	ts := NewTaskService(db)
	ctx := context.Background()

	// A task created directly has no instance/template chain to walk.
	task, err := ts.CreateTask(ctx, &model.CreateTaskDTO{Name: "Ad hoc", ProjectID: uuid.New()})
	require.NoError(t, err)

	details, err := ts.GetTaskDetails(ctx, task.ID)
	require.NoError(t, err, "missing template chain degrades, it never errors")
	assert.Nil(t, details.TemplateInfo)
	assert.Zero(t, details.LoggedHours)
}

func TestTaskService_GetTaskDetails_BrokenChainFallback(t *testing.T) {
	db := newTestDB(t)
	ps := NewProjectService(db)
	ts := NewTaskService(db)
	ctx := context.Background()

	template := seedTemplate(t, db)
	svc := seedTemplateService(t, db, template.ID)

	result, err := ps.CreateProject(ctx, &model.CreateProjectDTO{
		Name:     "Acme Rebrand",
		ClientID: uuid.New(),
		Services: []model.ProjectServiceSelectionDTO{{ServiceID: svc.ID}},
	})
	require.NoError(t, err)

	// Hard-delete the template to break the chain at its last link.
	require.NoError(t, db.Unscoped().Delete(&model.ProcessTemplate{}, "id = ?", template.ID).Error)

	details, err := ts.GetTaskDetails(ctx, result.Tasks[0].ID)
	require.NoError(t, err)
	assert.Nil(t, details.TemplateInfo)
	assert.Equal(t, result.Tasks[0].Name, details.Task.Name, "the bare task still comes back whole")
}

func TestTaskService_GetTaskDetails_LoggedHours(t *testing.T) {
	db := newTestDB(t)
	ts := NewTaskService(db)
	ds := NewDirectoryService(db)
	ctx := context.Background()

	employee := seedEmployee(t, db, "Sam", "strategist")
	task, err := ts.CreateTask(ctx, &model.CreateTaskDTO{Name: "Audit", ProjectID: uuid.New()})
	require.NoError(t, err)

	for _, hours := range []float64{2.5, 1.25} {
		_, err := ds.CreateTimeEntry(ctx, &model.TimeEntry{
			TaskID:     task.ID,
			EmployeeID: employee.ID,
			Hours:      hours,
			Date:       time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	details, err := ts.GetTaskDetails(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.75, details.LoggedHours)
}

func TestTaskService_DeactivateTask(t *testing.T) {
	db := newTestDB(t)
	ts := NewTaskService(db)
	ctx := context.Background()

	projectID := uuid.New()
	task, err := ts.CreateTask(ctx, &model.CreateTaskDTO{Name: "T", ProjectID: projectID})
	require.NoError(t, err)

	require.NoError(t, ts.DeactivateTask(ctx, task.ID))

	_, err = ts.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	tasks, err := ts.ListTasksByProject(ctx, projectID, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
