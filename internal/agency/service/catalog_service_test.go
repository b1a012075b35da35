package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

func TestCatalogService_CreateTemplate(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	created, err := catalog.CreateTemplate(ctx, &model.CreateProcessTemplateDTO{
		Name:     "Website Build",
		Category: "web",
		Steps: []model.StepTemplate{
			{
				Name: "Setup",
				Tasks: []model.TaskTemplate{
					{Name: "Provision hosting", EstimatedHours: 2},
					{
						Name:           "Install CMS",
						EstimatedHours: 3,
						SubTasks: []model.TaskTemplate{
							{Name: "Configure plugins", EstimatedHours: 1},
						},
					},
				},
			},
			{Name: "Launch", Tasks: []model.TaskTemplate{{Name: "Go live", EstimatedHours: 1}}},
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.Active)
	assert.Equal(t, "1.0", created.Version, "version defaults when omitted")

	require.Len(t, created.Steps, 2)
	for i, step := range created.Steps {
		assert.NotEqual(t, uuid.Nil, step.ID, "step ids are assigned")
		assert.Equal(t, i, step.Order, "step order follows array position")
		for _, task := range step.Tasks {
			assert.NotEqual(t, uuid.Nil, task.ID, "task ids are assigned")
		}
	}
	assert.NotEqual(t, uuid.Nil, created.Steps[0].Tasks[1].SubTasks[0].ID, "sub-task ids are assigned")
}

func TestCatalogService_CreateTemplate_Validation(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *model.CreateProcessTemplateDTO
	}{
		{"nil request", nil},
		{"missing template name", &model.CreateProcessTemplateDTO{}},
		{
			"missing step name",
			&model.CreateProcessTemplateDTO{
				Name:  "T",
				Steps: []model.StepTemplate{{Name: ""}},
			},
		},
		{
			"missing task name",
			&model.CreateProcessTemplateDTO{
				Name: "T",
				Steps: []model.StepTemplate{
					{Name: "S", Tasks: []model.TaskTemplate{{EstimatedHours: 1}}},
				},
			},
		},
		{
			"non-positive task estimate",
			&model.CreateProcessTemplateDTO{
				Name: "T",
				Steps: []model.StepTemplate{
					{Name: "S", Tasks: []model.TaskTemplate{{Name: "task", EstimatedHours: 0}}},
				},
			},
		},
		{
			"non-positive sub-task estimate",
			&model.CreateProcessTemplateDTO{
				Name: "T",
				Steps: []model.StepTemplate{
					{Name: "S", Tasks: []model.TaskTemplate{{
						Name:           "task",
						EstimatedHours: 1,
						SubTasks:       []model.TaskTemplate{{Name: "sub", EstimatedHours: -2}},
					}}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.CreateTemplate(ctx, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCatalogService_ReplaceTemplate(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	template := seedTemplate(t, db)

	replaced, err := catalog.ReplaceTemplate(ctx, template.ID, &model.CreateProcessTemplateDTO{
		Name:    "Brand Identity Process v2",
		Version: "2.0",
		Steps: []model.StepTemplate{
			{Name: "Discovery", Tasks: []model.TaskTemplate{{Name: "Kickoff call", EstimatedHours: 1}}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, template.ID, replaced.ID)
	assert.Equal(t, "Brand Identity Process v2", replaced.Name)
	assert.Equal(t, "2.0", replaced.Version)
	require.Len(t, replaced.Steps, 1, "replace is whole-document, old steps are gone")

	fetched, err := catalog.GetTemplate(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brand Identity Process v2", fetched.Name)
}

func TestCatalogService_ReplaceTemplate_NotFound(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	_, err := catalog.ReplaceTemplate(context.Background(), uuid.New(), &model.CreateProcessTemplateDTO{Name: "T"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_DeactivateTemplate(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	template := seedTemplate(t, db)

	require.NoError(t, catalog.DeactivateTemplate(ctx, template.ID))

	// Inactive templates fall out of the active listing but stay retrievable.
	active, err := catalog.ListTemplates(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := catalog.ListTemplates(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	fetched, err := catalog.GetTemplate(ctx, template.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Active)

	_, err = catalog.GetActiveTemplate(ctx, template.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_DeactivateTemplate_NotFound(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)

	err := catalog.DeactivateTemplate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
