package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

const defaultTemplateVersion = "1.0"

// CatalogService manages the reusable process template catalog. Templates are
// whole-document replaced on edit; instances materialized from them are
// decoupled snapshots and are never touched here.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListTemplates returns templates in storage order. When activeOnly is set,
// soft-deleted templates are excluded.
func (s *CatalogService) ListTemplates(ctx context.Context, activeOnly bool) ([]model.ProcessTemplate, error) {
	var templates []model.ProcessTemplate
	query := s.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if result := query.Find(&templates); result.Error != nil {
		return nil, fmt.Errorf("failed to list process templates: %w", result.Error)
	}
	return templates, nil
}

// GetTemplate retrieves a template by its ID regardless of active flag;
// instances created from a deactivated template still need to resolve it.
func (s *CatalogService) GetTemplate(ctx context.Context, templateID uuid.UUID) (*model.ProcessTemplate, error) {
	if templateID == uuid.Nil {
		return nil, fmt.Errorf("template ID cannot be nil: %w", ErrValidation)
	}

	var template model.ProcessTemplate
	result := s.db.WithContext(ctx).First(&template, "id = ?", templateID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("process template %s: %w", templateID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve process template: %w", result.Error)
	}
	return &template, nil
}

// GetActiveTemplate retrieves a template that has not been soft-deleted.
func (s *CatalogService) GetActiveTemplate(ctx context.Context, templateID uuid.UUID) (*model.ProcessTemplate, error) {
	template, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !template.Active {
		return nil, fmt.Errorf("process template %s is inactive: %w", templateID, ErrNotFound)
	}
	return template, nil
}

// CreateTemplate validates and persists a new process template. Step and task
// identifiers are assigned where absent; the template starts active.
func (s *CatalogService) CreateTemplate(ctx context.Context, createReq *model.CreateProcessTemplateDTO) (*model.ProcessTemplate, error) {
	if createReq == nil {
		return nil, fmt.Errorf("create request cannot be nil: %w", ErrValidation)
	}
	if createReq.Name == "" {
		return nil, fmt.Errorf("template name is required: %w", ErrValidation)
	}
	if err := validateSteps(createReq.Steps); err != nil {
		return nil, err
	}

	version := createReq.Version
	if version == "" {
		version = defaultTemplateVersion
	}

	template := &model.ProcessTemplate{
		Name:     createReq.Name,
		Category: createReq.Category,
		Version:  version,
		Active:   true,
		Steps:    assignStepIDs(createReq.Steps),
	}

	if result := s.db.WithContext(ctx).Create(template); result.Error != nil {
		return nil, fmt.Errorf("failed to create process template: %w", result.Error)
	}
	return template, nil
}

// ReplaceTemplate performs a whole-document replace of an existing template.
// There is no versioning beyond the free-form Version field.
func (s *CatalogService) ReplaceTemplate(ctx context.Context, templateID uuid.UUID, replaceReq *model.CreateProcessTemplateDTO) (*model.ProcessTemplate, error) {
	if replaceReq == nil {
		return nil, fmt.Errorf("replace request cannot be nil: %w", ErrValidation)
	}
	if replaceReq.Name == "" {
		return nil, fmt.Errorf("template name is required: %w", ErrValidation)
	}
	if err := validateSteps(replaceReq.Steps); err != nil {
		return nil, err
	}

	template, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	template.Name = replaceReq.Name
	template.Category = replaceReq.Category
	if replaceReq.Version != "" {
		template.Version = replaceReq.Version
	}
	template.Steps = assignStepIDs(replaceReq.Steps)

	if result := s.db.WithContext(ctx).Save(template); result.Error != nil {
		return nil, fmt.Errorf("failed to replace process template: %w", result.Error)
	}
	return template, nil
}

// DeactivateTemplate soft-deletes a template. Instances already materialized
// from it remain valid.
func (s *CatalogService) DeactivateTemplate(ctx context.Context, templateID uuid.UUID) error {
	if templateID == uuid.Nil {
		return fmt.Errorf("template ID cannot be nil: %w", ErrValidation)
	}

	result := s.db.WithContext(ctx).Model(&model.ProcessTemplate{}).
		Where("id = ?", templateID).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate process template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("process template %s: %w", templateID, ErrNotFound)
	}
	return nil
}

// validateSteps enforces the catalog invariants: every step carries a name and
// every task (and sub-task) carries a name and a positive estimate.
func validateSteps(steps []model.StepTemplate) error {
	for i, step := range steps {
		if step.Name == "" {
			return fmt.Errorf("step %d is missing a name: %w", i, ErrValidation)
		}
		if err := validateTaskTemplates(step.Tasks, step.Name); err != nil {
			return err
		}
	}
	return nil
}

func validateTaskTemplates(tasks []model.TaskTemplate, stepName string) error {
	for j, task := range tasks {
		if task.Name == "" {
			return fmt.Errorf("task %d in step %q is missing a name: %w", j, stepName, ErrValidation)
		}
		if task.EstimatedHours <= 0 {
			return fmt.Errorf("task %q in step %q needs a positive estimate: %w", task.Name, stepName, ErrValidation)
		}
		if err := validateTaskTemplates(task.SubTasks, stepName); err != nil {
			return err
		}
	}
	return nil
}

// assignStepIDs fills in missing step/task identifiers and normalizes step
// order to array position. Existing identifiers are preserved.
func assignStepIDs(steps []model.StepTemplate) []model.StepTemplate {
	for i := range steps {
		if steps[i].ID == uuid.Nil {
			steps[i].ID = uuid.New()
		}
		steps[i].Order = i
		steps[i].Tasks = assignTaskIDs(steps[i].Tasks)
	}
	return steps
}

func assignTaskIDs(tasks []model.TaskTemplate) []model.TaskTemplate {
	for i := range tasks {
		if tasks[i].ID == uuid.Nil {
			tasks[i].ID = uuid.New()
		}
		tasks[i].SubTasks = assignTaskIDs(tasks[i].SubTasks)
	}
	return tasks
}
