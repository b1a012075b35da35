package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

// ProcessService owns process instances: materialization from templates,
// phase reads, and phase status updates. Materialization is a pure copy of the
// template's step structure; the template is never mutated.
type ProcessService struct {
	db      *gorm.DB
	catalog *CatalogService
}

func NewProcessService(db *gorm.DB, catalog *CatalogService) *ProcessService {
	return &ProcessService{db: db, catalog: catalog}
}

// Materialize expands a template into a concrete process instance bound to a
// project. Phases preserve template step order; each phase gets a fresh
// identifier, a pending status and zeroed progress counters. A template with
// zero steps yields an instance with an empty phase sequence, not an error.
func (s *ProcessService) Materialize(ctx context.Context, createReq *model.CreateProcessInstanceDTO) (*model.ProcessInstance, error) {
	if createReq == nil {
		return nil, fmt.Errorf("create request cannot be nil: %w", ErrValidation)
	}
	if createReq.Name == "" {
		return nil, fmt.Errorf("instance name is required: %w", ErrValidation)
	}
	if createReq.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("project ID is required: %w", ErrValidation)
	}
	if createReq.TemplateID == uuid.Nil {
		return nil, fmt.Errorf("template ID is required: %w", ErrValidation)
	}

	template, err := s.catalog.GetActiveTemplate(ctx, createReq.TemplateID)
	if err != nil {
		return nil, err
	}

	status := model.InstanceStatus(createReq.Status)
	if status == "" {
		status = model.InstanceStatusActive
	}

	templateID := template.ID
	instance := &model.ProcessInstance{
		ProjectID:  createReq.ProjectID,
		TemplateID: &templateID,
		Name:       createReq.Name,
		Status:     status,
		StartDate:  createReq.StartDate,
		EndDate:    createReq.EndDate,
		Active:     true,
		Phases:     PhasesFromSteps(template.Steps),
	}

	if result := s.db.WithContext(ctx).Create(instance); result.Error != nil {
		return nil, fmt.Errorf("failed to create process instance: %w", result.Error)
	}
	return instance, nil
}

// PhasesFromSteps builds the phase sequence for a new instance from template
// steps. Step order is preserved; array order is what UIs render.
func PhasesFromSteps(steps []model.StepTemplate) []model.Phase {
	phases := make([]model.Phase, 0, len(steps))
	for _, step := range steps {
		stepID := step.ID
		phases = append(phases, model.Phase{
			ID:             uuid.New(),
			StepTemplateID: &stepID,
			Name:           step.Name,
			Description:    step.Description,
			Status:         model.PhaseStatusPending,
			CompletedTasks: 0,
			TotalTasks:     0,
			EstimatedHours: stepEstimatedHours(step),
			RequiredTools:  stepRequiredTools(step),
			Deliverables:   stepDeliverables(step),
		})
	}
	return phases
}

func stepEstimatedHours(step model.StepTemplate) float64 {
	var total float64
	for _, task := range step.Tasks {
		total += task.EstimatedHours
	}
	return total
}

func stepDeliverables(step model.StepTemplate) []string {
	var deliverables []string
	for _, task := range step.Tasks {
		deliverables = append(deliverables, task.Deliverables...)
	}
	return deliverables
}

func stepRequiredTools(step model.StepTemplate) []string {
	seen := make(map[string]bool)
	var tools []string
	for _, task := range step.Tasks {
		for _, tool := range task.RequiredTools {
			if !seen[tool] {
				seen[tool] = true
				tools = append(tools, tool)
			}
		}
	}
	return tools
}

// GetInstance retrieves an active process instance by its ID.
func (s *ProcessService) GetInstance(ctx context.Context, instanceID uuid.UUID) (*model.ProcessInstance, error) {
	if instanceID == uuid.Nil {
		return nil, fmt.Errorf("instance ID cannot be nil: %w", ErrValidation)
	}

	var instance model.ProcessInstance
	result := s.db.WithContext(ctx).First(&instance, "id = ? AND active = ?", instanceID, true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("process instance %s: %w", instanceID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve process instance: %w", result.Error)
	}
	return &instance, nil
}

// GetInstancesByProjectID retrieves all active instances owned by a project.
func (s *ProcessService) GetInstancesByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.ProcessInstance, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project ID cannot be nil: %w", ErrValidation)
	}

	var instances []model.ProcessInstance
	result := s.db.WithContext(ctx).Where("project_id = ? AND active = ?", projectID, true).Find(&instances)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve process instances: %w", result.Error)
	}
	return instances, nil
}

// GetPhases returns the phase sequence of an instance in stored order.
func (s *ProcessService) GetPhases(ctx context.Context, instanceID uuid.UUID) ([]model.Phase, error) {
	instance, err := s.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	return instance.Phases, nil
}

// UpdatePhase mutates a single phase's status, assignment and dates. Writes
// are last-write-wins; concurrent updates resolve at the storage layer.
func (s *ProcessService) UpdatePhase(ctx context.Context, instanceID, phaseID uuid.UUID, updateReq *model.UpdatePhaseStatusDTO) (*model.Phase, error) {
	if updateReq == nil {
		return nil, fmt.Errorf("update request cannot be nil: %w", ErrValidation)
	}
	if updateReq.Status != "" && !validPhaseStatus(updateReq.Status) {
		return nil, fmt.Errorf("invalid phase status %q: %w", updateReq.Status, ErrValidation)
	}

	instance, err := s.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	var updated *model.Phase
	for i := range instance.Phases {
		if instance.Phases[i].ID != phaseID {
			continue
		}
		if updateReq.Status != "" {
			instance.Phases[i].Status = updateReq.Status
		}
		if updateReq.AssignedTo != nil {
			instance.Phases[i].AssignedTo = updateReq.AssignedTo
		}
		if updateReq.StartDate != nil {
			instance.Phases[i].StartDate = updateReq.StartDate
		}
		if updateReq.EndDate != nil {
			instance.Phases[i].EndDate = updateReq.EndDate
		}
		updated = &instance.Phases[i]
		break
	}
	if updated == nil {
		return nil, fmt.Errorf("phase %s in instance %s: %w", phaseID, instanceID, ErrNotFound)
	}

	if result := s.db.WithContext(ctx).Save(instance); result.Error != nil {
		return nil, fmt.Errorf("failed to update phase: %w", result.Error)
	}
	return updated, nil
}

// DeactivateInstance soft-deletes a process instance.
func (s *ProcessService) DeactivateInstance(ctx context.Context, instanceID uuid.UUID) error {
	if instanceID == uuid.Nil {
		return fmt.Errorf("instance ID cannot be nil: %w", ErrValidation)
	}

	result := s.db.WithContext(ctx).Model(&model.ProcessInstance{}).
		Where("id = ?", instanceID).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate process instance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("process instance %s: %w", instanceID, ErrNotFound)
	}
	return nil
}

// InstanceProgress derives aggregate progress from phase statuses. The
// percentage is recomputed on every read and never persisted.
func (s *ProcessService) InstanceProgress(ctx context.Context, instanceID uuid.UUID) (*model.InstanceProgressDTO, error) {
	instance, err := s.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, phase := range instance.Phases {
		if phase.Status == model.PhaseStatusCompleted {
			completed++
		}
	}

	return &model.InstanceProgressDTO{
		InstanceID:      instance.ID,
		TotalPhases:     len(instance.Phases),
		CompletedPhases: completed,
		Percent:         Progress(completed, len(instance.Phases)),
	}, nil
}

func validPhaseStatus(status model.PhaseStatus) bool {
	switch status {
	case model.PhaseStatusPending, model.PhaseStatusInProgress, model.PhaseStatusCompleted:
		return true
	}
	return false
}
