package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

// TaskService owns the standalone task collection: CRUD, status/assignment
// updates and the template-metadata enrichment on the read side.
type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// CreateTask creates a single task outside the project expander path.
func (s *TaskService) CreateTask(ctx context.Context, createReq *model.CreateTaskDTO) (*model.Task, error) {
	if createReq == nil {
		return nil, fmt.Errorf("create request cannot be nil: %w", ErrValidation)
	}
	if createReq.Name == "" {
		return nil, fmt.Errorf("task name is required: %w", ErrValidation)
	}
	if createReq.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("project ID is required: %w", ErrValidation)
	}

	priority := createReq.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}
	if !validTaskPriority(priority) {
		return nil, fmt.Errorf("invalid task priority %q: %w", priority, ErrValidation)
	}

	task := &model.Task{
		Name:           createReq.Name,
		Description:    createReq.Description,
		Status:         model.TaskStatusPending,
		Priority:       priority,
		AssignedTo:     createReq.AssignedTo,
		DueDate:        createReq.DueDate,
		ProjectID:      createReq.ProjectID,
		ContractID:     createReq.ContractID,
		ServiceID:      createReq.ServiceID,
		EstimatedHours: createReq.EstimatedHours,
		Deliverables:   createReq.Deliverables,
		Active:         true,
	}

	if result := s.db.WithContext(ctx).Create(task); result.Error != nil {
		return nil, fmt.Errorf("failed to create task: %w", result.Error)
	}
	return task, nil
}

// GetTask retrieves an active task by its ID.
func (s *TaskService) GetTask(ctx context.Context, taskID uuid.UUID) (*model.Task, error) {
	if taskID == uuid.Nil {
		return nil, fmt.Errorf("task ID cannot be nil: %w", ErrValidation)
	}

	var task model.Task
	result := s.db.WithContext(ctx).First(&task, "id = ? AND active = ?", taskID, true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve task: %w", result.Error)
	}
	return &task, nil
}

// ListTasksByProject returns a project's active tasks in storage order.
func (s *TaskService) ListTasksByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]model.Task, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project ID cannot be nil: %w", ErrValidation)
	}

	var tasks []model.Task
	result := s.db.WithContext(ctx).
		Where("project_id = ? AND active = ?", projectID, true).
		Offset(offset).Limit(limit).
		Find(&tasks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", result.Error)
	}
	return tasks, nil
}

// UpdateTask applies a partial update to a task's status, priority, assignment
// and due date. Concurrent updates are last-write-wins; there are no version
// checks.
func (s *TaskService) UpdateTask(ctx context.Context, taskID uuid.UUID, updateReq *model.UpdateTaskDTO) (*model.Task, error) {
	if updateReq == nil {
		return nil, fmt.Errorf("update request cannot be nil: %w", ErrValidation)
	}
	if updateReq.Status != nil && !validTaskStatus(*updateReq.Status) {
		return nil, fmt.Errorf("invalid task status %q: %w", *updateReq.Status, ErrValidation)
	}
	if updateReq.Priority != nil && !validTaskPriority(*updateReq.Priority) {
		return nil, fmt.Errorf("invalid task priority %q: %w", *updateReq.Priority, ErrValidation)
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if updateReq.Status != nil {
		task.Status = *updateReq.Status
	}
	if updateReq.Priority != nil {
		task.Priority = *updateReq.Priority
	}
	if updateReq.AssignedTo != nil {
		task.AssignedTo = updateReq.AssignedTo
	}
	if updateReq.DueDate != nil {
		task.DueDate = updateReq.DueDate
	}

	if result := s.db.WithContext(ctx).Save(task); result.Error != nil {
		return nil, fmt.Errorf("failed to update task: %w", result.Error)
	}
	return task, nil
}

// DeactivateTask soft-deletes a task.
func (s *TaskService) DeactivateTask(ctx context.Context, taskID uuid.UUID) error {
	if taskID == uuid.Nil {
		return fmt.Errorf("task ID cannot be nil: %w", ErrValidation)
	}

	result := s.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", taskID).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return nil
}

// GetTaskDetails returns the enriched read view of a task: template metadata
// recovered through the task -> instance -> template id chain, plus hours
// logged against the task. Any failure along the chain degrades to the bare
// task; enrichment never errors a task read.
func (s *TaskService) GetTaskDetails(ctx context.Context, taskID uuid.UUID) (*model.TaskDetailsDTO, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	details := &model.TaskDetailsDTO{Task: *task}
	details.TemplateInfo = s.resolveTemplateInfo(ctx, task)
	details.LoggedHours = s.sumLoggedHours(ctx, task.ID)
	return details, nil
}

// resolveTemplateInfo walks task -> process instance -> template and matches
// the originating step and task template by their persisted ids. Returns nil
// on any broken link.
func (s *TaskService) resolveTemplateInfo(ctx context.Context, task *model.Task) *model.TemplateInfoDTO {
	if task.ProcessInstanceID == nil || task.StepTemplateID == nil || task.TaskTemplateID == nil {
		return nil
	}

	var instance model.ProcessInstance
	if err := s.db.WithContext(ctx).First(&instance, "id = ?", *task.ProcessInstanceID).Error; err != nil {
		return nil
	}
	if instance.TemplateID == nil {
		// Instance came from an inline work breakdown; nothing to recover.
		return nil
	}

	var template model.ProcessTemplate
	if err := s.db.WithContext(ctx).First(&template, "id = ?", *instance.TemplateID).Error; err != nil {
		return nil
	}

	for _, step := range template.Steps {
		if step.ID != *task.StepTemplateID {
			continue
		}
		for _, tt := range step.Tasks {
			if tt.ID == *task.TaskTemplateID {
				return &model.TemplateInfoDTO{
					TemplateID:   template.ID,
					TemplateName: template.Name,
					StepName:     step.Name,
					TaskName:     tt.Name,
				}
			}
		}
	}
	return nil
}

func (s *TaskService) sumLoggedHours(ctx context.Context, taskID uuid.UUID) float64 {
	var total float64
	s.db.WithContext(ctx).Model(&model.TimeEntry{}).
		Where("task_id = ? AND active = ?", taskID, true).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&total)
	return total
}

func validTaskStatus(status model.TaskStatus) bool {
	switch status {
	case model.TaskStatusPending, model.TaskStatusInProgress, model.TaskStatusCompleted, model.TaskStatusBlocked:
		return true
	}
	return false
}

func validTaskPriority(priority model.TaskPriority) bool {
	switch priority {
	case model.TaskPriorityLow, model.TaskPriorityMedium, model.TaskPriorityHigh:
		return true
	}
	return false
}
