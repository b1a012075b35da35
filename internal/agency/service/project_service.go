package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

// ProjectService orchestrates project creation (the task expander) and the
// project read-side enrichment. Creation writes the project, its process
// instances and its tasks inside one transaction so a partial failure never
// leaves orphaned records.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// expandedPhase / expandedTask are the common shape both work-breakdown
// variants (template reference, inline definition) are normalized to before
// instances and tasks are generated.
type expandedPhase struct {
	name           string
	description    string
	stepTemplateID *uuid.UUID
	tasks          []expandedTask
}

type expandedTask struct {
	name           string
	description    string
	estimatedHours float64
	deliverables   []string
	instructionDoc *model.DocumentLink
	taskTemplateID *uuid.UUID
}

// CreateProject creates a project and expands every selected service's work
// breakdown into one process instance per service plus a flat set of tasks.
// Task metadata (deliverables, instruction doc) is copied from the breakdown
// at creation time; later edits to the template or service do not change
// already-created tasks. Employee assignments are looked up by the synthetic
// keys "phase_{serviceId}_{i}" and "task_{serviceId}_{i}_{j}"; tasks with no
// matching key stay unassigned.
func (s *ProjectService) CreateProject(ctx context.Context, createReq *model.CreateProjectDTO) (*model.CreateProjectResultDTO, error) {
	if createReq == nil {
		return nil, fmt.Errorf("create request cannot be nil: %w", ErrValidation)
	}
	if createReq.Name == "" {
		return nil, fmt.Errorf("project name is required: %w", ErrValidation)
	}
	if createReq.ClientID == uuid.Nil {
		return nil, fmt.Errorf("client ID is required: %w", ErrValidation)
	}

	var result *model.CreateProjectResultDTO

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project := &model.Project{
			Name:       createReq.Name,
			ClientID:   createReq.ClientID,
			ContractID: createReq.ContractID,
			Status:     model.ProjectStatusActive,
			StartDate:  createReq.StartDate,
			EndDate:    createReq.EndDate,
			Active:     true,
		}
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		instances := make([]model.ProcessInstance, 0, len(createReq.Services))
		tasks := make([]model.Task, 0)

		for _, selection := range createReq.Services {
			svc, err := s.getActiveServiceInTx(tx, selection.ServiceID)
			if err != nil {
				return err
			}

			phases, templateID, err := s.expandBreakdownInTx(tx, svc)
			if err != nil {
				return err
			}

			instance, svcTasks := buildInstanceAndTasks(project, svc, templateID, phases, createReq.EmployeeAssignments)
			if err := tx.Create(instance).Error; err != nil {
				return fmt.Errorf("failed to create process instance for service %s: %w", svc.ID, err)
			}
			for i := range svcTasks {
				svcTasks[i].ProcessInstanceID = &instance.ID
			}

			instances = append(instances, *instance)
			tasks = append(tasks, svcTasks...)
		}

		if len(tasks) > 0 {
			if err := tx.Create(&tasks).Error; err != nil {
				return fmt.Errorf("failed to create tasks: %w", err)
			}
		}

		result = &model.CreateProjectResultDTO{
			Project:          *project,
			ProcessInstances: instances,
			Tasks:            tasks,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ProjectService) getActiveServiceInTx(tx *gorm.DB, serviceID uuid.UUID) (*model.Service, error) {
	if serviceID == uuid.Nil {
		return nil, fmt.Errorf("service ID cannot be nil: %w", ErrValidation)
	}

	var svc model.Service
	result := tx.First(&svc, "id = ? AND active = ?", serviceID, true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("service %s: %w", serviceID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve service: %w", result.Error)
	}
	return &svc, nil
}

// expandBreakdownInTx normalizes a service's work breakdown. For a template
// reference the catalog template is fetched inside the same transaction; for
// an inline definition the phases are used as given.
func (s *ProjectService) expandBreakdownInTx(tx *gorm.DB, svc *model.Service) ([]expandedPhase, *uuid.UUID, error) {
	wb := svc.WorkBreakdown
	if wb.IsTemplateRef() {
		var template model.ProcessTemplate
		result := tx.First(&template, "id = ? AND active = ?", *wb.TemplateID, true)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("process template %s for service %s: %w", *wb.TemplateID, svc.ID, ErrNotFound)
			}
			return nil, nil, fmt.Errorf("failed to retrieve process template: %w", result.Error)
		}
		templateID := template.ID
		return expandTemplateSteps(template.Steps), &templateID, nil
	}
	return expandInlinePhases(wb.Phases), nil, nil
}

func expandTemplateSteps(steps []model.StepTemplate) []expandedPhase {
	phases := make([]expandedPhase, 0, len(steps))
	for _, step := range steps {
		stepID := step.ID
		phase := expandedPhase{
			name:           step.Name,
			description:    step.Description,
			stepTemplateID: &stepID,
		}
		for _, tt := range step.Tasks {
			taskID := tt.ID
			phase.tasks = append(phase.tasks, expandedTask{
				name:           tt.Name,
				description:    tt.Description,
				estimatedHours: tt.EstimatedHours,
				deliverables:   copyStrings(tt.Deliverables),
				instructionDoc: copyDocumentLink(tt.InstructionDoc),
				taskTemplateID: &taskID,
			})
		}
		phases = append(phases, phase)
	}
	return phases
}

func expandInlinePhases(inline []model.InlinePhase) []expandedPhase {
	phases := make([]expandedPhase, 0, len(inline))
	for _, ip := range inline {
		phase := expandedPhase{name: ip.Name}
		for _, it := range ip.Tasks {
			phase.tasks = append(phase.tasks, expandedTask{
				name:           it.Name,
				description:    it.Description,
				estimatedHours: it.EstimatedHours,
				deliverables:   copyStrings(it.Deliverables),
				instructionDoc: copyDocumentLink(it.InstructionDoc),
			})
		}
		phases = append(phases, phase)
	}
	return phases
}

// buildInstanceAndTasks generates one process instance for a service and the
// task records for every phase task. Phase and task identifiers are fresh
// uuids; the assignment map is consulted per phase and per task.
func buildInstanceAndTasks(
	project *model.Project,
	svc *model.Service,
	templateID *uuid.UUID,
	phases []expandedPhase,
	assignments map[string]uuid.UUID,
) (*model.ProcessInstance, []model.Task) {
	serviceID := svc.ID
	instance := &model.ProcessInstance{
		ProjectID:  project.ID,
		TemplateID: templateID,
		ServiceID:  &serviceID,
		Name:       fmt.Sprintf("%s - %s", project.Name, svc.Name),
		Status:     model.InstanceStatusActive,
		StartDate:  project.StartDate,
		EndDate:    project.EndDate,
		Active:     true,
		Phases:     make([]model.Phase, 0, len(phases)),
	}

	var tasks []model.Task
	for i, phase := range phases {
		phaseID := uuid.New()
		instancePhase := model.Phase{
			ID:             phaseID,
			StepTemplateID: phase.stepTemplateID,
			Name:           phase.name,
			Description:    phase.description,
			Status:         model.PhaseStatusPending,
			TotalTasks:     len(phase.tasks),
		}
		if assignee, ok := assignments[phaseAssignmentKey(svc.ID, i)]; ok {
			a := assignee
			instancePhase.AssignedTo = &a
		}

		for j, task := range phase.tasks {
			instancePhase.EstimatedHours += task.estimatedHours

			record := model.Task{
				Name:           task.name,
				Description:    task.description,
				Status:         model.TaskStatusPending,
				Priority:       model.TaskPriorityMedium,
				ProjectID:      project.ID,
				ContractID:     project.ContractID,
				ServiceID:      &serviceID,
				PhaseID:        &phaseID,
				StepTemplateID: phase.stepTemplateID,
				TaskTemplateID: task.taskTemplateID,
				EstimatedHours: task.estimatedHours,
				Deliverables:   task.deliverables,
				InstructionDoc: task.instructionDoc,
				Active:         true,
			}
			if assignee, ok := assignments[taskAssignmentKey(svc.ID, i, j)]; ok {
				a := assignee
				record.AssignedTo = &a
			}
			tasks = append(tasks, record)
		}

		instance.Phases = append(instance.Phases, instancePhase)
	}

	return instance, tasks
}

func phaseAssignmentKey(serviceID uuid.UUID, phaseIndex int) string {
	return fmt.Sprintf("phase_%s_%d", serviceID, phaseIndex)
}

func taskAssignmentKey(serviceID uuid.UUID, phaseIndex, taskIndex int) string {
	return fmt.Sprintf("task_%s_%d_%d", serviceID, phaseIndex, taskIndex)
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyDocumentLink(in *model.DocumentLink) *model.DocumentLink {
	if in == nil {
		return nil
	}
	doc := *in
	return &doc
}

// GetProject retrieves an active project by its ID.
func (s *ProjectService) GetProject(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project ID cannot be nil: %w", ErrValidation)
	}

	var project model.Project
	result := s.db.WithContext(ctx).First(&project, "id = ? AND active = ?", projectID, true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve project: %w", result.Error)
	}
	return &project, nil
}

// ListProjects returns active projects, optionally filtered to one client.
func (s *ProjectService) ListProjects(ctx context.Context, clientID *uuid.UUID, offset, limit int) ([]model.Project, error) {
	query := s.db.WithContext(ctx).Where("active = ?", true)
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	var projects []model.Project
	result := query.Offset(offset).Limit(limit).Find(&projects)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list projects: %w", result.Error)
	}
	return projects, nil
}

// DeactivateProject soft-deletes a project. Its instances and tasks are left
// in place; they are filtered out of reads by their own active flags.
func (s *ProjectService) DeactivateProject(ctx context.Context, projectID uuid.UUID) error {
	if projectID == uuid.Nil {
		return fmt.Errorf("project ID cannot be nil: %w", ErrValidation)
	}

	result := s.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", projectID).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	return nil
}

// GetProjectDetails assembles the enriched read view of a project: every phase
// and task assignee id is resolved against a single batch employee fetch.
// Unresolved assignee ids are preserved as bare ids with empty name/role
// rather than dropped.
func (s *ProjectService) GetProjectDetails(ctx context.Context, projectID uuid.UUID) (*model.ProjectDetailsDTO, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var instances []model.ProcessInstance
	if result := s.db.WithContext(ctx).Where("project_id = ? AND active = ?", projectID, true).Find(&instances); result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve process instances: %w", result.Error)
	}

	var tasks []model.Task
	if result := s.db.WithContext(ctx).Where("project_id = ? AND active = ?", projectID, true).Find(&tasks); result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", result.Error)
	}

	employees, err := s.fetchAssignees(ctx, instances, tasks)
	if err != nil {
		return nil, err
	}

	tasksByPhase := make(map[uuid.UUID][]model.Task)
	for _, task := range tasks {
		if task.PhaseID != nil {
			tasksByPhase[*task.PhaseID] = append(tasksByPhase[*task.PhaseID], task)
		}
	}

	details := &model.ProjectDetailsDTO{
		Project:          *project,
		ProcessInstances: make([]model.EnrichedInstanceDTO, 0, len(instances)),
	}
	for _, instance := range instances {
		details.ProcessInstances = append(details.ProcessInstances, enrichInstance(instance, tasksByPhase, employees))
	}
	return details, nil
}

// fetchAssignees collects the distinct assignee ids across phases and tasks
// and loads them in one query. Soft-deleted employees still hydrate; an id
// that resolves to nothing just stays a bare id in the response.
func (s *ProjectService) fetchAssignees(ctx context.Context, instances []model.ProcessInstance, tasks []model.Task) (map[uuid.UUID]model.Employee, error) {
	idSet := make(map[uuid.UUID]bool)
	for _, instance := range instances {
		for _, phase := range instance.Phases {
			if phase.AssignedTo != nil {
				idSet[*phase.AssignedTo] = true
			}
		}
	}
	for _, task := range tasks {
		if task.AssignedTo != nil {
			idSet[*task.AssignedTo] = true
		}
	}

	lookup := make(map[uuid.UUID]model.Employee, len(idSet))
	if len(idSet) == 0 {
		return lookup, nil
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var employees []model.Employee
	if result := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&employees); result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve employees: %w", result.Error)
	}
	for _, employee := range employees {
		lookup[employee.ID] = employee
	}
	return lookup, nil
}

func enrichInstance(instance model.ProcessInstance, tasksByPhase map[uuid.UUID][]model.Task, employees map[uuid.UUID]model.Employee) model.EnrichedInstanceDTO {
	enriched := model.EnrichedInstanceDTO{
		ID:         instance.ID,
		Name:       instance.Name,
		Status:     instance.Status,
		TemplateID: instance.TemplateID,
		ServiceID:  instance.ServiceID,
		StartDate:  instance.StartDate,
		EndDate:    instance.EndDate,
		Phases:     make([]model.EnrichedPhaseDTO, 0, len(instance.Phases)),
	}

	completedPhases := 0
	for _, phase := range instance.Phases {
		phaseTasks := tasksByPhase[phase.ID]

		enrichedPhase := model.EnrichedPhaseDTO{
			ID:             phase.ID,
			Name:           phase.Name,
			Description:    phase.Description,
			Status:         phase.Status,
			AssignedTo:     resolveAssignee(phase.AssignedTo, employees),
			StartDate:      phase.StartDate,
			EndDate:        phase.EndDate,
			CompletedTasks: phase.CompletedTasks,
			TotalTasks:     phase.TotalTasks,
			EstimatedHours: phase.EstimatedHours,
			Deliverables:   phase.Deliverables,
			Tasks:          make([]model.EnrichedTaskDTO, 0, len(phaseTasks)),
		}

		// Counters are recomputed from live task statuses when the phase has
		// task records; the stored values are creation-time defaults.
		if len(phaseTasks) > 0 {
			completed := 0
			for _, task := range phaseTasks {
				if task.Status == model.TaskStatusCompleted {
					completed++
				}
			}
			enrichedPhase.CompletedTasks = completed
			enrichedPhase.TotalTasks = len(phaseTasks)
		}

		for _, task := range phaseTasks {
			enrichedPhase.Tasks = append(enrichedPhase.Tasks, model.EnrichedTaskDTO{
				ID:         task.ID,
				Name:       task.Name,
				Status:     task.Status,
				Priority:   task.Priority,
				AssignedTo: resolveAssignee(task.AssignedTo, employees),
				DueDate:    task.DueDate,
			})
		}

		if phase.Status == model.PhaseStatusCompleted {
			completedPhases++
		}
		enriched.Phases = append(enriched.Phases, enrichedPhase)
	}

	enriched.Progress = Progress(completedPhases, len(instance.Phases))
	return enriched
}

func resolveAssignee(id *uuid.UUID, employees map[uuid.UUID]model.Employee) *model.AssigneeDTO {
	if id == nil {
		return nil
	}
	assignee := &model.AssigneeDTO{ID: *id}
	if employee, ok := employees[*id]; ok {
		assignee.Name = employee.Name
		assignee.Role = employee.Role
	}
	return assignee
}
