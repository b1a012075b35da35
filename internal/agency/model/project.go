package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle status of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Project is the execution container for a client engagement. Its process
// instances and tasks live in their own collections and reference it by id.
type Project struct {
	BaseModel
	Name       string        `gorm:"type:varchar(255);column:name;not null" json:"name"`
	ClientID   uuid.UUID     `gorm:"type:uuid;column:client_id;not null" json:"clientId"`
	ContractID *uuid.UUID    `gorm:"type:uuid;column:contract_id" json:"contractId,omitempty"`
	Status     ProjectStatus `gorm:"type:varchar(20);column:status;not null;default:'active'" json:"status"`
	StartDate  *time.Time    `gorm:"type:timestamptz;column:start_date" json:"startDate,omitempty"`
	EndDate    *time.Time    `gorm:"type:timestamptz;column:end_date" json:"endDate,omitempty"`
	Active     bool          `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
}

func (p *Project) TableName() string {
	return "projects"
}

// ProjectServiceSelectionDTO picks one service for a new project. The service's
// work breakdown (template reference or inline phases) determines what gets
// expanded into instances and tasks.
type ProjectServiceSelectionDTO struct {
	ServiceID uuid.UUID `json:"serviceId"`
}

// CreateProjectDTO is the data transfer object for creating a project from a
// contract's selected services. EmployeeAssignments is keyed by
// "phase_{serviceId}_{phaseIndex}" and "task_{serviceId}_{phaseIndex}_{taskIndex}".
type CreateProjectDTO struct {
	Name                string                       `json:"name"`
	ClientID            uuid.UUID                    `json:"clientId"`
	ContractID          *uuid.UUID                   `json:"contractId,omitempty"`
	Services            []ProjectServiceSelectionDTO `json:"services"`
	StartDate           *time.Time                   `json:"startDate,omitempty"`
	EndDate             *time.Time                   `json:"endDate,omitempty"`
	EmployeeAssignments map[string]uuid.UUID         `json:"employeeAssignments,omitempty"`
}

// CreateProjectResultDTO is the response for project creation: the project and
// everything the task expander produced for it, all committed together.
type CreateProjectResultDTO struct {
	Project          Project           `json:"project"`
	ProcessInstances []ProcessInstance `json:"processInstances"`
	Tasks            []Task            `json:"tasks"`
}

// ProjectDetailsDTO is the enriched read view of a project: every phase and
// task assignee id resolved against a single batch employee fetch.
type ProjectDetailsDTO struct {
	Project          Project               `json:"project"`
	ProcessInstances []EnrichedInstanceDTO `json:"processInstances"`
}

// EnrichedInstanceDTO is a process instance with hydrated assignees and
// computed progress.
type EnrichedInstanceDTO struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Status    InstanceStatus     `json:"status"`
	TemplateID *uuid.UUID        `json:"templateId,omitempty"`
	ServiceID *uuid.UUID         `json:"serviceId,omitempty"`
	StartDate *time.Time         `json:"startDate,omitempty"`
	EndDate   *time.Time         `json:"endDate,omitempty"`
	Progress  int                `json:"progress"`
	Phases    []EnrichedPhaseDTO `json:"phases"`
}

// EnrichedPhaseDTO is a phase with its assignee hydrated and its tasks attached.
type EnrichedPhaseDTO struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	Status         PhaseStatus        `json:"status"`
	AssignedTo     *AssigneeDTO       `json:"assignedTo,omitempty"`
	StartDate      *time.Time         `json:"startDate,omitempty"`
	EndDate        *time.Time         `json:"endDate,omitempty"`
	CompletedTasks int                `json:"completedTasks"`
	TotalTasks     int                `json:"totalTasks"`
	EstimatedHours float64            `json:"estimatedHours"`
	Deliverables   []string           `json:"deliverables,omitempty"`
	Tasks          []EnrichedTaskDTO  `json:"tasks"`
}

// EnrichedTaskDTO is the task summary embedded in an enriched phase.
type EnrichedTaskDTO struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	Status     TaskStatus   `json:"status"`
	Priority   TaskPriority `json:"priority"`
	AssignedTo *AssigneeDTO `json:"assignedTo,omitempty"`
	DueDate    *time.Time   `json:"dueDate,omitempty"`
}
