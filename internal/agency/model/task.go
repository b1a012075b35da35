package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the status of a standalone task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// TaskPriority represents the priority of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task is the unit of work assignment. Deliverables and InstructionDoc are
// copied from the originating template task at creation time, not referenced,
// so later template edits never change an already-created task.
// StepTemplateID and TaskTemplateID are persisted at creation so template
// metadata can be recovered by id join rather than name matching.
type Task struct {
	BaseModel
	Name              string        `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Description       string        `gorm:"type:text;column:description" json:"description,omitempty"`
	Status            TaskStatus    `gorm:"type:varchar(20);column:status;not null" json:"status"`
	Priority          TaskPriority  `gorm:"type:varchar(10);column:priority;not null;default:'medium'" json:"priority"`
	AssignedTo        *uuid.UUID    `gorm:"type:uuid;column:assigned_to" json:"assignedTo,omitempty"` // Employee id; unassigned tasks are permitted
	DueDate           *time.Time    `gorm:"type:timestamptz;column:due_date" json:"dueDate,omitempty"`
	ProjectID         uuid.UUID     `gorm:"type:uuid;column:project_id;not null" json:"projectId"`
	ContractID        *uuid.UUID    `gorm:"type:uuid;column:contract_id" json:"contractId,omitempty"`
	ServiceID         *uuid.UUID    `gorm:"type:uuid;column:service_id" json:"serviceId,omitempty"`
	ProcessInstanceID *uuid.UUID    `gorm:"type:uuid;column:process_instance_id" json:"processInstanceId,omitempty"`
	PhaseID           *uuid.UUID    `gorm:"type:uuid;column:phase_id" json:"phaseId,omitempty"`
	StepTemplateID    *uuid.UUID    `gorm:"type:uuid;column:step_template_id" json:"stepTemplateId,omitempty"`
	TaskTemplateID    *uuid.UUID    `gorm:"type:uuid;column:task_template_id" json:"taskTemplateId,omitempty"`
	EstimatedHours    float64       `gorm:"type:numeric;column:estimated_hours" json:"estimatedHours"`
	Deliverables      []string      `gorm:"type:jsonb;column:deliverables;serializer:json" json:"deliverables,omitempty"`
	InstructionDoc    *DocumentLink `gorm:"type:jsonb;column:instruction_doc;serializer:json" json:"instructionDoc,omitempty"`
	Active            bool          `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
}

func (t *Task) TableName() string {
	return "tasks"
}

// CreateTaskDTO is the data transfer object for creating a single task.
type CreateTaskDTO struct {
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Priority       TaskPriority `json:"priority"`
	AssignedTo     *uuid.UUID   `json:"assignedTo"`
	DueDate        *time.Time   `json:"dueDate"`
	ProjectID      uuid.UUID    `json:"projectId"`
	ContractID     *uuid.UUID   `json:"contractId"`
	ServiceID      *uuid.UUID   `json:"serviceId"`
	EstimatedHours float64      `json:"estimatedHours"`
	Deliverables   []string     `json:"deliverables"`
}

// UpdateTaskDTO carries the mutable fields of a task. Nil fields are left unchanged.
type UpdateTaskDTO struct {
	Status     *TaskStatus   `json:"status,omitempty"`
	Priority   *TaskPriority `json:"priority,omitempty"`
	AssignedTo *uuid.UUID    `json:"assignedTo,omitempty"`
	DueDate    *time.Time    `json:"dueDate,omitempty"`
}

// TemplateInfoDTO is the template-derived metadata attached to an enriched task.
type TemplateInfoDTO struct {
	TemplateID   uuid.UUID `json:"templateId"`
	TemplateName string    `json:"templateName"`
	StepName     string    `json:"stepName"`
	TaskName     string    `json:"taskName"`
}

// TaskDetailsDTO is the enriched read view of a task. TemplateInfo is nil when
// any link in the task -> instance -> template chain fails to resolve.
type TaskDetailsDTO struct {
	Task         Task             `json:"task"`
	TemplateInfo *TemplateInfoDTO `json:"templateInfo,omitempty"`
	LoggedHours  float64          `json:"loggedHours"`
}
