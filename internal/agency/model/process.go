package model

import (
	"time"

	"github.com/google/uuid"
)

// PhaseStatus represents the status of a phase within a process instance.
type PhaseStatus string

const (
	PhaseStatusPending    PhaseStatus = "pending"
	PhaseStatusInProgress PhaseStatus = "in-progress"
	PhaseStatusCompleted  PhaseStatus = "completed"
)

// InstanceStatus represents the status of a process instance as a whole.
type InstanceStatus string

const (
	InstanceStatusActive    InstanceStatus = "active"
	InstanceStatusOnHold    InstanceStatus = "on-hold"
	InstanceStatusCompleted InstanceStatus = "completed"
)

// ProcessInstance is a concrete, project-bound, independently mutable copy of a
// template's structure. Phases are a snapshot taken at materialization time;
// TemplateID is a non-owning back-reference kept for read-time enrichment.
type ProcessInstance struct {
	BaseModel
	ProjectID  uuid.UUID      `gorm:"type:uuid;column:project_id;not null" json:"projectId"`
	TemplateID *uuid.UUID     `gorm:"type:uuid;column:template_id" json:"templateId,omitempty"` // Nil for instances expanded from an inline work breakdown
	ServiceID  *uuid.UUID     `gorm:"type:uuid;column:service_id" json:"serviceId,omitempty"`   // Set when the instance was created from a contract service
	Name       string         `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Status     InstanceStatus `gorm:"type:varchar(20);column:status;not null" json:"status"`
	StartDate  *time.Time     `gorm:"type:timestamptz;column:start_date" json:"startDate,omitempty"`
	EndDate    *time.Time     `gorm:"type:timestamptz;column:end_date" json:"endDate,omitempty"`
	Active     bool           `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
	Phases     []Phase        `gorm:"type:jsonb;column:phases;serializer:json;not null" json:"phases"` // Ordered; array order mirrors template step order
}

func (pi *ProcessInstance) TableName() string {
	return "process_instances"
}

// Phase is an instance-level step. It carries a single freshly generated ID;
// StepTemplateID records the originating step for id-based enrichment joins.
type Phase struct {
	ID             uuid.UUID   `json:"id"`
	StepTemplateID *uuid.UUID  `json:"stepTemplateId,omitempty"`
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	Status         PhaseStatus `json:"status"`
	AssignedTo     *uuid.UUID  `json:"assignedTo,omitempty"` // Employee id; nil when unassigned
	StartDate      *time.Time  `json:"startDate,omitempty"`
	EndDate        *time.Time  `json:"endDate,omitempty"`
	CompletedTasks int         `json:"completedTasks"`
	TotalTasks     int         `json:"totalTasks"`
	EstimatedHours float64     `json:"estimatedHours"`
	RequiredTools  []string    `json:"requiredTools,omitempty"`
	Deliverables   []string    `json:"deliverables,omitempty"`
}

// CreateProcessInstanceDTO is the data transfer object for materializing a new
// process instance from a template.
type CreateProcessInstanceDTO struct {
	Name       string     `json:"name"`
	ProjectID  uuid.UUID  `json:"projectId"`
	TemplateID uuid.UUID  `json:"templateId"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Status     string     `json:"status,omitempty"` // Defaults to "active"
}

// UpdatePhaseStatusDTO is used to update a single phase's status and assignment.
type UpdatePhaseStatusDTO struct {
	Status     PhaseStatus `json:"status"`
	AssignedTo *uuid.UUID  `json:"assignedTo,omitempty"`
	StartDate  *time.Time  `json:"startDate,omitempty"`
	EndDate    *time.Time  `json:"endDate,omitempty"`
}

// InstanceProgressDTO reports computed progress for a process instance.
// The percentage is always recomputed on read, never persisted.
type InstanceProgressDTO struct {
	InstanceID      uuid.UUID `json:"instanceId"`
	TotalPhases     int       `json:"totalPhases"`
	CompletedPhases int       `json:"completedPhases"`
	Percent         int       `json:"percent"`
}
