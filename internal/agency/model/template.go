package model

import "github.com/google/uuid"

// ProcessTemplate is a reusable definition of a multi-step process.
// Templates are edited in place (whole-document replace) and never hard-deleted;
// instances materialized from a template are decoupled snapshots, so editing a
// template does not touch them.
type ProcessTemplate struct {
	BaseModel
	Name     string         `gorm:"type:varchar(255);column:name;not null" json:"name"`                  // Human-readable name of the process template
	Category string         `gorm:"type:varchar(100);column:category" json:"category"`                   // Category of the template (e.g., branding, web)
	Version  string         `gorm:"type:varchar(50);column:version;not null;default:'1.0'" json:"version"` // Free-form version string, no semver enforcement
	Active   bool           `gorm:"type:boolean;column:active;not null;default:true" json:"active"`      // Soft-delete flag; inactive templates are excluded from catalog listings
	Steps    []StepTemplate `gorm:"type:jsonb;column:steps;serializer:json;not null" json:"steps"`       // Ordered steps; array order is load-bearing
}

func (pt *ProcessTemplate) TableName() string {
	return "process_templates"
}

// StepTemplate is a single ordered step within a process template.
type StepTemplate struct {
	ID          uuid.UUID      `json:"id"`    // Unique within the template
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Order       int            `json:"order"`
	Tasks       []TaskTemplate `json:"tasks"`
}

// TaskTemplate defines a unit of work within a step. SubTasks share the same
// shape one level down; deeper nesting is not supported.
type TaskTemplate struct {
	ID             uuid.UUID      `json:"id"` // Unique within the template
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	EstimatedHours float64        `json:"estimatedHours"`
	RequiredTools  []string       `json:"requiredTools,omitempty"`
	Deliverables   []string       `json:"deliverables,omitempty"`
	InstructionDoc *DocumentLink  `json:"instructionDoc,omitempty"`
	SubTasks       []TaskTemplate `json:"subTasks,omitempty"`
}

// CreateProcessTemplateDTO is the data transfer object for creating a new process template.
type CreateProcessTemplateDTO struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Version  string         `json:"version"`
	Steps    []StepTemplate `json:"steps"`
}
