package model

import "github.com/google/uuid"

// BillingType represents how a service is billed.
type BillingType string

const (
	BillingTypeFixed  BillingType = "fixed"
	BillingTypeHourly BillingType = "hourly"
	BillingTypeRetainer BillingType = "retainer"
)

// Service is an offering the agency sells. Its work breakdown is a tagged
// variant: either a reference into the shared template catalog or an inline
// phase structure owned by the service itself. Exactly one side is set.
type Service struct {
	BaseModel
	Name           string        `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Description    string        `gorm:"type:text;column:description" json:"description,omitempty"`
	Category       string        `gorm:"type:varchar(100);column:category" json:"category"`
	ServiceType    string        `gorm:"type:varchar(100);column:service_type" json:"serviceType"`
	BillingType    BillingType   `gorm:"type:varchar(20);column:billing_type;not null;default:'fixed'" json:"billingType"`
	BasePrice      float64       `gorm:"type:numeric;column:base_price" json:"basePrice"`
	EstimatedHours float64       `gorm:"type:numeric;column:estimated_hours" json:"estimatedHours"`
	Active         bool          `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
	WorkBreakdown  WorkBreakdown `gorm:"type:jsonb;column:work_breakdown;serializer:json;not null" json:"workBreakdown"`
}

func (s *Service) TableName() string {
	return "services"
}

// WorkBreakdown is the tagged variant describing how a service's work is
// structured: a template reference or an inline definition, never both.
type WorkBreakdown struct {
	TemplateID *uuid.UUID    `json:"templateId,omitempty"`
	Phases     []InlinePhase `json:"phases,omitempty"`
}

// IsTemplateRef reports whether the breakdown points at the template catalog.
func (wb WorkBreakdown) IsTemplateRef() bool {
	return wb.TemplateID != nil
}

// IsInline reports whether the breakdown is defined inline on the service.
func (wb WorkBreakdown) IsInline() bool {
	return wb.TemplateID == nil && len(wb.Phases) > 0
}

// InlinePhase is one phase of an inline work breakdown.
type InlinePhase struct {
	Name  string       `json:"name"`
	Tasks []InlineTask `json:"tasks"`
}

// InlineTask is one task of an inline work breakdown phase.
type InlineTask struct {
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	EstimatedHours float64       `json:"estimatedHours"`
	Deliverables   []string      `json:"deliverables,omitempty"`
	InstructionDoc *DocumentLink `json:"instructionDoc,omitempty"`
}
