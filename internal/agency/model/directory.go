package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer of the agency.
type Client struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Company string `gorm:"type:varchar(255);column:company" json:"company,omitempty"`
	Email   string `gorm:"type:varchar(255);column:email" json:"email,omitempty"`
	Phone   string `gorm:"type:varchar(50);column:phone" json:"phone,omitempty"`
	Active  bool   `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
}

func (c *Client) TableName() string {
	return "clients"
}

// Employee is a member of the agency team.
type Employee struct {
	BaseModel
	Name       string  `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Email      string  `gorm:"type:varchar(255);column:email" json:"email,omitempty"`
	Role       string  `gorm:"type:varchar(100);column:role" json:"role,omitempty"`
	HourlyRate float64 `gorm:"type:numeric;column:hourly_rate" json:"hourlyRate"`
	Active     bool    `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
}

func (e *Employee) TableName() string {
	return "employees"
}

// TimeEntry is a single block of hours logged against a task.
type TimeEntry struct {
	BaseModel
	TaskID     uuid.UUID `gorm:"type:uuid;column:task_id;not null" json:"taskId"`
	EmployeeID uuid.UUID `gorm:"type:uuid;column:employee_id;not null" json:"employeeId"`
	Hours      float64   `gorm:"type:numeric;column:hours;not null" json:"hours"`
	Date       time.Time `gorm:"type:timestamptz;column:date;not null" json:"date"`
	Notes      string    `gorm:"type:text;column:notes" json:"notes,omitempty"`
	Active     bool      `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
}

func (te *TimeEntry) TableName() string {
	return "time_entries"
}

// AssigneeDTO is an employee reference hydrated for read views. When the id
// does not resolve, Name and Role stay empty but the id itself survives.
type AssigneeDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
	Role string    `json:"role,omitempty"`
}
