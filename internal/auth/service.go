package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

// AuthService resolves authenticated employees from the employee directory.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new AuthService instance
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		db: db,
	}
}

// ResolveEmployee looks up the employee behind a verified token subject.
// Returns gorm.ErrRecordNotFound when the employee does not exist or has
// been deactivated, which callers treat as an unauthorized request.
func (as *AuthService) ResolveEmployee(ctx context.Context, employeeID uuid.UUID) (*AuthContext, error) {
	if employeeID == uuid.Nil {
		return nil, fmt.Errorf("employee ID is empty")
	}

	var employee model.Employee
	result := as.db.WithContext(ctx).
		Where("id = ? AND active = ?", employeeID, true).
		First(&employee)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Debug("employee not found for token subject", "employee_id", employeeID)
			return nil, result.Error
		}
		slog.Error("failed to fetch employee for auth context",
			"employee_id", employeeID,
			"error", result.Error,
		)
		return nil, fmt.Errorf("failed to fetch employee: %w", result.Error)
	}

	return &AuthContext{
		EmployeeID: employee.ID,
		Name:       employee.Name,
		Role:       employee.Role,
	}, nil
}
