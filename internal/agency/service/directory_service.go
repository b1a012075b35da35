package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

// DirectoryService covers the flat reference entities the dashboard manages:
// clients, employees, the service offering catalog, service packages and time
// entries. These are plain CRUD screens; soft delete everywhere.
type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

// --- Clients ---

func (s *DirectoryService) CreateClient(ctx context.Context, client *model.Client) (*model.Client, error) {
	if client == nil || client.Name == "" {
		return nil, fmt.Errorf("client name is required: %w", ErrValidation)
	}
	client.Active = true
	if result := s.db.WithContext(ctx).Create(client); result.Error != nil {
		return nil, fmt.Errorf("failed to create client: %w", result.Error)
	}
	return client, nil
}

func (s *DirectoryService) GetClient(ctx context.Context, clientID uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := s.firstActive(ctx, &client, clientID, "client"); err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *DirectoryService) ListClients(ctx context.Context, offset, limit int) ([]model.Client, error) {
	var clients []model.Client
	result := s.db.WithContext(ctx).Where("active = ?", true).Offset(offset).Limit(limit).Find(&clients)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list clients: %w", result.Error)
	}
	return clients, nil
}

func (s *DirectoryService) UpdateClient(ctx context.Context, clientID uuid.UUID, update *model.Client) (*model.Client, error) {
	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	client.Name = update.Name
	client.Company = update.Company
	client.Email = update.Email
	client.Phone = update.Phone
	if result := s.db.WithContext(ctx).Save(client); result.Error != nil {
		return nil, fmt.Errorf("failed to update client: %w", result.Error)
	}
	return client, nil
}

func (s *DirectoryService) DeactivateClient(ctx context.Context, clientID uuid.UUID) error {
	return s.deactivate(ctx, &model.Client{}, clientID, "client")
}

// --- Employees ---

func (s *DirectoryService) CreateEmployee(ctx context.Context, employee *model.Employee) (*model.Employee, error) {
	if employee == nil || employee.Name == "" {
		return nil, fmt.Errorf("employee name is required: %w", ErrValidation)
	}
	employee.Active = true
	if result := s.db.WithContext(ctx).Create(employee); result.Error != nil {
		return nil, fmt.Errorf("failed to create employee: %w", result.Error)
	}
	return employee, nil
}

func (s *DirectoryService) GetEmployee(ctx context.Context, employeeID uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := s.firstActive(ctx, &employee, employeeID, "employee"); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (s *DirectoryService) ListEmployees(ctx context.Context, offset, limit int) ([]model.Employee, error) {
	var employees []model.Employee
	result := s.db.WithContext(ctx).Where("active = ?", true).Offset(offset).Limit(limit).Find(&employees)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list employees: %w", result.Error)
	}
	return employees, nil
}

func (s *DirectoryService) UpdateEmployee(ctx context.Context, employeeID uuid.UUID, update *model.Employee) (*model.Employee, error) {
	employee, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	employee.Name = update.Name
	employee.Email = update.Email
	employee.Role = update.Role
	employee.HourlyRate = update.HourlyRate
	if result := s.db.WithContext(ctx).Save(employee); result.Error != nil {
		return nil, fmt.Errorf("failed to update employee: %w", result.Error)
	}
	return employee, nil
}

func (s *DirectoryService) DeactivateEmployee(ctx context.Context, employeeID uuid.UUID) error {
	return s.deactivate(ctx, &model.Employee{}, employeeID, "employee")
}

// --- Services ---

// CreateService validates the tagged work-breakdown variant: a template
// reference or inline phases, never both and never neither.
func (s *DirectoryService) CreateService(ctx context.Context, svc *model.Service) (*model.Service, error) {
	if svc == nil || svc.Name == "" {
		return nil, fmt.Errorf("service name is required: %w", ErrValidation)
	}
	if err := validateWorkBreakdown(svc.WorkBreakdown); err != nil {
		return nil, err
	}
	if svc.BillingType == "" {
		svc.BillingType = model.BillingTypeFixed
	}
	svc.Active = true
	if result := s.db.WithContext(ctx).Create(svc); result.Error != nil {
		return nil, fmt.Errorf("failed to create service: %w", result.Error)
	}
	return svc, nil
}

func (s *DirectoryService) GetService(ctx context.Context, serviceID uuid.UUID) (*model.Service, error) {
	var svc model.Service
	if err := s.firstActive(ctx, &svc, serviceID, "service"); err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *DirectoryService) ListServices(ctx context.Context, offset, limit int) ([]model.Service, error) {
	var services []model.Service
	result := s.db.WithContext(ctx).Where("active = ?", true).Offset(offset).Limit(limit).Find(&services)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list services: %w", result.Error)
	}
	return services, nil
}

func (s *DirectoryService) UpdateService(ctx context.Context, serviceID uuid.UUID, update *model.Service) (*model.Service, error) {
	if err := validateWorkBreakdown(update.WorkBreakdown); err != nil {
		return nil, err
	}
	svc, err := s.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	svc.Name = update.Name
	svc.Description = update.Description
	svc.Category = update.Category
	svc.ServiceType = update.ServiceType
	svc.BillingType = update.BillingType
	svc.BasePrice = update.BasePrice
	svc.EstimatedHours = update.EstimatedHours
	svc.WorkBreakdown = update.WorkBreakdown
	if result := s.db.WithContext(ctx).Save(svc); result.Error != nil {
		return nil, fmt.Errorf("failed to update service: %w", result.Error)
	}
	return svc, nil
}

func (s *DirectoryService) DeactivateService(ctx context.Context, serviceID uuid.UUID) error {
	return s.deactivate(ctx, &model.Service{}, serviceID, "service")
}

// --- Service packages ---

// CreatePackage persists a package with its included-services snapshot taken
// as given: quantity and customizations are frozen at save time.
func (s *DirectoryService) CreatePackage(ctx context.Context, pkg *model.ServicePackage) (*model.ServicePackage, error) {
	if pkg == nil || pkg.Name == "" {
		return nil, fmt.Errorf("package name is required: %w", ErrValidation)
	}
	for i, included := range pkg.IncludedServices {
		if included.ServiceID == uuid.Nil {
			return nil, fmt.Errorf("included service %d is missing a service ID: %w", i, ErrValidation)
		}
	}
	pkg.Active = true
	if result := s.db.WithContext(ctx).Create(pkg); result.Error != nil {
		return nil, fmt.Errorf("failed to create service package: %w", result.Error)
	}
	return pkg, nil
}

func (s *DirectoryService) GetPackage(ctx context.Context, packageID uuid.UUID) (*model.ServicePackage, error) {
	var pkg model.ServicePackage
	if err := s.firstActive(ctx, &pkg, packageID, "service package"); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (s *DirectoryService) ListPackages(ctx context.Context, offset, limit int) ([]model.ServicePackage, error) {
	var packages []model.ServicePackage
	result := s.db.WithContext(ctx).Where("active = ?", true).Offset(offset).Limit(limit).Find(&packages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list service packages: %w", result.Error)
	}
	return packages, nil
}

// UpdatePackage rewrites a package in place. Contracts keep the price they
// snapshotted at creation, so repricing here never touches signed work.
func (s *DirectoryService) UpdatePackage(ctx context.Context, packageID uuid.UUID, update *model.ServicePackage) (*model.ServicePackage, error) {
	if update == nil || update.Name == "" {
		return nil, fmt.Errorf("package name is required: %w", ErrValidation)
	}
	for i, included := range update.IncludedServices {
		if included.ServiceID == uuid.Nil {
			return nil, fmt.Errorf("included service %d is missing a service ID: %w", i, ErrValidation)
		}
	}
	pkg, err := s.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	pkg.Name = update.Name
	pkg.Description = update.Description
	pkg.Price = update.Price
	pkg.IncludedServices = update.IncludedServices
	if result := s.db.WithContext(ctx).Save(pkg); result.Error != nil {
		return nil, fmt.Errorf("failed to update service package: %w", result.Error)
	}
	return pkg, nil
}

func (s *DirectoryService) DeactivatePackage(ctx context.Context, packageID uuid.UUID) error {
	return s.deactivate(ctx, &model.ServicePackage{}, packageID, "service package")
}

// --- Time entries ---

func (s *DirectoryService) CreateTimeEntry(ctx context.Context, entry *model.TimeEntry) (*model.TimeEntry, error) {
	if entry == nil {
		return nil, fmt.Errorf("time entry cannot be nil: %w", ErrValidation)
	}
	if entry.TaskID == uuid.Nil || entry.EmployeeID == uuid.Nil {
		return nil, fmt.Errorf("time entry needs a task and an employee: %w", ErrValidation)
	}
	if entry.Hours <= 0 {
		return nil, fmt.Errorf("time entry hours must be positive: %w", ErrValidation)
	}
	entry.Active = true
	if result := s.db.WithContext(ctx).Create(entry); result.Error != nil {
		return nil, fmt.Errorf("failed to create time entry: %w", result.Error)
	}
	return entry, nil
}

func (s *DirectoryService) ListTimeEntriesByTask(ctx context.Context, taskID uuid.UUID, offset, limit int) ([]model.TimeEntry, error) {
	if taskID == uuid.Nil {
		return nil, fmt.Errorf("task ID cannot be nil: %w", ErrValidation)
	}
	var entries []model.TimeEntry
	result := s.db.WithContext(ctx).
		Where("task_id = ? AND active = ?", taskID, true).
		Offset(offset).Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", result.Error)
	}
	return entries, nil
}

func (s *DirectoryService) DeactivateTimeEntry(ctx context.Context, entryID uuid.UUID) error {
	return s.deactivate(ctx, &model.TimeEntry{}, entryID, "time entry")
}

// --- shared helpers ---

func (s *DirectoryService) firstActive(ctx context.Context, dest any, id uuid.UUID, kind string) error {
	if id == uuid.Nil {
		return fmt.Errorf("%s ID cannot be nil: %w", kind, ErrValidation)
	}
	result := s.db.WithContext(ctx).First(dest, "id = ? AND active = ?", id, true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		return fmt.Errorf("failed to retrieve %s: %w", kind, result.Error)
	}
	return nil
}

func (s *DirectoryService) deactivate(ctx context.Context, modelRef any, id uuid.UUID, kind string) error {
	if id == uuid.Nil {
		return fmt.Errorf("%s ID cannot be nil: %w", kind, ErrValidation)
	}
	result := s.db.WithContext(ctx).Model(modelRef).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate %s: %w", kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func validateWorkBreakdown(wb model.WorkBreakdown) error {
	hasRef := wb.TemplateID != nil
	hasInline := len(wb.Phases) > 0
	if hasRef && hasInline {
		return fmt.Errorf("work breakdown cannot be both a template reference and inline: %w", ErrValidation)
	}
	if !hasRef && !hasInline {
		return fmt.Errorf("work breakdown needs a template reference or inline phases: %w", ErrValidation)
	}
	if hasInline {
		for i, phase := range wb.Phases {
			if phase.Name == "" {
				return fmt.Errorf("inline phase %d is missing a name: %w", i, ErrValidation)
			}
			for j, task := range phase.Tasks {
				if task.Name == "" {
					return fmt.Errorf("inline task %d in phase %q is missing a name: %w", j, phase.Name, ErrValidation)
				}
			}
		}
	}
	return nil
}
