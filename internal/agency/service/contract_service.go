package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

// Placeholder name for a contract package whose reference no longer resolves.
// Service references that fail to resolve are filtered out instead; the
// asymmetry is deliberate (a contract row must never disappear because one of
// its packages was corrupted, but a package listing an unknown service just
// shows the services that still exist).
const unknownPackageName = "Unknown Package"

// ContractService owns contracts and the contract read-side enrichment that
// hydrates package and service references into full sub-documents.
type ContractService struct {
	db *gorm.DB
}

func NewContractService(db *gorm.DB) *ContractService {
	return &ContractService{db: db}
}

// CreateContractDTO is the input for contract creation. Prices are snapshotted
// from the referenced packages at creation time.
type CreateContractDTO struct {
	ClientID   uuid.UUID   `json:"clientId"`
	PackageIDs []uuid.UUID `json:"packageIds"`
}

// CreateContract creates a contract for a client, embedding a pricing snapshot
// of every referenced package. Later package price changes do not affect the
// contract.
func (s *ContractService) CreateContract(ctx context.Context, createReq *CreateContractDTO) (*model.Contract, error) {
	if createReq == nil {
		return nil, fmt.Errorf("create request cannot be nil: %w", ErrValidation)
	}
	if createReq.ClientID == uuid.Nil {
		return nil, fmt.Errorf("client ID is required: %w", ErrValidation)
	}
	if len(createReq.PackageIDs) == 0 {
		return nil, fmt.Errorf("contract must reference at least one package: %w", ErrValidation)
	}

	var packages []model.ServicePackage
	if result := s.db.WithContext(ctx).Where("id IN ? AND active = ?", createReq.PackageIDs, true).Find(&packages); result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve service packages: %w", result.Error)
	}
	packagesByID := make(map[uuid.UUID]model.ServicePackage, len(packages))
	for _, pkg := range packages {
		packagesByID[pkg.ID] = pkg
	}

	contract := &model.Contract{
		ClientID: createReq.ClientID,
		Status:   model.ContractStatusDraft,
		Active:   true,
		Packages: make([]model.ContractPackage, 0, len(createReq.PackageIDs)),
	}
	for _, packageID := range createReq.PackageIDs {
		pkg, ok := packagesByID[packageID]
		if !ok {
			return nil, fmt.Errorf("service package %s: %w", packageID, ErrNotFound)
		}
		contract.Packages = append(contract.Packages, model.ContractPackage{
			PackageID: pkg.ID,
			Price:     pkg.Price,
		})
	}

	if result := s.db.WithContext(ctx).Create(contract); result.Error != nil {
		return nil, fmt.Errorf("failed to create contract: %w", result.Error)
	}
	return contract, nil
}

// GetContract retrieves an active contract by its ID.
func (s *ContractService) GetContract(ctx context.Context, contractID uuid.UUID) (*model.Contract, error) {
	if contractID == uuid.Nil {
		return nil, fmt.Errorf("contract ID cannot be nil: %w", ErrValidation)
	}

	var contract model.Contract
	result := s.db.WithContext(ctx).First(&contract, "id = ? AND active = ?", contractID, true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contract %s: %w", contractID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve contract: %w", result.Error)
	}
	return &contract, nil
}

// ListContractsByClient returns a client's active contracts.
func (s *ContractService) ListContractsByClient(ctx context.Context, clientID uuid.UUID, offset, limit int) ([]model.Contract, error) {
	if clientID == uuid.Nil {
		return nil, fmt.Errorf("client ID cannot be nil: %w", ErrValidation)
	}

	var contracts []model.Contract
	result := s.db.WithContext(ctx).
		Where("client_id = ? AND active = ?", clientID, true).
		Offset(offset).Limit(limit).
		Find(&contracts)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", result.Error)
	}
	return contracts, nil
}

// UpdateContractStatus moves a contract through its lifecycle.
func (s *ContractService) UpdateContractStatus(ctx context.Context, contractID uuid.UUID, status model.ContractStatus) (*model.Contract, error) {
	switch status {
	case model.ContractStatusDraft, model.ContractStatusSigned, model.ContractStatusCompleted, model.ContractStatusCancelled:
	default:
		return nil, fmt.Errorf("invalid contract status %q: %w", status, ErrValidation)
	}

	contract, err := s.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	contract.Status = status
	if result := s.db.WithContext(ctx).Save(contract); result.Error != nil {
		return nil, fmt.Errorf("failed to update contract: %w", result.Error)
	}
	return contract, nil
}

// DeactivateContract soft-deletes a contract.
func (s *ContractService) DeactivateContract(ctx context.Context, contractID uuid.UUID) error {
	if contractID == uuid.Nil {
		return fmt.Errorf("contract ID cannot be nil: %w", ErrValidation)
	}

	result := s.db.WithContext(ctx).Model(&model.Contract{}).
		Where("id = ?", contractID).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate contract: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("contract %s: %w", contractID, ErrNotFound)
	}
	return nil
}

// GetContractDetails assembles the enriched read view of a contract: two batch
// fetches (packages, then services) and an in-memory substitution. A package
// reference that fails to resolve degrades to an "Unknown Package" placeholder;
// a service reference that fails to resolve (including soft-deleted services)
// is filtered out of the package's included services.
func (s *ContractService) GetContractDetails(ctx context.Context, contractID uuid.UUID) (*model.EnrichedContractDTO, error) {
	contract, err := s.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	packageIDs := make([]uuid.UUID, 0, len(contract.Packages))
	for _, ref := range contract.Packages {
		packageIDs = append(packageIDs, ref.PackageID)
	}

	packagesByID := make(map[uuid.UUID]model.ServicePackage)
	if len(packageIDs) > 0 {
		var packages []model.ServicePackage
		if result := s.db.WithContext(ctx).Where("id IN ? AND active = ?", packageIDs, true).Find(&packages); result.Error != nil {
			return nil, fmt.Errorf("failed to retrieve service packages: %w", result.Error)
		}
		for _, pkg := range packages {
			packagesByID[pkg.ID] = pkg
		}
	}

	serviceIDSet := make(map[uuid.UUID]bool)
	for _, pkg := range packagesByID {
		for _, included := range pkg.IncludedServices {
			serviceIDSet[included.ServiceID] = true
		}
	}

	servicesByID := make(map[uuid.UUID]model.Service)
	if len(serviceIDSet) > 0 {
		serviceIDs := make([]uuid.UUID, 0, len(serviceIDSet))
		for id := range serviceIDSet {
			serviceIDs = append(serviceIDs, id)
		}
		var services []model.Service
		if result := s.db.WithContext(ctx).Where("id IN ? AND active = ?", serviceIDs, true).Find(&services); result.Error != nil {
			return nil, fmt.Errorf("failed to retrieve services: %w", result.Error)
		}
		for _, svc := range services {
			servicesByID[svc.ID] = svc
		}
	}

	enriched := &model.EnrichedContractDTO{
		Contract: *contract,
		Packages: make([]model.EnrichedPackageDTO, 0, len(contract.Packages)),
	}
	for _, ref := range contract.Packages {
		entry := model.EnrichedPackageDTO{
			PackageID:        ref.PackageID,
			Price:            ref.Price,
			IncludedServices: []model.Service{},
		}
		pkg, ok := packagesByID[ref.PackageID]
		if !ok {
			entry.Name = unknownPackageName
			enriched.Packages = append(enriched.Packages, entry)
			continue
		}

		entry.Name = pkg.Name
		entry.Description = pkg.Description
		for _, included := range pkg.IncludedServices {
			if svc, ok := servicesByID[included.ServiceID]; ok {
				entry.IncludedServices = append(entry.IncludedServices, svc)
			}
		}
		enriched.Packages = append(enriched.Packages, entry)
	}
	return enriched, nil
}
