package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

func seedPackage(t *testing.T, db *gorm.DB, name string, price float64, serviceIDs ...uuid.UUID) *model.ServicePackage {
	t.Helper()

	included := make([]model.PackageService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		included = append(included, model.PackageService{ServiceID: id, Quantity: 1})
	}
	pkg := &model.ServicePackage{
		Name:             name,
		Price:            price,
		Active:           true,
		IncludedServices: included,
	}
	require.NoError(t, db.Create(pkg).Error)
	return pkg
}

func TestContractService_CreateContract_PriceSnapshot(t *testing.T) {
	db := newTestDB(t)
	cs := NewContractService(db)
	ctx := context.Background()

	pkg := seedPackage(t, db, "Starter", 2500)

	contract, err := cs.CreateContract(ctx, &CreateContractDTO{
		ClientID:   uuid.New(),
		PackageIDs: []uuid.UUID{pkg.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, model.ContractStatusDraft, contract.Status)
	require.Len(t, contract.Packages, 1)
	assert.Equal(t, 2500.0, contract.Packages[0].Price)

	// Raising the package price later leaves the contract snapshot alone.
	require.NoError(t, db.Model(&model.ServicePackage{}).Where("id = ?", pkg.ID).Update("price", 4000).Error)

	fetched, err := cs.GetContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, fetched.Packages[0].Price)
}

func TestContractService_CreateContract_MissingPackage(t *testing.T) {
	db := newTestDB(t)
	cs := NewContractService(db)

	_, err := cs.CreateContract(context.Background(), &CreateContractDTO{
		ClientID:   uuid.New(),
		PackageIDs: []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContractService_CreateContract_Validation(t *testing.T) {
	db := newTestDB(t)
	cs := NewContractService(db)
	ctx := context.Background()

	_, err := cs.CreateContract(ctx, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = cs.CreateContract(ctx, &CreateContractDTO{PackageIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = cs.CreateContract(ctx, &CreateContractDTO{ClientID: uuid.New()})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContractService_GetContractDetails(t *testing.T) {
	db := newTestDB(t)
	cs := NewContractService(db)
	ctx := context.Background()

	svc := seedInlineService(t, db)
	deletedService := uuid.New() // referenced by the package but never created
	pkg := seedPackage(t, db, "Growth", 7500, svc.ID, deletedService)

	contract, err := cs.CreateContract(ctx, &CreateContractDTO{
		ClientID:   uuid.New(),
		PackageIDs: []uuid.UUID{pkg.ID},
	})
	require.NoError(t, err)

	details, err := cs.GetContractDetails(ctx, contract.ID)
	require.NoError(t, err)
	require.Len(t, details.Packages, 1)

	enriched := details.Packages[0]
	assert.Equal(t, "Growth", enriched.Name)
	assert.Equal(t, 7500.0, enriched.Price)
	require.Len(t, enriched.IncludedServices, 1, "unresolved services are filtered out")
	assert.Equal(t, svc.ID, enriched.IncludedServices[0].ID)
}

func TestContractService_GetContractDetails_UnknownPackage(t *testing.T) {
	db := newTestDB(t)
	cs := NewContractService(db)
	ctx := context.Background()

	pkg := seedPackage(t, db, "Starter", 2500)
	contract, err := cs.CreateContract(ctx, &CreateContractDTO{
		ClientID:   uuid.New(),
		PackageIDs: []uuid.UUID{pkg.ID},
	})
	require.NoError(t, err)

	// Deactivate the package after the contract was signed against it.
	require.NoError(t, db.Model(&model.ServicePackage{}).Where("id = ?", pkg.ID).Update("active", false).Error)

	details, err := cs.GetContractDetails(ctx, contract.ID)
	require.NoError(t, err, "a broken package reference never fails the read")
	require.Len(t, details.Packages, 1)
	assert.Equal(t, "Unknown Package", details.Packages[0].Name)
	assert.Equal(t, 2500.0, details.Packages[0].Price, "snapshot price survives")
	assert.Empty(t, details.Packages[0].IncludedServices)
}

func TestContractService_UpdateContractStatus(t *testing.T) {
	db := newTestDB(t)
	cs := NewContractService(db)
	ctx := context.Background()

	pkg := seedPackage(t, db, "Starter", 2500)
	contract, err := cs.CreateContract(ctx, &CreateContractDTO{
		ClientID:   uuid.New(),
		PackageIDs: []uuid.UUID{pkg.ID},
	})
	require.NoError(t, err)

	updated, err := cs.UpdateContractStatus(ctx, contract.ID, model.ContractStatusSigned)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusSigned, updated.Status)

	_, err = cs.UpdateContractStatus(ctx, contract.ID, "expired")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContractService_ListContractsByClient(t *testing.T) {
	db := newTestDB(t)
	cs := NewContractService(db)
	ctx := context.Background()

	clientID := uuid.New()
	pkg := seedPackage(t, db, "Starter", 2500)

	for range 2 {
		_, err := cs.CreateContract(ctx, &CreateContractDTO{ClientID: clientID, PackageIDs: []uuid.UUID{pkg.ID}})
		require.NoError(t, err)
	}
	_, err := cs.CreateContract(ctx, &CreateContractDTO{ClientID: uuid.New(), PackageIDs: []uuid.UUID{pkg.ID}})
	require.NoError(t, err)

	contracts, err := cs.ListContractsByClient(ctx, clientID, 0, 20)
	require.NoError(t, err)
	assert.Len(t, contracts, 2)
}
