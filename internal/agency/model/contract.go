package model

import (
	"time"

	"github.com/google/uuid"
)

// ServicePackage bundles services for sale. IncludedServices is a snapshot of
// quantity/customizations taken at package-save time; the service documents
// themselves are joined in at read time.
type ServicePackage struct {
	BaseModel
	Name             string           `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Description      string           `gorm:"type:text;column:description" json:"description,omitempty"`
	Price            float64          `gorm:"type:numeric;column:price" json:"price"`
	Active           bool             `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
	IncludedServices []PackageService `gorm:"type:jsonb;column:included_services;serializer:json;not null" json:"includedServices"`
}

func (sp *ServicePackage) TableName() string {
	return "service_packages"
}

// PackageService is a service reference embedded in a package.
type PackageService struct {
	ServiceID      uuid.UUID `json:"serviceId"`
	Quantity       int       `json:"quantity"`
	Customizations string    `json:"customizations,omitempty"`
}

// ContractStatus represents the lifecycle status of a contract.
type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusSigned    ContractStatus = "signed"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// Contract records what a client bought. Packages embeds a pricing snapshot
// taken at contract-creation time.
type Contract struct {
	BaseModel
	ClientID   uuid.UUID         `gorm:"type:uuid;column:client_id;not null" json:"clientId"`
	Status     ContractStatus    `gorm:"type:varchar(20);column:status;not null;default:'draft'" json:"status"`
	SignedDate *time.Time        `gorm:"type:timestamptz;column:signed_date" json:"signedDate,omitempty"`
	Active     bool              `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
	Packages   []ContractPackage `gorm:"type:jsonb;column:packages;serializer:json;not null" json:"packages"`
}

func (c *Contract) TableName() string {
	return "contracts"
}

// ContractPackage is a package reference embedded in a contract, with the
// price frozen at contract-creation time.
type ContractPackage struct {
	PackageID uuid.UUID `json:"packageId"`
	Price     float64   `json:"price"`
}

// EnrichedContractDTO is the read view of a contract with its package and
// service references hydrated into full sub-documents.
type EnrichedContractDTO struct {
	Contract Contract             `json:"contract"`
	Packages []EnrichedPackageDTO `json:"packages"`
}

// EnrichedPackageDTO is a hydrated contract package. Services that do not
// resolve to an active record are filtered out of IncludedServices.
type EnrichedPackageDTO struct {
	PackageID        uuid.UUID `json:"packageId"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Price            float64   `json:"price"`
	IncludedServices []Service `json:"includedServices"`
}
