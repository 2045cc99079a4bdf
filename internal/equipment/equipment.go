package equipment

import (
	"time"

	"github.com/frahmantamala/gearguard/internal/core/common/refs"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	"github.com/frahmantamala/gearguard/internal/maintenance"
)

const (
	StatusOperational      = equipmentDatamodel.StatusOperational
	StatusUnderMaintenance = equipmentDatamodel.StatusUnderMaintenance
	StatusScrapped         = equipmentDatamodel.StatusScrapped
)

var Statuses = []string{StatusOperational, StatusUnderMaintenance, StatusScrapped}

type Equipment struct {
	ID                  int64                  `json:"id"`
	Name                string                 `json:"name"`
	SerialNumber        *string                `json:"serialNumber"`
	Category            *refs.Named            `json:"category"`
	Team                *refs.Named            `json:"team"`
	DefaultTechnician   *refs.Person           `json:"defaultTechnician"`
	AssignedEmployee    *refs.Person           `json:"assignedEmployee"`
	Department          string                 `json:"department"`
	PurchaseDate        *time.Time             `json:"purchaseDate"`
	WarrantyStartDate   *time.Time             `json:"warrantyStartDate"`
	WarrantyEndDate     *time.Time             `json:"warrantyEndDate"`
	WarrantyInfo        string                 `json:"warrantyInfo"`
	Location            string                 `json:"location"`
	Notes               string                 `json:"notes"`
	IsActive            bool                   `json:"isActive"`
	Status              string                 `json:"status"`
	MaintenanceRequests []*maintenance.Request `json:"maintenanceRequests,omitempty"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

// Filter narrows List. Search matches name or serial number.
type Filter struct {
	CategoryID *int64
	TeamID     *int64
	Status     string
	Search     string
}

func FromDataModel(e *equipmentDatamodel.Equipment) *Equipment {
	return &Equipment{
		ID:                e.ID,
		Name:              e.Name,
		SerialNumber:      e.SerialNumber,
		Category:          refs.FromCategory(e.Category),
		Team:              refs.FromTeam(e.Team),
		DefaultTechnician: refs.FromUser(e.DefaultTechnician),
		AssignedEmployee:  refs.FromUser(e.AssignedEmployee),
		Department:        e.Department,
		PurchaseDate:      e.PurchaseDate,
		WarrantyStartDate: e.WarrantyStartDate,
		WarrantyEndDate:   e.WarrantyEndDate,
		WarrantyInfo:      e.WarrantyInfo,
		Location:          e.Location,
		Notes:             e.Notes,
		IsActive:          e.IsActive,
		Status:            e.Status,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*equipmentDatamodel.Equipment) []*Equipment {
	result := make([]*Equipment, len(rows))
	for i, e := range rows {
		result[i] = FromDataModel(e)
	}
	return result
}
