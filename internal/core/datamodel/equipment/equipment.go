package equipment

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/category"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

const (
	StatusOperational      = "operational"
	StatusUnderMaintenance = "under_maintenance"
	StatusScrapped         = "scrapped"
)

type Equipment struct {
	ID                  int64      `gorm:"primaryKey"`
	Name                string     `gorm:"column:name;not null"`
	SerialNumber        *string    `gorm:"column:serial_number;uniqueIndex"`
	CategoryID          int64      `gorm:"column:category_id;not null;index"`
	TeamID              int64      `gorm:"column:team_id;not null;index"`
	DefaultTechnicianID *int64     `gorm:"column:default_technician_id"`
	AssignedEmployeeID  *int64     `gorm:"column:assigned_employee_id"`
	Department          string     `gorm:"column:department"`
	PurchaseDate        *time.Time `gorm:"column:purchase_date"`
	WarrantyStartDate   *time.Time `gorm:"column:warranty_start_date"`
	WarrantyEndDate     *time.Time `gorm:"column:warranty_end_date"`
	WarrantyInfo        string     `gorm:"column:warranty_info"`
	Location            string     `gorm:"column:location"`
	Notes               string     `gorm:"column:notes"`
	IsActive            bool       `gorm:"column:is_active;not null"`
	Status              string     `gorm:"column:status;not null;index"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Category          *categoryDatamodel.EquipmentCategory `gorm:"foreignKey:CategoryID"`
	Team              *teamDatamodel.Team                  `gorm:"foreignKey:TeamID"`
	DefaultTechnician *userDatamodel.User                  `gorm:"foreignKey:DefaultTechnicianID"`
	AssignedEmployee  *userDatamodel.User                  `gorm:"foreignKey:AssignedEmployeeID"`
}

func (Equipment) TableName() string {
	return "equipment"
}
