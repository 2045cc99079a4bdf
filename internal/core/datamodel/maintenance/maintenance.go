package maintenance

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/category"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

type Request struct {
	ID                   int64      `gorm:"primaryKey"`
	Subject              string     `gorm:"column:subject;not null"`
	Description          string     `gorm:"column:description"`
	EquipmentID          int64      `gorm:"column:equipment_id;not null;index"`
	CategoryID           *int64     `gorm:"column:category_id"`
	TeamID               *int64     `gorm:"column:team_id;index"`
	RequestType          string     `gorm:"column:request_type;not null"`
	Stage                string     `gorm:"column:stage;not null;index"`
	Priority             string     `gorm:"column:priority;not null"`
	ScheduledDate        time.Time  `gorm:"column:scheduled_date;not null;index"`
	DurationHours        float64    `gorm:"column:duration_hours;not null"`
	AssignedTechnicianID *int64     `gorm:"column:assigned_technician_id;index"`
	CreatedByID          *int64     `gorm:"column:created_by_id;index"`
	CompletedDate        *time.Time `gorm:"column:completed_date"`
	IsActive             bool       `gorm:"column:is_active;not null"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Equipment          *equipmentDatamodel.Equipment        `gorm:"foreignKey:EquipmentID"`
	Category           *categoryDatamodel.EquipmentCategory `gorm:"foreignKey:CategoryID"`
	Team               *teamDatamodel.Team                  `gorm:"foreignKey:TeamID"`
	AssignedTechnician *userDatamodel.User                  `gorm:"foreignKey:AssignedTechnicianID"`
	CreatedBy          *userDatamodel.User                  `gorm:"foreignKey:CreatedByID"`
}

func (Request) TableName() string {
	return "maintenance_requests"
}
