package team

import (
	"time"

	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

type Team struct {
	ID        int64                `gorm:"primaryKey"`
	Name      string               `gorm:"column:name;uniqueIndex;not null"`
	Color     string               `gorm:"column:color;not null"`
	IsActive  bool                 `gorm:"column:is_active;not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
	Members   []userDatamodel.User `gorm:"foreignKey:TeamID"`
}

func (Team) TableName() string {
	return "teams"
}
