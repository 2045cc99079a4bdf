// Package datamodel lists the gorm models backing the entity store.
package datamodel

import (
	categoryDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/category"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	maintenanceDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/maintenance"
	otpDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/otp"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

// All returns every model in dependency order. Production schemas come from
// db/migrations; this list feeds AutoMigrate in tests.
func All() []interface{} {
	return []interface{}{
		&teamDatamodel.Team{},
		&userDatamodel.User{},
		&categoryDatamodel.EquipmentCategory{},
		&equipmentDatamodel.Equipment{},
		&maintenanceDatamodel.Request{},
		&otpDatamodel.Code{},
	}
}
