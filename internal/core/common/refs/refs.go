// Package refs holds the compact summaries embedded in API responses when an
// entity points at another one.
package refs

import (
	categoryDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/category"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

type Named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Person struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type Equipment struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	SerialNumber *string `json:"serialNumber,omitempty"`
	Status       string  `json:"status,omitempty"`
}

func FromUser(u *userDatamodel.User) *Person {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &Person{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func FromTeam(t *teamDatamodel.Team) *Named {
	if t == nil || t.ID == 0 {
		return nil
	}
	return &Named{ID: t.ID, Name: t.Name}
}

func FromCategory(c *categoryDatamodel.EquipmentCategory) *Named {
	if c == nil || c.ID == 0 {
		return nil
	}
	return &Named{ID: c.ID, Name: c.Name}
}

func FromEquipment(e *equipmentDatamodel.Equipment) *Equipment {
	if e == nil || e.ID == 0 {
		return nil
	}
	return &Equipment{ID: e.ID, Name: e.Name, SerialNumber: e.SerialNumber, Status: e.Status}
}
