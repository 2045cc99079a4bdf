package team

import (
	"time"

	"github.com/frahmantamala/gearguard/internal/core/common/refs"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

const DefaultColor = "#3498db"

type Team struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Color          string         `json:"color"`
	IsActive       bool           `json:"isActive"`
	Members        []*refs.Person `json:"members"`
	MemberCount    int64          `json:"memberCount"`
	EquipmentCount int64          `json:"equipmentCount"`
	RequestCount   int64          `json:"requestCount"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Counts are derived from the equipment and request tables.
type Counts struct {
	Equipment int64
	Requests  int64
}

func FromDataModel(t *teamDatamodel.Team, counts Counts) *Team {
	members := make([]*refs.Person, 0, len(t.Members))
	for i := range t.Members {
		members = append(members, refs.FromUser(&t.Members[i]))
	}
	return &Team{
		ID:             t.ID,
		Name:           t.Name,
		Color:          t.Color,
		IsActive:       t.IsActive,
		Members:        members,
		MemberCount:    int64(len(members)),
		EquipmentCount: counts.Equipment,
		RequestCount:   counts.Requests,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func countTechnicians(members []userDatamodel.User) int {
	n := 0
	for _, m := range members {
		if m.Role == roleTechnician {
			n++
		}
	}
	return n
}
