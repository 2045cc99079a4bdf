package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

const (
	RoleUser       = "user"
	RoleTechnician = "technician"
	RoleManager    = "manager"
	RoleAdmin      = "admin"
)

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// UpgradableRoles are the roles an admin may hand out. Admin is never granted
// through the API.
var UpgradableRoles = []string{RoleUser, RoleTechnician, RoleManager}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	IsVerified   bool      `json:"isVerified"`
	TeamID       *int64    `json:"teamId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) IsTechnician() bool {
	return u.Role == RoleTechnician
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		IsVerified:   u.IsVerified,
		TeamID:       u.TeamID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		IsVerified:   u.IsVerified,
		TeamID:       u.TeamID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
