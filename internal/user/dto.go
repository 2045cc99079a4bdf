package user

import (
	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
)

type UpgradeRoleDTO struct {
	Role string `json:"role"`
}

func (dto UpgradeRoleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("role", dto.Role).Required().OneOf(errors.ErrCodeInvalidRole, UpgradableRoles...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
