package category

import (
	"strings"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
)

type CreateCategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (dto *CreateCategoryDTO) Validate() error {
	dto.Name = strings.TrimSpace(dto.Name)

	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(100)
	v.Field("description", dto.Description).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateCategoryDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (dto *UpdateCategoryDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		trimmed := strings.TrimSpace(*dto.Name)
		dto.Name = &trimmed
		v.Field("name", trimmed).Required().MaxLength(100)
	}
	v.Field("description", dto.Description).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

var ErrDuplicateName = errors.NewValidationError("Category with this name already exists", errors.ErrCodeDuplicate)
