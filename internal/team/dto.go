package team

import (
	"regexp"
	"strings"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	"github.com/frahmantamala/gearguard/internal/user"
)

const roleTechnician = user.RoleTechnician

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var (
	ErrDuplicateName      = errors.NewValidationError("Team with this name already exists", errors.ErrCodeDuplicate)
	ErrTechnicianRequired = errors.NewValidationError("Team must have at least one technician", errors.ErrCodeTechnicianRequired)
	ErrAlreadyInTeam      = errors.NewValidationError("User already belongs to a team", errors.ErrCodeAlreadyInTeam)
	ErrNotMember          = errors.NewValidationError("User is not a member of this team", errors.ErrCodeNotTeamMember)
	ErrLastTechnician     = errors.NewValidationError("Cannot remove the last technician from the team", errors.ErrCodeLastTechnician)
)

type CreateTeamDTO struct {
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	IsActive *bool   `json:"isActive,omitempty"`
	Members  []int64 `json:"members"`
}

func (dto *CreateTeamDTO) Validate() error {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Color == "" {
		dto.Color = DefaultColor
	}

	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(100)
	v.Field("color", dto.Color).Custom(validColor)
	v.Field("members", dto.Members).Custom(positiveIDs)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateTeamDTO struct {
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (dto *UpdateTeamDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		trimmed := strings.TrimSpace(*dto.Name)
		dto.Name = &trimmed
		v.Field("name", trimmed).Required().MaxLength(100)
	}
	if dto.Color != nil {
		v.Field("color", *dto.Color).Custom(validColor)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AddMemberDTO struct {
	UserID int64 `json:"userId"`
}

func (dto AddMemberDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("userId", dto.UserID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func validColor(value interface{}) *errors.AppError {
	if s, ok := value.(string); ok && !colorPattern.MatchString(s) {
		return errors.NewValidationFieldError("color", "color must be a hex value like #3498db", errors.ErrCodeValidationFailed)
	}
	return nil
}

func positiveIDs(value interface{}) *errors.AppError {
	ids, _ := value.([]int64)
	for _, id := range ids {
		if id <= 0 {
			return errors.NewValidationFieldError("members", "members must be positive user ids", errors.ErrCodeValidationFailed)
		}
	}
	return nil
}
