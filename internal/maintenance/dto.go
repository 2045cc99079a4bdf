package maintenance

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
)

var ErrInvalidDateRange = errors.NewValidationError("from must not be after to", errors.ErrCodeInvalidDate)

type CreateRequestDTO struct {
	Subject            string     `json:"subject"`
	Description        string     `json:"description"`
	Equipment          int64      `json:"equipment"`
	RequestType        string     `json:"requestType"`
	Priority           string     `json:"priority"`
	ScheduledDate      *time.Time `json:"scheduledDate"`
	Duration           *float64   `json:"duration,omitempty"`
	AssignedTechnician *int64     `json:"assignedTechnician,omitempty"`
}

func (dto *CreateRequestDTO) Validate() error {
	dto.Subject = strings.TrimSpace(dto.Subject)
	dto.Description = strings.TrimSpace(dto.Description)
	if dto.Priority == "" {
		dto.Priority = PriorityNormal
	}

	v := validation.NewValidator()
	v.Field("subject", dto.Subject).Required().MaxLength(255)
	v.Field("equipment", dto.Equipment).Required()
	v.Field("requestType", dto.RequestType).Required().OneOf(errors.ErrCodeInvalidType, RequestTypes...)
	v.Field("priority", dto.Priority).OneOf(errors.ErrCodeInvalidPriority, Priorities...)
	v.Field("scheduledDate", dto.ScheduledDate).Required()
	v.Field("duration", dto.Duration).NonNegative()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateRequestDTO is a partial update. An assignedTechnician of 0 clears
// the assignment.
type UpdateRequestDTO struct {
	Subject            *string    `json:"subject,omitempty"`
	Description        *string    `json:"description,omitempty"`
	RequestType        *string    `json:"requestType,omitempty"`
	Priority           *string    `json:"priority,omitempty"`
	Stage              *string    `json:"stage,omitempty"`
	ScheduledDate      *time.Time `json:"scheduledDate,omitempty"`
	Duration           *float64   `json:"duration,omitempty"`
	AssignedTechnician *int64     `json:"assignedTechnician,omitempty"`
}

func (dto *UpdateRequestDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Subject != nil {
		trimmed := strings.TrimSpace(*dto.Subject)
		dto.Subject = &trimmed
		v.Field("subject", trimmed).Required().MaxLength(255)
	}
	if dto.RequestType != nil {
		v.Field("requestType", *dto.RequestType).Required().OneOf(errors.ErrCodeInvalidType, RequestTypes...)
	}
	if dto.Priority != nil {
		v.Field("priority", *dto.Priority).Required().OneOf(errors.ErrCodeInvalidPriority, Priorities...)
	}
	if dto.Stage != nil {
		v.Field("stage", *dto.Stage).Required().OneOf(errors.ErrCodeInvalidStage, Stages...)
	}
	if dto.ScheduledDate != nil {
		v.Field("scheduledDate", *dto.ScheduledDate).Required()
	}
	v.Field("duration", dto.Duration).NonNegative()
	v.Field("assignedTechnician", dto.AssignedTechnician).NonNegative()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStageDTO struct {
	Stage string `json:"stage"`
}

func (dto UpdateStageDTO) Validate() error {
	return validateStage(dto.Stage)
}

func validateStage(stage string) error {
	v := validation.NewValidator()
	v.Field("stage", stage).Required().OneOf(errors.ErrCodeInvalidStage, Stages...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (f Filter) Validate() error {
	v := validation.NewValidator()
	v.Field("stage", f.Stage).OneOf(errors.ErrCodeInvalidStage, Stages...)
	v.Field("type", f.RequestType).OneOf(errors.ErrCodeInvalidType, RequestTypes...)
	if err := v.Validate(); err != nil {
		return err
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return ErrInvalidDateRange
	}
	return nil
}
