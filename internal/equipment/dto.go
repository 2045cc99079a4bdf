package equipment

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
)

var (
	ErrDuplicateSerial = errors.NewValidationError("Equipment with this serial number already exists", errors.ErrCodeDuplicate)
	ErrWarrantyPeriod  = errors.NewValidationError("warrantyEndDate must not be before warrantyStartDate", errors.ErrCodeInvalidDate)
)

type CreateEquipmentDTO struct {
	Name              string     `json:"name"`
	SerialNumber      *string    `json:"serialNumber,omitempty"`
	Category          int64      `json:"category"`
	Team              int64      `json:"team"`
	DefaultTechnician *int64     `json:"defaultTechnician,omitempty"`
	AssignedEmployee  *int64     `json:"assignedEmployee,omitempty"`
	Department        string     `json:"department"`
	PurchaseDate      *time.Time `json:"purchaseDate,omitempty"`
	WarrantyStartDate *time.Time `json:"warrantyStartDate,omitempty"`
	WarrantyEndDate   *time.Time `json:"warrantyEndDate,omitempty"`
	WarrantyInfo      string     `json:"warrantyInfo"`
	Location          string     `json:"location"`
	Notes             string     `json:"notes"`
	IsActive          *bool      `json:"isActive,omitempty"`
	Status            string     `json:"status"`
}

func (dto *CreateEquipmentDTO) Validate() error {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.SerialNumber = normalizeSerial(dto.SerialNumber)
	if dto.Status == "" {
		dto.Status = StatusOperational
	}

	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(255)
	v.Field("serialNumber", dto.SerialNumber).MaxLength(255)
	v.Field("category", dto.Category).Required()
	v.Field("team", dto.Team).Required()
	v.Field("status", dto.Status).OneOf(errors.ErrCodeInvalidStatus, Statuses...)
	v.Field("defaultTechnician", dto.DefaultTechnician).NonNegative()
	v.Field("assignedEmployee", dto.AssignedEmployee).NonNegative()
	if err := v.Validate(); err != nil {
		return err
	}
	return checkWarranty(dto.WarrantyStartDate, dto.WarrantyEndDate)
}

// UpdateEquipmentDTO is a partial update. An empty serialNumber clears it
// and a technician or employee id of 0 clears that assignment.
type UpdateEquipmentDTO struct {
	Name              *string    `json:"name,omitempty"`
	SerialNumber      *string    `json:"serialNumber,omitempty"`
	Category          *int64     `json:"category,omitempty"`
	Team              *int64     `json:"team,omitempty"`
	DefaultTechnician *int64     `json:"defaultTechnician,omitempty"`
	AssignedEmployee  *int64     `json:"assignedEmployee,omitempty"`
	Department        *string    `json:"department,omitempty"`
	PurchaseDate      *time.Time `json:"purchaseDate,omitempty"`
	WarrantyStartDate *time.Time `json:"warrantyStartDate,omitempty"`
	WarrantyEndDate   *time.Time `json:"warrantyEndDate,omitempty"`
	WarrantyInfo      *string    `json:"warrantyInfo,omitempty"`
	Location          *string    `json:"location,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	IsActive          *bool      `json:"isActive,omitempty"`
	Status            *string    `json:"status,omitempty"`
}

func (dto *UpdateEquipmentDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		trimmed := strings.TrimSpace(*dto.Name)
		dto.Name = &trimmed
		v.Field("name", trimmed).Required().MaxLength(255)
	}
	if dto.SerialNumber != nil {
		v.Field("serialNumber", *dto.SerialNumber).MaxLength(255)
	}
	if dto.Category != nil {
		v.Field("category", *dto.Category).Required()
	}
	if dto.Team != nil {
		v.Field("team", *dto.Team).Required()
	}
	if dto.Status != nil {
		v.Field("status", *dto.Status).Required().OneOf(errors.ErrCodeInvalidStatus, Statuses...)
	}
	v.Field("defaultTechnician", dto.DefaultTechnician).NonNegative()
	v.Field("assignedEmployee", dto.AssignedEmployee).NonNegative()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (f Filter) Validate() error {
	v := validation.NewValidator()
	v.Field("status", f.Status).OneOf(errors.ErrCodeInvalidStatus, Statuses...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func normalizeSerial(serial *string) *string {
	if serial == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*serial)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func checkWarranty(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrWarrantyPeriod
	}
	return nil
}
