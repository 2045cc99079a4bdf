package equipment

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/gearguard/internal"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	"github.com/frahmantamala/gearguard/internal/maintenance"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter Filter) ([]*equipmentDatamodel.Equipment, error)
	GetByID(ctx context.Context, id int64) (*equipmentDatamodel.Equipment, error)
	GetBySerial(ctx context.Context, serial string) (*equipmentDatamodel.Equipment, error)
	Create(ctx context.Context, e *equipmentDatamodel.Equipment) error
	Update(ctx context.Context, e *equipmentDatamodel.Equipment) error
	// Delete removes the equipment together with its maintenance requests.
	Delete(ctx context.Context, id int64) error
	UserExists(ctx context.Context, id int64) (bool, error)
}

// ReferenceChecker is satisfied by the category and team services.
type ReferenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type RequestLister interface {
	ForEquipment(ctx context.Context, equipmentID int64) ([]*maintenance.Request, error)
}

type Service struct {
	repo       RepositoryAPI
	categories ReferenceChecker
	teams      ReferenceChecker
	requests   RequestLister
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories, teams ReferenceChecker, requests RequestLister, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		teams:      teams,
		requests:   requests,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Equipment, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list equipment", "error", err)
		return nil, errors.NewInternalError("failed to list equipment", err)
	}
	return FromDataModelSlice(rows), nil
}

// GetByID includes every maintenance request raised against the equipment.
func (s *Service) GetByID(ctx context.Context, id int64) (*Equipment, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	requests, err := s.requests.ForEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	e := FromDataModel(row)
	e.MaintenanceRequests = requests
	return e, nil
}

func (s *Service) Create(ctx context.Context, dto CreateEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, dto.Category); err != nil {
		return nil, err
	}
	if err := s.checkTeam(ctx, dto.Team); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, dto.DefaultTechnician); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, dto.AssignedEmployee); err != nil {
		return nil, err
	}
	if err := s.ensureSerialFree(ctx, dto.SerialNumber, 0); err != nil {
		return nil, err
	}

	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}
	row := &equipmentDatamodel.Equipment{
		Name:                dto.Name,
		SerialNumber:        dto.SerialNumber,
		CategoryID:          dto.Category,
		TeamID:              dto.Team,
		DefaultTechnicianID: positive(dto.DefaultTechnician),
		AssignedEmployeeID:  positive(dto.AssignedEmployee),
		Department:          strings.TrimSpace(dto.Department),
		PurchaseDate:        dto.PurchaseDate,
		WarrantyStartDate:   dto.WarrantyStartDate,
		WarrantyEndDate:     dto.WarrantyEndDate,
		WarrantyInfo:        strings.TrimSpace(dto.WarrantyInfo),
		Location:            strings.TrimSpace(dto.Location),
		Notes:               strings.TrimSpace(dto.Notes),
		IsActive:            isActive,
		Status:              dto.Status,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create equipment", "error", err, "name", dto.Name)
		return nil, errors.NewInternalError("failed to create equipment", err)
	}

	s.logger.Info("equipment created", "equipment_id", row.ID, "name", row.Name, "team_id", row.TeamID)
	return s.GetByID(ctx, row.ID)
}

// Update never touches requests already raised: they keep the team and
// category they were created with.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	row.Category, row.Team, row.DefaultTechnician, row.AssignedEmployee = nil, nil, nil, nil

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.SerialNumber != nil {
		serial := normalizeSerial(dto.SerialNumber)
		if err := s.ensureSerialFree(ctx, serial, id); err != nil {
			return nil, err
		}
		row.SerialNumber = serial
	}
	if dto.Category != nil && *dto.Category != row.CategoryID {
		if err := s.checkCategory(ctx, *dto.Category); err != nil {
			return nil, err
		}
		row.CategoryID = *dto.Category
	}
	if dto.Team != nil && *dto.Team != row.TeamID {
		if err := s.checkTeam(ctx, *dto.Team); err != nil {
			return nil, err
		}
		row.TeamID = *dto.Team
	}
	if dto.DefaultTechnician != nil {
		if err := s.checkUser(ctx, dto.DefaultTechnician); err != nil {
			return nil, err
		}
		row.DefaultTechnicianID = positive(dto.DefaultTechnician)
	}
	if dto.AssignedEmployee != nil {
		if err := s.checkUser(ctx, dto.AssignedEmployee); err != nil {
			return nil, err
		}
		row.AssignedEmployeeID = positive(dto.AssignedEmployee)
	}
	if dto.Department != nil {
		row.Department = strings.TrimSpace(*dto.Department)
	}
	if dto.PurchaseDate != nil {
		row.PurchaseDate = dto.PurchaseDate
	}
	if dto.WarrantyStartDate != nil {
		row.WarrantyStartDate = dto.WarrantyStartDate
	}
	if dto.WarrantyEndDate != nil {
		row.WarrantyEndDate = dto.WarrantyEndDate
	}
	if err := checkWarranty(row.WarrantyStartDate, row.WarrantyEndDate); err != nil {
		return nil, err
	}
	if dto.WarrantyInfo != nil {
		row.WarrantyInfo = strings.TrimSpace(*dto.WarrantyInfo)
	}
	if dto.Location != nil {
		row.Location = strings.TrimSpace(*dto.Location)
	}
	if dto.Notes != nil {
		row.Notes = strings.TrimSpace(*dto.Notes)
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if dto.Status != nil {
		row.Status = *dto.Status
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update equipment", "error", err, "equipment_id", id)
		return nil, errors.NewInternalError("failed to update equipment", err)
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete equipment", "error", err, "equipment_id", id)
		return errors.NewInternalError("failed to delete equipment", err)
	}

	s.logger.Info("equipment deleted", "equipment_id", id)
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*equipmentDatamodel.Equipment, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get equipment", "error", err, "equipment_id", id)
		return nil, errors.NewInternalError("failed to get equipment", err)
	}
	if row == nil {
		return nil, errors.ErrEquipmentNotFound
	}
	return row, nil
}

func (s *Service) checkCategory(ctx context.Context, id int64) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return errors.NewInternalError("failed to check category", err)
	}
	if !ok {
		return errors.ErrCategoryNotFound
	}
	return nil
}

func (s *Service) checkTeam(ctx context.Context, id int64) error {
	ok, err := s.teams.Exists(ctx, id)
	if err != nil {
		return errors.NewInternalError("failed to check team", err)
	}
	if !ok {
		return errors.ErrTeamNotFound
	}
	return nil
}

func (s *Service) checkUser(ctx context.Context, id *int64) error {
	if id == nil || *id == 0 {
		return nil
	}
	ok, err := s.repo.UserExists(ctx, *id)
	if err != nil {
		return errors.NewInternalError("failed to check user", err)
	}
	if !ok {
		return errors.ErrUserNotFound
	}
	return nil
}

func (s *Service) ensureSerialFree(ctx context.Context, serial *string, selfID int64) error {
	if serial == nil {
		return nil
	}
	existing, err := s.repo.GetBySerial(ctx, *serial)
	if err != nil {
		return errors.NewInternalError("failed to check serial number", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateSerial
	}
	return nil
}

func positive(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	v := *id
	return &v
}
