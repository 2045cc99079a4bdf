package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/gearguard/internal"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	maintenanceDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/maintenance"
	"github.com/frahmantamala/gearguard/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter Filter) ([]*maintenanceDatamodel.Request, error)
	GetByID(ctx context.Context, id int64) (*maintenanceDatamodel.Request, error)
	Create(ctx context.Context, req *maintenanceDatamodel.Request) error
	// Update writes the request and, when scrapEquipment is set, marks its
	// equipment scrapped in the same transaction.
	Update(ctx context.Context, req *maintenanceDatamodel.Request, scrapEquipment bool) error
	Delete(ctx context.Context, id int64) error
	GetEquipment(ctx context.Context, id int64) (*equipmentDatamodel.Equipment, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	CountByStage(ctx context.Context) (map[string]int64, error)
	CountByType(ctx context.Context) (map[string]int64, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for completion and overdue checks.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create copies team and category from the equipment as it is now. Later
// equipment edits do not reach existing requests.
func (s *Service) Create(ctx context.Context, creator *internal.User, dto CreateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	equipment, err := s.repo.GetEquipment(ctx, dto.Equipment)
	if err != nil {
		s.logger.Error("failed to get equipment", "error", err, "equipment_id", dto.Equipment)
		return nil, internal.NewInternalError("failed to get equipment", err)
	}
	if equipment == nil {
		return nil, internal.ErrEquipmentNotFound
	}

	technicianID := equipment.DefaultTechnicianID
	if dto.AssignedTechnician != nil && *dto.AssignedTechnician > 0 {
		if err := s.ensureUser(ctx, *dto.AssignedTechnician); err != nil {
			return nil, err
		}
		technicianID = dto.AssignedTechnician
	}

	teamID := equipment.TeamID
	categoryID := equipment.CategoryID
	row := &maintenanceDatamodel.Request{
		Subject:              dto.Subject,
		Description:          dto.Description,
		EquipmentID:          equipment.ID,
		CategoryID:           &categoryID,
		TeamID:               &teamID,
		RequestType:          dto.RequestType,
		Stage:                StageNew,
		Priority:             dto.Priority,
		ScheduledDate:        *dto.ScheduledDate,
		AssignedTechnicianID: technicianID,
		IsActive:             true,
	}
	if dto.Duration != nil {
		row.DurationHours = *dto.Duration
	}
	if creator != nil {
		createdBy := creator.ID
		row.CreatedByID = &createdBy
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create maintenance request", "error", err, "equipment_id", equipment.ID)
		return nil, internal.NewInternalError("failed to create maintenance request", err)
	}

	s.logger.Info("maintenance request created",
		"request_id", row.ID,
		"equipment_id", row.EquipmentID,
		"team_id", teamID,
		"type", row.RequestType)

	s.publish(ctx, events.NewRequestCreatedEvent(row.ID, row.EquipmentID, row.RequestType, row.Priority))
	return s.GetByID(ctx, row.ID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Request, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row, s.now()), nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Request, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list maintenance requests", "error", err)
		return nil, internal.NewInternalError("failed to list maintenance requests", err)
	}
	return FromDataModelSlice(rows, s.now()), nil
}

// ListByStage feeds one kanban column.
func (s *Service) ListByStage(ctx context.Context, stage string) ([]*Request, error) {
	if err := validateStage(stage); err != nil {
		return nil, err
	}
	return s.List(ctx, Filter{Stage: stage})
}

// ListMine returns requests the user created or is assigned to.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]*Request, error) {
	return s.List(ctx, Filter{Involving: &userID})
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Subject != nil {
		row.Subject = *dto.Subject
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.RequestType != nil {
		row.RequestType = *dto.RequestType
	}
	if dto.Priority != nil {
		row.Priority = *dto.Priority
	}
	if dto.ScheduledDate != nil {
		row.ScheduledDate = *dto.ScheduledDate
	}
	if dto.Duration != nil {
		row.DurationHours = *dto.Duration
	}
	if dto.AssignedTechnician != nil {
		row.AssignedTechnician = nil
		if *dto.AssignedTechnician == 0 {
			row.AssignedTechnicianID = nil
		} else {
			if err := s.ensureUser(ctx, *dto.AssignedTechnician); err != nil {
				return nil, err
			}
			technicianID := *dto.AssignedTechnician
			row.AssignedTechnicianID = &technicianID
		}
	}

	fromStage := row.Stage
	stageChanged := false
	if dto.Stage != nil {
		stageChanged = moveTo(row, *dto.Stage, s.now())
	}
	scrapped := stageChanged && row.Stage == StageScrap

	if err := s.repo.Update(ctx, row, scrapped); err != nil {
		s.logger.Error("failed to update maintenance request", "error", err, "request_id", id)
		return nil, internal.NewInternalError("failed to update maintenance request", err)
	}

	if stageChanged {
		s.logger.Info("maintenance request stage changed",
			"request_id", id,
			"from", fromStage,
			"to", row.Stage)
		s.publish(ctx, events.NewRequestStageChangedEvent(id, row.EquipmentID, fromStage, row.Stage))
	}
	if scrapped {
		s.logger.Info("equipment scrapped", "equipment_id", row.EquipmentID, "request_id", id)
		s.publish(ctx, events.NewEquipmentScrappedEvent(row.EquipmentID, id))
	}

	return s.GetByID(ctx, id)
}

// UpdateStage moves a request between kanban columns under the same rules
// as Update.
func (s *Service) UpdateStage(ctx context.Context, id int64, dto UpdateStageDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	stage := dto.Stage
	return s.Update(ctx, id, UpdateRequestDTO{Stage: &stage})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete maintenance request", "error", err, "request_id", id)
		return internal.NewInternalError("failed to delete maintenance request", err)
	}

	s.logger.Info("maintenance request deleted", "request_id", id)
	return nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	byStage, err := s.repo.CountByStage(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count requests by stage", err)
	}
	byType, err := s.repo.CountByType(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count requests by type", err)
	}
	overdue, err := s.repo.CountOverdue(ctx, s.now())
	if err != nil {
		return nil, internal.NewInternalError("failed to count overdue requests", err)
	}

	stats := &Stats{
		ByStage: make(map[string]int64, len(Stages)),
		ByType:  make(map[string]int64, len(RequestTypes)),
		Overdue: overdue,
	}
	for _, stage := range Stages {
		stats.ByStage[stage] = byStage[stage]
		stats.Total += byStage[stage]
	}
	for _, t := range RequestTypes {
		stats.ByType[t] = byType[t]
	}
	return stats, nil
}

// ForEquipment lists the requests raised against one piece of equipment.
func (s *Service) ForEquipment(ctx context.Context, equipmentID int64) ([]*Request, error) {
	return s.List(ctx, Filter{EquipmentID: &equipmentID})
}

func (s *Service) load(ctx context.Context, id int64) (*maintenanceDatamodel.Request, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get maintenance request", "error", err, "request_id", id)
		return nil, internal.NewInternalError("failed to get maintenance request", err)
	}
	if row == nil {
		return nil, internal.ErrRequestNotFound
	}
	return row, nil
}

func (s *Service) ensureUser(ctx context.Context, id int64) error {
	ok, err := s.repo.UserExists(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to check technician", err)
	}
	if !ok {
		return internal.ErrUserNotFound
	}
	return nil
}

// publish runs after the write has committed; a failed handler never undoes it.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
