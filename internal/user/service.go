package user

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/gearguard/internal"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	List(ctx context.Context) ([]*userDatamodel.User, error)
	Create(ctx context.Context, user *userDatamodel.User) error
	UpdateRole(ctx context.Context, id int64, role string) error
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns every account, newest first.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, errors.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) UpgradeRole(ctx context.Context, id int64, dto UpgradeRoleDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	target, err := s.mutableTarget(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRole(ctx, id, dto.Role); err != nil {
		s.logger.Error("failed to update role", "error", err, "user_id", id)
		return nil, errors.NewInternalError("failed to update role", err)
	}

	s.logger.Info("user role changed", "user_id", id, "from", target.Role, "to", dto.Role)
	target.Role = dto.Role
	return target, nil
}

func (s *Service) Disable(ctx context.Context, id int64) (*User, error) {
	return s.setStatus(ctx, id, StatusDisabled)
}

func (s *Service) Enable(ctx context.Context, id int64) (*User, error) {
	return s.setStatus(ctx, id, StatusActive)
}

func (s *Service) setStatus(ctx context.Context, id int64, status string) (*User, error) {
	target, err := s.mutableTarget(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error("failed to update user status", "error", err, "user_id", id, "status", status)
		return nil, errors.NewInternalError("failed to update user status", err)
	}

	s.logger.Info("user status changed", "user_id", id, "status", status)
	target.Status = status
	return target, nil
}

// mutableTarget loads a user that admin operations may change. Admin
// accounts are never modified.
func (s *Service) mutableTarget(ctx context.Context, id int64) (*User, error) {
	target, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin() {
		s.logger.Warn("attempt to modify admin account", "user_id", id)
		return nil, errors.ErrAdminProtected
	}
	return target, nil
}
