package category

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/gearguard/internal"
	categoryDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.EquipmentCategory, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.EquipmentCategory, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.EquipmentCategory, error)
	Create(ctx context.Context, category *categoryDatamodel.EquipmentCategory) error
	Update(ctx context.Context, category *categoryDatamodel.EquipmentCategory) error
	Delete(ctx context.Context, id int64) error
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

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err)
		return nil, errors.NewInternalError("failed to list categories", err)
	}

	categories := make([]*Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, FromDataModel(row))
	}
	return categories, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get category", "error", err, "category_id", id)
		return nil, errors.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return nil, errors.ErrCategoryNotFound
	}
	return FromDataModel(row), nil
}

// Exists is used by the equipment service to check references.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

func (s *Service) Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, dto.Name, 0); err != nil {
		return nil, err
	}

	row := ToDataModel(NewCategory(dto.Name, dto.Description))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create category", "error", err, "name", dto.Name)
		return nil, errors.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil && *dto.Name != current.Name {
		if err := s.ensureNameFree(ctx, *dto.Name, id); err != nil {
			return nil, err
		}
	}

	current.Apply(dto)
	row := ToDataModel(current)
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, errors.NewInternalError("failed to update category", err)
	}

	return FromDataModel(row), nil
}

// Delete removes the category. Equipment still pointing at it keeps a
// dangling reference.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return errors.NewInternalError("failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return errors.NewInternalError("failed to check category name", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateName
	}
	return nil
}
