package postgres

import (
	"context"
	"errors"
	"strings"

	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	maintenanceDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/maintenance"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/equipment"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) equipment.RepositoryAPI {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Team").
		Preload("DefaultTechnician").
		Preload("AssignedEmployee")
}

func (r *EquipmentRepository) List(ctx context.Context, filter equipment.Filter) ([]*equipmentDatamodel.Equipment, error) {
	query := r.withRefs(ctx)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(serial_number) LIKE ?)", pattern, pattern)
	}

	var rows []*equipmentDatamodel.Equipment
	err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id int64) (*equipmentDatamodel.Equipment, error) {
	var e equipmentDatamodel.Equipment
	err := r.withRefs(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) GetBySerial(ctx context.Context, serial string) (*equipmentDatamodel.Equipment, error) {
	var e equipmentDatamodel.Equipment
	err := r.db.WithContext(ctx).Where("serial_number = ?", serial).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) Create(ctx context.Context, e *equipmentDatamodel.Equipment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *EquipmentRepository) Update(ctx context.Context, e *equipmentDatamodel.Equipment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
}

func (r *EquipmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("equipment_id = ?", id).Delete(&maintenanceDatamodel.Request{}).Error; err != nil {
			return err
		}
		return tx.Delete(&equipmentDatamodel.Equipment{}, id).Error
	})
}

func (r *EquipmentRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
