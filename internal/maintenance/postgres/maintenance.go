package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	maintenanceDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/maintenance"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Equipment").
		Preload("Category").
		Preload("Team").
		Preload("AssignedTechnician").
		Preload("CreatedBy")
}

func (r *RequestRepository) List(ctx context.Context, filter maintenance.Filter) ([]*maintenanceDatamodel.Request, error) {
	query := r.withRefs(ctx)

	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.RequestType != "" {
		query = query.Where("request_type = ?", filter.RequestType)
	}
	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}
	if filter.EquipmentID != nil {
		query = query.Where("equipment_id = ?", *filter.EquipmentID)
	}
	if filter.TechnicianID != nil {
		query = query.Where("assigned_technician_id = ?", *filter.TechnicianID)
	}
	if filter.Involving != nil {
		query = query.Where("(created_by_id = ? OR assigned_technician_id = ?)", *filter.Involving, *filter.Involving)
	}
	if filter.From != nil {
		query = query.Where("scheduled_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("scheduled_date <= ?", *filter.To)
	}

	var requests []*maintenanceDatamodel.Request
	err := query.Order("scheduled_date DESC").Order("id DESC").Find(&requests).Error
	return requests, err
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*maintenanceDatamodel.Request, error) {
	var req maintenanceDatamodel.Request
	err := r.withRefs(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *maintenanceDatamodel.Request) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
}

func (r *RequestRepository) Update(ctx context.Context, req *maintenanceDatamodel.Request, scrapEquipment bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(req).Error; err != nil {
			return err
		}
		if !scrapEquipment {
			return nil
		}

		res := tx.Model(&equipmentDatamodel.Equipment{}).
			Where("id = ?", req.EquipmentID).
			Update("status", equipmentDatamodel.StatusScrapped)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("equipment %d not found", req.EquipmentID)
		}
		return nil
	})
}

func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&maintenanceDatamodel.Request{}, id).Error
}

func (r *RequestRepository) GetEquipment(ctx context.Context, id int64) (*equipmentDatamodel.Equipment, error) {
	var e equipmentDatamodel.Equipment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *RequestRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

type bucketCount struct {
	Bucket string
	Total  int64
}

func (r *RequestRepository) countBy(ctx context.Context, column string) (map[string]int64, error) {
	var rows []bucketCount
	err := r.db.WithContext(ctx).
		Model(&maintenanceDatamodel.Request{}).
		Select(column + " AS bucket, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Bucket] = row.Total
	}
	return counts, nil
}

func (r *RequestRepository) CountByStage(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, "stage")
}

func (r *RequestRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, "request_type")
}

func (r *RequestRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&maintenanceDatamodel.Request{}).
		Where("stage NOT IN ?", []string{maintenance.StageRepaired, maintenance.StageScrap}).
		Where("scheduled_date < ?", now).
		Count(&n).Error
	return n, err
}
