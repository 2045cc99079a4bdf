package postgres

import (
	"context"
	"errors"

	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	maintenanceDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/maintenance"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/team"
	"github.com/frahmantamala/gearguard/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) team.RepositoryAPI {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]*teamDatamodel.Team, error) {
	var teams []*teamDatamodel.Team
	err := r.db.WithContext(ctx).
		Preload("Members", orderMembers).
		Order("name ASC").
		Find(&teams).Error
	return teams, err
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*teamDatamodel.Team, error) {
	var t teamDatamodel.Team
	err := r.db.WithContext(ctx).Preload("Members", orderMembers).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (*teamDatamodel.Team, error) {
	var t teamDatamodel.Team
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepository) CreateWithMembers(ctx context.Context, t *teamDatamodel.Team, memberIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return err
		}
		for _, userID := range memberIDs {
			assigned, err := assign(tx, t.ID, userID)
			if err != nil {
				return err
			}
			if !assigned {
				return team.ErrAlreadyInTeam
			}
		}
		return nil
	})
}

func (r *TeamRepository) Update(ctx context.Context, t *teamDatamodel.Team) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userDatamodel.User{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&teamDatamodel.Team{}, id).Error
	})
}

func (r *TeamRepository) AssignMember(ctx context.Context, teamID, userID int64) (bool, error) {
	return assign(r.db.WithContext(ctx), teamID, userID)
}

// assign only claims users that have no team, so two concurrent
// assignments cannot both succeed.
func assign(db *gorm.DB, teamID, userID int64) (bool, error) {
	res := db.Model(&userDatamodel.User{}).
		Where("id = ? AND team_id IS NULL", userID).
		Update("team_id", teamID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ? AND team_id = ?", userID, teamID).
		Update("team_id", nil).Error
}

func (r *TeamRepository) GetUsers(ctx context.Context, ids []int64) ([]*userDatamodel.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *TeamRepository) UnassignedUsers(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("team_id IS NULL").
		Where("status = ?", user.StatusActive).
		Where("role IN ?", []string{user.RoleTechnician, user.RoleManager}).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

type countRow struct {
	TeamID int64
	Total  int64
}

func (r *TeamRepository) Counts(ctx context.Context, teamIDs []int64) (map[int64]team.Counts, error) {
	counts := make(map[int64]team.Counts, len(teamIDs))
	if len(teamIDs) == 0 {
		return counts, nil
	}

	var equipmentRows []countRow
	err := r.db.WithContext(ctx).
		Model(&equipmentDatamodel.Equipment{}).
		Select("team_id, COUNT(*) AS total").
		Where("team_id IN ?", teamIDs).
		Group("team_id").
		Scan(&equipmentRows).Error
	if err != nil {
		return nil, err
	}

	var requestRows []countRow
	err = r.db.WithContext(ctx).
		Model(&maintenanceDatamodel.Request{}).
		Select("team_id, COUNT(*) AS total").
		Where("team_id IN ?", teamIDs).
		Group("team_id").
		Scan(&requestRows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range equipmentRows {
		c := counts[row.TeamID]
		c.Equipment = row.Total
		counts[row.TeamID] = c
	}
	for _, row := range requestRows {
		c := counts[row.TeamID]
		c.Requests = row.Total
		counts[row.TeamID] = c
	}
	return counts, nil
}

func orderMembers(db *gorm.DB) *gorm.DB {
	return db.Order("name ASC")
}
