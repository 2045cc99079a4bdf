package team

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/refs"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*teamDatamodel.Team, error)
	GetByID(ctx context.Context, id int64) (*teamDatamodel.Team, error)
	GetByName(ctx context.Context, name string) (*teamDatamodel.Team, error)
	// CreateWithMembers inserts the team and claims every member in one
	// transaction. It returns ErrAlreadyInTeam if any member was taken.
	CreateWithMembers(ctx context.Context, team *teamDatamodel.Team, memberIDs []int64) error
	Update(ctx context.Context, team *teamDatamodel.Team) error
	Delete(ctx context.Context, id int64) error
	// AssignMember sets the user's team only if they have none and reports
	// whether it did.
	AssignMember(ctx context.Context, teamID, userID int64) (bool, error)
	RemoveMember(ctx context.Context, teamID, userID int64) error
	GetUsers(ctx context.Context, ids []int64) ([]*userDatamodel.User, error)
	UnassignedUsers(ctx context.Context) ([]*userDatamodel.User, error)
	Counts(ctx context.Context, teamIDs []int64) (map[int64]Counts, error)
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

func (s *Service) List(ctx context.Context) ([]*Team, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list teams", "error", err)
		return nil, errors.NewInternalError("failed to list teams", err)
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	counts, err := s.repo.Counts(ctx, ids)
	if err != nil {
		return nil, errors.NewInternalError("failed to count team usage", err)
	}

	teams := make([]*Team, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, FromDataModel(row, counts[row.ID]))
	}
	return teams, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Team, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, row)
}

// Exists is used by the equipment service to check references.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// Create needs at least one technician among members, and every member must
// be free of any other team.
func (s *Service) Create(ctx context.Context, dto CreateTeamDTO) (*Team, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, dto.Name, 0); err != nil {
		return nil, err
	}

	memberIDs := uniqueIDs(dto.Members)
	members, err := s.repo.GetUsers(ctx, memberIDs)
	if err != nil {
		return nil, errors.NewInternalError("failed to load team members", err)
	}
	if len(members) != len(memberIDs) {
		return nil, errors.ErrUserNotFound
	}

	hasTechnician := false
	for _, m := range members {
		if m.TeamID != nil {
			return nil, ErrAlreadyInTeam.WithDetails(refs.FromUser(m))
		}
		if m.Role == roleTechnician {
			hasTechnician = true
		}
	}
	if !hasTechnician {
		return nil, ErrTechnicianRequired
	}

	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}
	row := &teamDatamodel.Team{
		Name:     dto.Name,
		Color:    dto.Color,
		IsActive: isActive,
	}
	if err := s.repo.CreateWithMembers(ctx, row, memberIDs); err != nil {
		if _, ok := errors.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to create team", "error", err, "name", dto.Name)
		return nil, errors.NewInternalError("failed to create team", err)
	}

	s.logger.Info("team created", "team_id", row.ID, "name", row.Name, "members", len(memberIDs))
	return s.GetByID(ctx, row.ID)
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateTeamDTO) (*Team, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil && *dto.Name != row.Name {
		if err := s.ensureNameFree(ctx, *dto.Name, id); err != nil {
			return nil, err
		}
		row.Name = *dto.Name
	}
	if dto.Color != nil {
		row.Color = *dto.Color
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update team", "error", err, "team_id", id)
		return nil, errors.NewInternalError("failed to update team", err)
	}
	return s.withCounts(ctx, row)
}

// Delete releases the members. Equipment and requests pointing at the team
// keep their reference.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete team", "error", err, "team_id", id)
		return errors.NewInternalError("failed to delete team", err)
	}

	s.logger.Info("team deleted", "team_id", id)
	return nil
}

func (s *Service) AddMember(ctx context.Context, teamID int64, dto AddMemberDTO) (*Team, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.load(ctx, teamID); err != nil {
		return nil, err
	}

	users, err := s.repo.GetUsers(ctx, []int64{dto.UserID})
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if len(users) == 0 {
		return nil, errors.ErrUserNotFound
	}

	assigned, err := s.repo.AssignMember(ctx, teamID, dto.UserID)
	if err != nil {
		s.logger.Error("failed to add team member", "error", err, "team_id", teamID, "user_id", dto.UserID)
		return nil, errors.NewInternalError("failed to add team member", err)
	}
	if !assigned {
		return nil, ErrAlreadyInTeam
	}

	s.logger.Info("team member added", "team_id", teamID, "user_id", dto.UserID)
	return s.GetByID(ctx, teamID)
}

func (s *Service) RemoveMember(ctx context.Context, teamID, userID int64) (*Team, error) {
	row, err := s.load(ctx, teamID)
	if err != nil {
		return nil, err
	}

	var member *userDatamodel.User
	for i := range row.Members {
		if row.Members[i].ID == userID {
			member = &row.Members[i]
			break
		}
	}
	if member == nil {
		return nil, ErrNotMember
	}

	if member.Role == roleTechnician && countTechnicians(row.Members) <= 1 {
		return nil, ErrLastTechnician
	}

	if err := s.repo.RemoveMember(ctx, teamID, userID); err != nil {
		s.logger.Error("failed to remove team member", "error", err, "team_id", teamID, "user_id", userID)
		return nil, errors.NewInternalError("failed to remove team member", err)
	}

	s.logger.Info("team member removed", "team_id", teamID, "user_id", userID)
	return s.GetByID(ctx, teamID)
}

// UnassignedUsers lists active technicians and managers without a team.
func (s *Service) UnassignedUsers(ctx context.Context) ([]*refs.Person, error) {
	rows, err := s.repo.UnassignedUsers(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list unassigned users", err)
	}

	people := make([]*refs.Person, 0, len(rows))
	for _, row := range rows {
		people = append(people, refs.FromUser(row))
	}
	return people, nil
}

func (s *Service) load(ctx context.Context, id int64) (*teamDatamodel.Team, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get team", "error", err, "team_id", id)
		return nil, errors.NewInternalError("failed to get team", err)
	}
	if row == nil {
		return nil, errors.ErrTeamNotFound
	}
	return row, nil
}

func (s *Service) withCounts(ctx context.Context, row *teamDatamodel.Team) (*Team, error) {
	counts, err := s.repo.Counts(ctx, []int64{row.ID})
	if err != nil {
		return nil, errors.NewInternalError("failed to count team usage", err)
	}
	return FromDataModel(row, counts[row.ID]), nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return errors.NewInternalError("failed to check team name", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateName
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
