package service

import (
	"context"

	"github.com/kaban-x/kaban-backend/internal/model"
	"github.com/kaban-x/kaban-backend/internal/repository"
	"github.com/kaban-x/kaban-backend/pkg/logger"
	"go.uber.org/zap"
)

type TeamService struct {
	teams repository.TeamRepository
}

func NewTeamService() *TeamService {
	return &TeamService{}
}

// CreateTeam creates a team owned by the caller. Ownership is the implicit
// membership: no join row is written for the owner.
func (t *TeamService) CreateTeam(ctx context.Context, ownerID int64, name string) (*model.Team, *Error) {
	l := logger.FromContext(ctx)

	team := &repository.Team{
		Name:    name,
		OwnerID: ownerID,
	}

	if err := t.teams.Create(ctx, team); err != nil {
		l.Error("failed to create team", zap.String("team_name", name), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create team")
	}

	l.Info("team created", zap.Int64("team_id", team.ID), zap.String("team_name", team.Name))

	return teamToModel(team), nil
}

func (t *TeamService) ListTeams(ctx context.Context, ownerID int64) ([]*model.Team, *Error) {
	l := logger.FromContext(ctx)

	repoTeams, err := t.teams.ListByOwner(ctx, ownerID)
	if err != nil {
		l.Error("failed to list teams", zap.Int64("owner_id", ownerID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list teams")
	}

	teams := make([]*model.Team, 0, len(repoTeams))
	for _, team := range repoTeams {
		teams = append(teams, teamToModel(team))
	}

	return teams, nil
}

func (t *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	t.teams = r
	return t
}

func teamToModel(t *repository.Team) *model.Team {
	return &model.Team{
		ID:        t.ID,
		Name:      t.Name,
		OwnerID:   t.OwnerID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
