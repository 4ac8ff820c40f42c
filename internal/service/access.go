package service

import (
	"context"

	"github.com/kaban-x/kaban-backend/internal/repository"
	"github.com/pkg/errors"
)

// hasProjectAccess decides the membership policy shared by every project,
// section and ticket operation: access is granted to the project owner, the
// owning team's owner, or a user holding a membership row on that team.
func hasProjectAccess(
	ctx context.Context,
	teams repository.TeamRepository,
	memberships repository.MembershipRepository,
	project *repository.Project,
	userID int64,
) (bool, error) {
	if project.OwnerID == userID {
		return true, nil
	}

	team, err := teams.Get(ctx, project.TeamID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if team.OwnerID == userID {
		return true, nil
	}

	return memberships.Exists(ctx, userID, project.TeamID)
}

// hasTeamAccess is the team-scoped variant used at project creation, before
// a project exists: team owner or member.
func hasTeamAccess(
	ctx context.Context,
	memberships repository.MembershipRepository,
	team *repository.Team,
	userID int64,
) (bool, error) {
	if team.OwnerID == userID {
		return true, nil
	}
	return memberships.Exists(ctx, userID, team.ID)
}
