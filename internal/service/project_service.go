package service

import (
	"context"
	"fmt"

	"github.com/kaban-x/kaban-backend/internal/db"
	"github.com/kaban-x/kaban-backend/internal/model"
	"github.com/kaban-x/kaban-backend/internal/repository"
	"github.com/kaban-x/kaban-backend/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// defaultSections are the board columns every new project starts with.
var defaultSections = []struct {
	name  string
	order int
}{
	{"To Do", 1},
	{"In Progress", 2},
	{"Done", 3},
}

type ProjectService struct {
	tx db.Transactor

	projects    repository.ProjectRepository
	teams       repository.TeamRepository
	memberships repository.MembershipRepository
	desks       repository.DeskRepository
	sections    repository.SectionRepository
	tickets     repository.TicketRepository
	users       repository.UserRepository
}

func NewProjectService(tx db.Transactor) *ProjectService {
	return &ProjectService{tx: tx}
}

// CreateProject provisions the desk, the default sections and the project
// row as one transaction, so a board is never observable half-built.
func (p *ProjectService) CreateProject(ctx context.Context, userID int64, in *model.ProjectCreate) (*model.Project, *Error) {
	l := logger.FromContext(ctx)

	project := &model.Project{}

	err := p.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		team, err := p.teams.Get(txCtx, in.TeamID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "team not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get team")
		}

		ok, err := hasTeamAccess(txCtx, p.memberships, team, userID)
		if err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to check team membership")
		}
		if !ok {
			l.Warn("project creation denied",
				zap.Int64("user_id", userID),
				zap.Int64("team_id", in.TeamID))
			return NewServiceError(ErrorCodeForbidden, "you are not a member of this team")
		}

		desk := &repository.Desk{
			Name:    fmt.Sprintf("%s Board", in.Name),
			OwnerID: userID,
		}
		if err = p.desks.Create(txCtx, desk); err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to create desk")
		}

		for _, s := range defaultSections {
			if err = p.sections.Create(txCtx, &repository.Section{
				DeskID:    desk.ID,
				Name:      s.name,
				SortOrder: s.order,
			}); err != nil {
				return NewServiceError(ErrorCodeUnspecified, "failed to create default sections")
			}
		}

		repoProject := &repository.Project{
			Name:        in.Name,
			Description: in.Description,
			TeamID:      in.TeamID,
			DeskID:      desk.ID,
			OwnerID:     userID,
		}
		if err = p.projects.Create(txCtx, repoProject); err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to create project")
		}

		*project = *projectToModel(repoProject)

		l.Info("project created",
			zap.Int64("project_id", repoProject.ID),
			zap.Int64("desk_id", desk.ID),
			zap.Int64("team_id", in.TeamID))

		return nil
	})

	var res *Error
	if errors.As(err, &res) {
		return nil, res
	}
	if err != nil {
		l.Error("project creation transaction failed", zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create project")
	}

	return project, nil
}

func (p *ProjectService) ListProjects(ctx context.Context, userID int64) ([]*model.Project, *Error) {
	l := logger.FromContext(ctx)

	repoProjects, err := p.projects.ListForUser(ctx, userID)
	if err != nil {
		l.Error("failed to list projects", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list projects")
	}

	projects := make([]*model.Project, 0, len(repoProjects))
	for _, project := range repoProjects {
		projects = append(projects, projectToModel(project))
	}

	return projects, nil
}

func (p *ProjectService) GetProject(ctx context.Context, userID, projectID int64) (*model.Project, *Error) {
	project, serr := p.loadAccessibleProject(ctx, userID, projectID)
	if serr != nil {
		return nil, serr
	}
	return projectToModel(project), nil
}

// Invite adds the user with the given email to the project's team. Only the
// project owner may invite.
func (p *ProjectService) Invite(ctx context.Context, userID, projectID int64, email string) *Error {
	l := logger.FromContext(ctx)

	err := p.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		project, err := p.projects.Get(txCtx, projectID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "project not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get project")
		}

		if project.OwnerID != userID {
			return NewServiceError(ErrorCodeForbidden, "only project owner can invite users")
		}

		invitee, err := p.users.GetByEmail(txCtx, email)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "user not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get user")
		}

		err = p.memberships.Add(txCtx, invitee.ID, project.TeamID)
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return NewServiceError(ErrorCodeAlreadyMember, "user is already a team member")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to add team member")
		}

		l.Info("user invited",
			zap.Int64("project_id", projectID),
			zap.Int64("invitee_id", invitee.ID),
			zap.Int64("team_id", project.TeamID))

		return nil
	})

	var res *Error
	if errors.As(err, &res) {
		return res
	}
	if err != nil {
		l.Error("invite transaction failed", zap.Error(err))
		return NewServiceError(ErrorCodeUnspecified, "failed to invite user")
	}

	return nil
}

// GetBoard assembles the nested board view: sections in display order, each
// with the tickets attached to it.
func (p *ProjectService) GetBoard(ctx context.Context, userID, projectID int64) (*model.Board, *Error) {
	l := logger.FromContext(ctx)

	project, serr := p.loadAccessibleProject(ctx, userID, projectID)
	if serr != nil {
		return nil, serr
	}

	desk, err := p.desks.Get(ctx, project.DeskID)
	if err != nil {
		l.Error("failed to get desk", zap.Int64("desk_id", project.DeskID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get board")
	}

	repoSections, err := p.sections.ListByDesk(ctx, project.DeskID)
	if err != nil {
		l.Error("failed to list sections", zap.Int64("desk_id", project.DeskID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get board")
	}

	boardSections := make([]*model.BoardSection, 0, len(repoSections))
	for _, section := range repoSections {
		repoTickets, err := p.tickets.ListBySection(ctx, section.ID)
		if err != nil {
			l.Error("failed to list tickets", zap.Int64("section_id", section.ID), zap.Error(err))
			return nil, NewServiceError(ErrorCodeUnspecified, "failed to get board")
		}

		tickets := make([]*model.Ticket, 0, len(repoTickets))
		for _, ticket := range repoTickets {
			tickets = append(tickets, ticketToModel(ticket))
		}

		boardSections = append(boardSections, &model.BoardSection{
			Section: *sectionToModel(section),
			Tickets: tickets,
		})
	}

	return &model.Board{
		DeskID:   desk.ID,
		DeskName: desk.Name,
		Sections: boardSections,
	}, nil
}

// loadAccessibleProject fetches a project and applies the membership
// policy. 404 when missing, 403 when the caller has no access.
func (p *ProjectService) loadAccessibleProject(ctx context.Context, userID, projectID int64) (*repository.Project, *Error) {
	l := logger.FromContext(ctx)

	project, err := p.projects.Get(ctx, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeNotFound, "project not found")
	}
	if err != nil {
		l.Error("failed to get project", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get project")
	}

	ok, err := hasProjectAccess(ctx, p.teams, p.memberships, project, userID)
	if err != nil {
		l.Error("failed to check project access", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to check project access")
	}
	if !ok {
		return nil, NewServiceError(ErrorCodeForbidden, "you don't have access to this project")
	}

	return project, nil
}

func (p *ProjectService) WithProjectRepo(r repository.ProjectRepository) *ProjectService {
	p.projects = r
	return p
}

func (p *ProjectService) WithTeamRepo(r repository.TeamRepository) *ProjectService {
	p.teams = r
	return p
}

func (p *ProjectService) WithMembershipRepo(r repository.MembershipRepository) *ProjectService {
	p.memberships = r
	return p
}

func (p *ProjectService) WithDeskRepo(r repository.DeskRepository) *ProjectService {
	p.desks = r
	return p
}

func (p *ProjectService) WithSectionRepo(r repository.SectionRepository) *ProjectService {
	p.sections = r
	return p
}

func (p *ProjectService) WithTicketRepo(r repository.TicketRepository) *ProjectService {
	p.tickets = r
	return p
}

func (p *ProjectService) WithUserRepo(r repository.UserRepository) *ProjectService {
	p.users = r
	return p
}

func projectToModel(pr *repository.Project) *model.Project {
	return &model.Project{
		ID:          pr.ID,
		Name:        pr.Name,
		Description: pr.Description,
		TeamID:      pr.TeamID,
		DeskID:      pr.DeskID,
		OwnerID:     pr.OwnerID,
		CreatedAt:   pr.CreatedAt,
		UpdatedAt:   pr.UpdatedAt,
	}
}

func sectionToModel(s *repository.Section) *model.Section {
	return &model.Section{
		ID:        s.ID,
		DeskID:    s.DeskID,
		Name:      s.Name,
		Order:     s.SortOrder,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ticketToModel(t *repository.Ticket) *model.Ticket {
	return &model.Ticket{
		ID:         t.ID,
		Name:       t.Name,
		Task:       t.Task,
		Priority:   t.Priority,
		Complexity: t.Complexity,
		SectionID:  t.SectionID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
