package service

import (
	"context"

	"github.com/kaban-x/kaban-backend/internal/model"
	"github.com/kaban-x/kaban-backend/internal/repository"
	"github.com/kaban-x/kaban-backend/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// BoardService mutates a project's board: its sections and tickets. Every
// operation is gated by the project membership policy, and tickets can only
// sit on sections of the project's own desk.
type BoardService struct {
	projects    repository.ProjectRepository
	teams       repository.TeamRepository
	memberships repository.MembershipRepository
	sections    repository.SectionRepository
	tickets     repository.TicketRepository
}

func NewBoardService() *BoardService {
	return &BoardService{}
}

func (b *BoardService) CreateSection(ctx context.Context, userID, projectID int64, in *model.SectionCreate) (*model.Section, *Error) {
	l := logger.FromContext(ctx)

	project, serr := b.loadAccessibleProject(ctx, userID, projectID)
	if serr != nil {
		return nil, serr
	}

	section := &repository.Section{
		DeskID:    project.DeskID,
		Name:      in.Name,
		SortOrder: in.Order,
	}
	if err := b.sections.Create(ctx, section); err != nil {
		l.Error("failed to create section", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create section")
	}

	l.Info("section created",
		zap.Int64("section_id", section.ID),
		zap.Int64("desk_id", section.DeskID))

	return sectionToModel(section), nil
}

// UpdateSection patches name and order. Last write wins; there is no
// version check on concurrent edits.
func (b *BoardService) UpdateSection(ctx context.Context, userID, projectID, sectionID int64, in *model.SectionUpdate) (*model.Section, *Error) {
	l := logger.FromContext(ctx)

	project, serr := b.loadAccessibleProject(ctx, userID, projectID)
	if serr != nil {
		return nil, serr
	}

	section, err := b.sections.Patch(ctx, &repository.SectionPatch{
		ID:        sectionID,
		DeskID:    project.DeskID,
		Name:      in.Name,
		SortOrder: in.Order,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeNotFound, "section not found")
	}
	if err != nil {
		l.Error("failed to update section", zap.Int64("section_id", sectionID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to update section")
	}

	return sectionToModel(section), nil
}

func (b *BoardService) CreateTicket(ctx context.Context, userID, projectID int64, in *model.TicketCreate) (*model.Ticket, *Error) {
	l := logger.FromContext(ctx)

	project, serr := b.loadAccessibleProject(ctx, userID, projectID)
	if serr != nil {
		return nil, serr
	}

	// The target section must be a column of this project's desk.
	_, err := b.sections.GetForDesk(ctx, in.SectionID, project.DeskID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeNotFound, "section not found or doesn't belong to this project")
	}
	if err != nil {
		l.Error("failed to get section", zap.Int64("section_id", in.SectionID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create task")
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	complexity := in.Complexity
	if complexity == 0 {
		complexity = 1
	}

	ticket := &repository.Ticket{
		Name:       in.Name,
		Task:       in.Task,
		Priority:   priority,
		Complexity: complexity,
		SectionID:  in.SectionID,
	}
	if err = b.tickets.Create(ctx, ticket); err != nil {
		l.Error("failed to create ticket", zap.Int64("section_id", in.SectionID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create task")
	}

	l.Info("ticket created",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("section_id", ticket.SectionID))

	return ticketToModel(ticket), nil
}

// UpdateTicket patches a ticket; moving it to another section is allowed
// only within the same desk. Last write wins.
func (b *BoardService) UpdateTicket(ctx context.Context, userID, projectID, ticketID int64, in *model.TicketUpdate) (*model.Ticket, *Error) {
	l := logger.FromContext(ctx)

	project, serr := b.loadAccessibleProject(ctx, userID, projectID)
	if serr != nil {
		return nil, serr
	}

	_, err := b.tickets.GetForDesk(ctx, ticketID, project.DeskID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeNotFound, "task not found")
	}
	if err != nil {
		l.Error("failed to get ticket", zap.Int64("ticket_id", ticketID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to update task")
	}

	if in.SectionID != nil {
		_, err = b.sections.GetForDesk(ctx, *in.SectionID, project.DeskID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewServiceError(ErrorCodeSectionMismatch, "section doesn't belong to this project")
		}
		if err != nil {
			l.Error("failed to get section", zap.Int64("section_id", *in.SectionID), zap.Error(err))
			return nil, NewServiceError(ErrorCodeUnspecified, "failed to update task")
		}
	}

	ticket, err := b.tickets.Patch(ctx, &repository.TicketPatch{
		ID:         ticketID,
		Name:       in.Name,
		Task:       in.Task,
		Priority:   in.Priority,
		Complexity: in.Complexity,
		SectionID:  in.SectionID,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeNotFound, "task not found")
	}
	if err != nil {
		l.Error("failed to update ticket", zap.Int64("ticket_id", ticketID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to update task")
	}

	return ticketToModel(ticket), nil
}

func (b *BoardService) loadAccessibleProject(ctx context.Context, userID, projectID int64) (*repository.Project, *Error) {
	l := logger.FromContext(ctx)

	project, err := b.projects.Get(ctx, projectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeNotFound, "project not found")
	}
	if err != nil {
		l.Error("failed to get project", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get project")
	}

	ok, err := hasProjectAccess(ctx, b.teams, b.memberships, project, userID)
	if err != nil {
		l.Error("failed to check project access", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to check project access")
	}
	if !ok {
		return nil, NewServiceError(ErrorCodeForbidden, "you don't have access to this project")
	}

	return project, nil
}

func (b *BoardService) WithProjectRepo(r repository.ProjectRepository) *BoardService {
	b.projects = r
	return b
}

func (b *BoardService) WithTeamRepo(r repository.TeamRepository) *BoardService {
	b.teams = r
	return b
}

func (b *BoardService) WithMembershipRepo(r repository.MembershipRepository) *BoardService {
	b.memberships = r
	return b
}

func (b *BoardService) WithSectionRepo(r repository.SectionRepository) *BoardService {
	b.sections = r
	return b
}

func (b *BoardService) WithTicketRepo(r repository.TicketRepository) *BoardService {
	b.tickets = r
	return b
}
