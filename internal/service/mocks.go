package service

import (
	"context"

	"github.com/kaban-x/kaban-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *repository.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, userID int64) (*repository.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.User), args.Error(1)
}

func (m *MockUserRepository) Patch(ctx context.Context, patch *repository.UserPatch) (*repository.User, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.User), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *repository.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Get(ctx context.Context, teamID int64) (*repository.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*repository.Team, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Team), args.Error(1)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Add(ctx context.Context, userID, teamID int64) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

func (m *MockMembershipRepository) Exists(ctx context.Context, userID, teamID int64) (bool, error) {
	args := m.Called(ctx, userID, teamID)
	return args.Bool(0), args.Error(1)
}

type MockDeskRepository struct {
	mock.Mock
}

func (m *MockDeskRepository) Create(ctx context.Context, desk *repository.Desk) error {
	args := m.Called(ctx, desk)
	return args.Error(0)
}

func (m *MockDeskRepository) Get(ctx context.Context, deskID int64) (*repository.Desk, error) {
	args := m.Called(ctx, deskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Desk), args.Error(1)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *repository.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Get(ctx context.Context, projectID int64) (*repository.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Project), args.Error(1)
}

func (m *MockProjectRepository) ListForUser(ctx context.Context, userID int64) ([]*repository.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Project), args.Error(1)
}

type MockSectionRepository struct {
	mock.Mock
}

func (m *MockSectionRepository) Create(ctx context.Context, section *repository.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) GetForDesk(ctx context.Context, sectionID, deskID int64) (*repository.Section, error) {
	args := m.Called(ctx, sectionID, deskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Section), args.Error(1)
}

func (m *MockSectionRepository) ListByDesk(ctx context.Context, deskID int64) ([]*repository.Section, error) {
	args := m.Called(ctx, deskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Section), args.Error(1)
}

func (m *MockSectionRepository) Patch(ctx context.Context, patch *repository.SectionPatch) (*repository.Section, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Section), args.Error(1)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *repository.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetForDesk(ctx context.Context, ticketID, deskID int64) (*repository.Ticket, error) {
	args := m.Called(ctx, ticketID, deskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListBySection(ctx context.Context, sectionID int64) ([]*repository.Ticket, error) {
	args := m.Called(ctx, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Patch(ctx context.Context, patch *repository.TicketPatch) (*repository.Ticket, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Ticket), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendActivationEmail(ctx context.Context, email, username, token string) error {
	args := m.Called(ctx, email, username, token)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetEmail(ctx context.Context, email, username, token string) error {
	args := m.Called(ctx, email, username, token)
	return args.Error(0)
}
