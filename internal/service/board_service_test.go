package service

import (
	"context"
	"testing"

	"github.com/kaban-x/kaban-backend/internal/model"
	"github.com/kaban-x/kaban-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type boardServiceMocks struct {
	projects    *MockProjectRepository
	teams       *MockTeamRepository
	memberships *MockMembershipRepository
	sections    *MockSectionRepository
	tickets     *MockTicketRepository
}

func newBoardService() (*BoardService, *boardServiceMocks) {
	m := &boardServiceMocks{
		projects:    new(MockProjectRepository),
		teams:       new(MockTeamRepository),
		memberships: new(MockMembershipRepository),
		sections:    new(MockSectionRepository),
		tickets:     new(MockTicketRepository),
	}

	service := NewBoardService().
		WithProjectRepo(m.projects).
		WithTeamRepo(m.teams).
		WithMembershipRepo(m.memberships).
		WithSectionRepo(m.sections).
		WithTicketRepo(m.tickets)

	return service, m
}

func (m *boardServiceMocks) assertExpectations(t *testing.T) {
	m.projects.AssertExpectations(t)
	m.teams.AssertExpectations(t)
	m.memberships.AssertExpectations(t)
	m.sections.AssertExpectations(t)
	m.tickets.AssertExpectations(t)
}

// testProject is the accessible project used across board tests; user 1 owns it.
var testProject = &repository.Project{ID: 42, TeamID: 10, DeskID: 100, OwnerID: 1}

func TestBoardService_CreateSection(t *testing.T) {
	tests := []struct {
		name          string
		userID        int64
		setupMocks    func(*boardServiceMocks)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:   "success",
			userID: 1,
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.sections.On("Create", mock.Anything, mock.MatchedBy(func(s *repository.Section) bool {
					return s.DeskID == 100 && s.Name == "Review" && s.SortOrder == 4
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*repository.Section).ID = 9
				}).Return(nil)
			},
			expectedError: false,
		},
		{
			name:   "failure: no access",
			userID: 99,
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.teams.On("Get", mock.Anything, int64(10)).Return(&repository.Team{ID: 10, OwnerID: 1}, nil)
				m.memberships.On("Exists", mock.Anything, int64(99), int64(10)).Return(false, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeForbidden,
		},
		{
			name:   "failure: project not found",
			userID: 1,
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mocks := newBoardService()

			tt.setupMocks(mocks)

			got, err := service.CreateSection(context.Background(), tt.userID, 42, &model.SectionCreate{
				Name:  "Review",
				Order: 4,
			})

			if tt.expectedError {
				require.Error(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, int64(9), got.ID)
				assert.Equal(t, "Review", got.Name)
				assert.Equal(t, 4, got.Order)
			}

			mocks.assertExpectations(t)
		})
	}
}

func TestBoardService_UpdateSection(t *testing.T) {
	newName := "Backlog"

	tests := []struct {
		name          string
		setupMocks    func(*boardServiceMocks)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.sections.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.SectionPatch) bool {
					return p.ID == 3 && p.DeskID == 100 && p.Name != nil && *p.Name == "Backlog"
				})).Return(&repository.Section{ID: 3, DeskID: 100, Name: "Backlog", SortOrder: 3}, nil)
			},
			expectedError: false,
		},
		{
			name: "failure: section belongs to another desk",
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.sections.On("Patch", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mocks := newBoardService()

			tt.setupMocks(mocks)

			got, err := service.UpdateSection(context.Background(), 1, 42, 3, &model.SectionUpdate{Name: &newName})

			if tt.expectedError {
				require.Error(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, "Backlog", got.Name)
			}

			mocks.assertExpectations(t)
		})
	}
}

func TestBoardService_CreateTicket(t *testing.T) {
	tests := []struct {
		name          string
		in            *model.TicketCreate
		setupMocks    func(*boardServiceMocks)
		expectedError bool
		errorCode     ErrorCode
		check         func(*testing.T, *model.Ticket)
	}{
		{
			name: "success with explicit fields",
			in: &model.TicketCreate{
				Name:       "fix login",
				Task:       "users can't log in with + in email",
				Priority:   model.PriorityHigh,
				Complexity: 3,
				SectionID:  2,
			},
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.sections.On("GetForDesk", mock.Anything, int64(2), int64(100)).
					Return(&repository.Section{ID: 2, DeskID: 100}, nil)
				m.tickets.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
					args.Get(1).(*repository.Ticket).ID = 11
				}).Return(nil)
			},
			check: func(t *testing.T, got *model.Ticket) {
				assert.Equal(t, model.PriorityHigh, got.Priority)
				assert.Equal(t, 3, got.Complexity)
			},
		},
		{
			name: "success with defaults applied",
			in:   &model.TicketCreate{Name: "write docs", SectionID: 2},
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.sections.On("GetForDesk", mock.Anything, int64(2), int64(100)).
					Return(&repository.Section{ID: 2, DeskID: 100}, nil)
				m.tickets.On("Create", mock.Anything, mock.MatchedBy(func(tk *repository.Ticket) bool {
					return tk.Priority == model.PriorityMedium && tk.Complexity == 1
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*repository.Ticket).ID = 12
				}).Return(nil)
			},
			check: func(t *testing.T, got *model.Ticket) {
				assert.Equal(t, model.PriorityMedium, got.Priority)
				assert.Equal(t, 1, got.Complexity)
			},
		},
		{
			name: "failure: section on another desk",
			in:   &model.TicketCreate{Name: "fix login", SectionID: 55},
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.sections.On("GetForDesk", mock.Anything, int64(55), int64(100)).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mocks := newBoardService()

			tt.setupMocks(mocks)

			got, err := service.CreateTicket(context.Background(), 1, 42, tt.in)

			if tt.expectedError {
				require.Error(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				tt.check(t, got)
			}

			mocks.assertExpectations(t)
		})
	}
}

func TestBoardService_UpdateTicket(t *testing.T) {
	targetSection := int64(3)
	newName := "fix login with SSO"

	tests := []struct {
		name          string
		in            *model.TicketUpdate
		setupMocks    func(*boardServiceMocks)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success: rename only",
			in:   &model.TicketUpdate{Name: &newName},
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.tickets.On("GetForDesk", mock.Anything, int64(11), int64(100)).
					Return(&repository.Ticket{ID: 11, SectionID: 2}, nil)
				m.tickets.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.TicketPatch) bool {
					return p.ID == 11 && p.Name != nil && p.SectionID == nil
				})).Return(&repository.Ticket{ID: 11, Name: newName, SectionID: 2}, nil)
			},
			expectedError: false,
		},
		{
			name: "success: move to section on same desk",
			in:   &model.TicketUpdate{SectionID: &targetSection},
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.tickets.On("GetForDesk", mock.Anything, int64(11), int64(100)).
					Return(&repository.Ticket{ID: 11, SectionID: 2}, nil)
				m.sections.On("GetForDesk", mock.Anything, int64(3), int64(100)).
					Return(&repository.Section{ID: 3, DeskID: 100}, nil)
				m.tickets.On("Patch", mock.Anything, mock.Anything).
					Return(&repository.Ticket{ID: 11, SectionID: 3}, nil)
			},
			expectedError: false,
		},
		{
			name: "failure: move to section on another desk",
			in:   &model.TicketUpdate{SectionID: &targetSection},
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.tickets.On("GetForDesk", mock.Anything, int64(11), int64(100)).
					Return(&repository.Ticket{ID: 11, SectionID: 2}, nil)
				m.sections.On("GetForDesk", mock.Anything, int64(3), int64(100)).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeSectionMismatch,
		},
		{
			name: "failure: ticket not on this project's desk",
			in:   &model.TicketUpdate{Name: &newName},
			setupMocks: func(m *boardServiceMocks) {
				m.projects.On("Get", mock.Anything, int64(42)).Return(testProject, nil)
				m.tickets.On("GetForDesk", mock.Anything, int64(11), int64(100)).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mocks := newBoardService()

			tt.setupMocks(mocks)

			got, err := service.UpdateTicket(context.Background(), 1, 42, 11, tt.in)

			if tt.expectedError {
				require.Error(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, int64(11), got.ID)
			}

			mocks.assertExpectations(t)
		})
	}
}
