package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kaban-x/kaban-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTeamService_CreateTeam(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockTeamRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Create", mock.Anything, mock.MatchedBy(func(team *repository.Team) bool {
					return team.Name == "backend" && team.OwnerID == 1
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*repository.Team).ID = 10
				}).Return(nil)
			},
			expectedError: false,
		},
		{
			name: "failure: repository error",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamRepo := new(MockTeamRepository)

			tt.setupMocks(mockTeamRepo)

			service := NewTeamService().WithTeamRepo(mockTeamRepo)

			got, err := service.CreateTeam(context.Background(), 1, "backend")

			if tt.expectedError {
				require.Error(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, int64(10), got.ID)
				assert.Equal(t, "backend", got.Name)
				assert.Equal(t, int64(1), got.OwnerID)
			}

			mockTeamRepo.AssertExpectations(t)
		})
	}
}

func TestTeamService_ListTeams(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockTeamRepository)
		expectedError bool
		expectedLen   int
	}{
		{
			name: "success",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("ListByOwner", mock.Anything, int64(1)).Return([]*repository.Team{
					{ID: 10, Name: "backend", OwnerID: 1},
					{ID: 11, Name: "frontend", OwnerID: 1},
				}, nil)
			},
			expectedLen: 2,
		},
		{
			name: "success: no teams",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("ListByOwner", mock.Anything, int64(1)).Return([]*repository.Team{}, nil)
			},
			expectedLen: 0,
		},
		{
			name: "failure: repository error",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("ListByOwner", mock.Anything, int64(1)).Return(nil, errors.New("db error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamRepo := new(MockTeamRepository)

			tt.setupMocks(mockTeamRepo)

			service := NewTeamService().WithTeamRepo(mockTeamRepo)

			got, err := service.ListTeams(context.Background(), 1)

			if tt.expectedError {
				require.Error(t, err)
				assert.Equal(t, ErrorCodeUnspecified, err.Code)
			} else {
				require.Nil(t, err)
				assert.Len(t, got, tt.expectedLen)
			}

			mockTeamRepo.AssertExpectations(t)
		})
	}
}
