package service

import (
	"context"
	"testing"

	"github.com/kaban-x/kaban-backend/internal/auth"
	"github.com/kaban-x/kaban-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Authenticate(t *testing.T) {
	tokens := testTokens()
	accessToken, _ := tokens.Issue(auth.TokenKindAccess, 1)
	refreshToken, _ := tokens.Issue(auth.TokenKindRefresh, 1)

	tests := []struct {
		name          string
		token         string
		setupMocks    func(*MockUserRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:  "success",
			token: accessToken,
			setupMocks: func(ur *MockUserRepository) {
				ur.On("Get", mock.Anything, int64(1)).Return(&repository.User{
					ID:       1,
					Username: "john",
					IsActive: true,
				}, nil)
			},
			expectedError: false,
		},
		{
			name:          "failure: refresh token is not an access token",
			token:         refreshToken,
			setupMocks:    func(ur *MockUserRepository) {},
			expectedError: true,
			errorCode:     ErrorCodeUnauthorized,
		},
		{
			name:          "failure: garbage token",
			token:         "invalid_token",
			setupMocks:    func(ur *MockUserRepository) {},
			expectedError: true,
			errorCode:     ErrorCodeUnauthorized,
		},
		{
			name:  "failure: user deleted after token issued",
			token: accessToken,
			setupMocks: func(ur *MockUserRepository) {
				ur.On("Get", mock.Anything, int64(1)).Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeUnauthorized,
		},
		{
			name:  "failure: inactive account",
			token: accessToken,
			setupMocks: func(ur *MockUserRepository) {
				ur.On("Get", mock.Anything, int64(1)).Return(&repository.User{
					ID:       1,
					IsActive: false,
				}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeUserInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)

			tt.setupMocks(mockUserRepo)

			service := NewUserService(tokens).WithUserRepo(mockUserRepo)

			got, err := service.Authenticate(context.Background(), tt.token)

			if tt.expectedError {
				require.Error(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, int64(1), got.ID)
				assert.Equal(t, "john", got.Username)
			}

			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Get(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockUserRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("Get", mock.Anything, int64(1)).Return(&repository.User{
					ID:       1,
					Username: "john",
					Email:    "john@example.com",
				}, nil)
			},
			expectedError: false,
		},
		{
			name: "failure: not found",
			setupMocks: func(ur *MockUserRepository) {
				ur.On("Get", mock.Anything, int64(1)).Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)

			tt.setupMocks(mockUserRepo)

			service := NewUserService(testTokens()).WithUserRepo(mockUserRepo)

			got, err := service.Get(context.Background(), 1)

			if tt.expectedError {
				require.Error(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				require.Nil(t, err)
				assert.Equal(t, "john@example.com", got.Email)
			}

			mockUserRepo.AssertExpectations(t)
		})
	}
}
