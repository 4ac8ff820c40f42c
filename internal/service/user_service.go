package service

import (
	"context"
	"errors"

	"github.com/kaban-x/kaban-backend/internal/auth"
	"github.com/kaban-x/kaban-backend/internal/model"
	"github.com/kaban-x/kaban-backend/internal/repository"
)

type UserService struct {
	tokens *auth.TokenManager

	users repository.UserRepository
}

func NewUserService(tokens *auth.TokenManager) *UserService {
	return &UserService{tokens: tokens}
}

// Authenticate resolves a bearer access token to an active user. Inactive
// accounts are rejected even with a valid token.
func (u *UserService) Authenticate(ctx context.Context, tokenString string) (*model.User, *Error) {
	userID, err := u.tokens.Verify(tokenString, auth.TokenKindAccess)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnauthorized, "invalid or expired token")
	}

	user, err := u.users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeUnauthorized, "invalid or expired token")
	}
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to authenticate")
	}

	if !user.IsActive {
		return nil, NewServiceError(ErrorCodeUserInactive, "account is not activated")
	}

	return userToModel(user), nil
}

func (u *UserService) Get(ctx context.Context, userID int64) (*model.User, *Error) {
	user, err := u.users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeNotFound, "user not found")
	}
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get user")
	}
	return userToModel(user), nil
}

func (u *UserService) WithUserRepo(r repository.UserRepository) *UserService {
	u.users = r
	return u
}
