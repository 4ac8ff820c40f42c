package service

import (
	"context"

	"github.com/kaban-x/kaban-backend/internal/auth"
	"github.com/kaban-x/kaban-backend/internal/mail"
	"github.com/kaban-x/kaban-backend/internal/model"
	"github.com/kaban-x/kaban-backend/internal/repository"
	"github.com/kaban-x/kaban-backend/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AuthService struct {
	tokens *auth.TokenManager

	users  repository.UserRepository
	mailer mail.Mailer
}

func NewAuthService(tokens *auth.TokenManager) *AuthService {
	return &AuthService{tokens: tokens}
}

// Register creates an inactive account and sends the activation link.
// Delivery failure is logged, not returned: the account exists either way
// and activation can be re-requested.
func (a *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, *Error) {
	l := logger.FromContext(ctx)

	hash, err := auth.HashPassword(password)
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to register user")
	}

	user := &repository.User{
		Username: username,
		Email:    email,
		Password: hash,
		IsActive: false,
	}

	err = a.users.Create(ctx, user)
	if errors.Is(err, repository.ErrAlreadyExists) {
		l.Warn("email already registered", zap.String("email", email))
		return nil, NewServiceError(ErrorCodeEmailExists, "email already registered")
	}
	if err != nil {
		l.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to register user")
	}

	token, err := a.tokens.Issue(auth.TokenKindActivation, user.ID)
	if err != nil {
		l.Error("failed to issue activation token", zap.Int64("user_id", user.ID), zap.Error(err))
		return userToModel(user), nil
	}

	if err = a.mailer.SendActivationEmail(ctx, user.Email, user.Username, token); err != nil {
		l.Error("failed to send activation email",
			zap.Int64("user_id", user.ID),
			zap.String("email", user.Email),
			zap.Error(err))
	}

	return userToModel(user), nil
}

// Activate marks the account active. Re-activating an already active
// account is a no-op success.
func (a *AuthService) Activate(ctx context.Context, tokenString string) *Error {
	l := logger.FromContext(ctx)

	userID, err := a.tokens.Verify(tokenString, auth.TokenKindActivation)
	if err != nil {
		l.Warn("invalid activation token", zap.Error(err))
		return NewServiceError(ErrorCodeUnauthorized, "invalid activation token")
	}

	isActive := true
	_, err = a.users.Patch(ctx, &repository.UserPatch{
		ID:       userID,
		IsActive: &isActive,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return NewServiceError(ErrorCodeUnauthorized, "invalid activation token")
	}
	if err != nil {
		l.Error("failed to activate user", zap.Int64("user_id", userID), zap.Error(err))
		return NewServiceError(ErrorCodeUnspecified, "failed to activate user")
	}

	l.Info("user activated", zap.Int64("user_id", userID))

	return nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*model.TokenPair, *Error) {
	l := logger.FromContext(ctx)

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeUnauthorized, "incorrect email or password")
	}
	if err != nil {
		l.Error("failed to get user", zap.String("email", email), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to log in")
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, NewServiceError(ErrorCodeUnauthorized, "incorrect email or password")
	}

	if !user.IsActive {
		return nil, NewServiceError(ErrorCodeUserInactive, "account is not activated")
	}

	return a.issuePair(ctx, user.ID)
}

// Refresh rotates the token pair. The presented refresh token is not
// revoked server-side; both tokens of the old pair simply expire.
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, *Error) {
	userID, err := a.tokens.Verify(refreshToken, auth.TokenKindRefresh)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnauthorized, "invalid refresh token")
	}

	return a.issuePair(ctx, userID)
}

// ForgotPassword always reports success so the endpoint cannot be used to
// probe which emails are registered. Mail goes out only for known users.
func (a *AuthService) ForgotPassword(ctx context.Context, email string) *Error {
	l := logger.FromContext(ctx)

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		l.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		l.Error("failed to get user", zap.Error(err))
		return nil
	}

	token, err := a.tokens.Issue(auth.TokenKindReset, user.ID)
	if err != nil {
		l.Error("failed to issue reset token", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil
	}

	if err = a.mailer.SendPasswordResetEmail(ctx, user.Email, user.Username, token); err != nil {
		l.Error("failed to send password reset email",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
	}

	return nil
}

func (a *AuthService) ResetPassword(ctx context.Context, tokenString, newPassword string) *Error {
	l := logger.FromContext(ctx)

	userID, err := a.tokens.Verify(tokenString, auth.TokenKindReset)
	if err != nil {
		return NewServiceError(ErrorCodeInvalidToken, "invalid reset token")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return NewServiceError(ErrorCodeUnspecified, "failed to reset password")
	}

	_, err = a.users.Patch(ctx, &repository.UserPatch{
		ID:       userID,
		Password: &hash,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return NewServiceError(ErrorCodeInvalidToken, "invalid reset token")
	}
	if err != nil {
		l.Error("failed to update password", zap.Int64("user_id", userID), zap.Error(err))
		return NewServiceError(ErrorCodeUnspecified, "failed to reset password")
	}

	l.Info("password reset", zap.Int64("user_id", userID))

	return nil
}

func (a *AuthService) issuePair(ctx context.Context, userID int64) (*model.TokenPair, *Error) {
	l := logger.FromContext(ctx)

	access, refresh, err := a.tokens.IssuePair(userID)
	if err != nil {
		l.Error("failed to issue token pair", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to issue tokens")
	}

	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (a *AuthService) WithUserRepo(r repository.UserRepository) *AuthService {
	a.users = r
	return a
}

func (a *AuthService) WithMailer(m mail.Mailer) *AuthService {
	a.mailer = m
	return a
}

func userToModel(u *repository.User) *model.User {
	return &model.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
