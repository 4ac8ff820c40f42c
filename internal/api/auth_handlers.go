package api

import (
	"net/http"

	"github.com/kaban-x/kaban-backend/internal/service"
	"github.com/kaban-x/kaban-backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) Register(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("registering user", zap.String("email", req.Email))

	user, err := h.auth.Register(e.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		l.Error("failed to register user", zap.String("email", req.Email), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, map[string]string{
		"message": "registration successful, check your email for the activation link",
		"email":   user.Email,
	})
}

func (h *Handler) Login(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	pair, err := h.auth.Login(e.Request().Context(), req.Email, req.Password)
	if err != nil {
		l.Warn("login failed", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, pair)
}

func (h *Handler) Refresh(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	pair, err := h.auth.Refresh(e.Request().Context(), req.RefreshToken)
	if err != nil {
		l.Warn("token refresh failed", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, pair)
}

func (h *Handler) Activate(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	token := e.QueryParam("token")
	if token == "" {
		return transportError(e, service.NewServiceError(service.ErrorCodeUnauthorized, "missing activation token"))
	}

	if err := h.auth.Activate(e.Request().Context(), token); err != nil {
		l.Warn("account activation failed", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]bool{"activated": true})
}

func (h *Handler) ForgotPassword(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	if err := h.auth.ForgotPassword(e.Request().Context(), req.Email); err != nil {
		return transportError(e, err)
	}

	// Same response whether or not the email is registered.
	return e.JSON(http.StatusOK, map[string]string{
		"message": "if the email is registered, a reset link has been sent",
	})
}

func (h *Handler) ResetPassword(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	if err := h.auth.ResetPassword(e.Request().Context(), req.Token, req.NewPassword); err != nil {
		l.Warn("password reset failed", zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handler) Me(e echo.Context) error {
	return e.JSON(http.StatusOK, CurrentUser(e))
}
