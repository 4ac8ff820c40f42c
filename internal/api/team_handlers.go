package api

import (
	"net/http"

	"github.com/kaban-x/kaban-backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) CreateTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("creating team", zap.String("team_name", req.Name), zap.Int64("owner_id", user.ID))

	team, err := h.team.CreateTeam(e.Request().Context(), user.ID, req.Name)
	if err != nil {
		l.Error("failed to create team", zap.String("team_name", req.Name), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, team)
}

func (h *Handler) ListTeams(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	teams, err := h.team.ListTeams(e.Request().Context(), user.ID)
	if err != nil {
		l.Error("failed to list teams", zap.Int64("owner_id", user.ID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, teams)
}
