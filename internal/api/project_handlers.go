package api

import (
	"net/http"
	"strconv"

	"github.com/kaban-x/kaban-backend/internal/model"
	"github.com/kaban-x/kaban-backend/internal/service"
	"github.com/kaban-x/kaban-backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) CreateProject(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	req := &model.ProjectCreate{}

	if err := h.decodeRequest(e, req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("creating project",
		zap.String("project_name", req.Name),
		zap.Int64("team_id", req.TeamID),
		zap.Int64("owner_id", user.ID))

	project, err := h.project.CreateProject(e.Request().Context(), user.ID, req)
	if err != nil {
		l.Error("failed to create project", zap.String("project_name", req.Name), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, project)
}

func (h *Handler) ListProjects(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	projects, err := h.project.ListProjects(e.Request().Context(), user.ID)
	if err != nil {
		l.Error("failed to list projects", zap.Int64("user_id", user.ID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, projects)
}

func (h *Handler) GetProject(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	projectID, serr := pathID(e, "id")
	if serr != nil {
		return transportError(e, serr)
	}

	project, err := h.project.GetProject(e.Request().Context(), user.ID, projectID)
	if err != nil {
		l.Warn("failed to get project", zap.Int64("project_id", projectID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, project)
}

func (h *Handler) InviteUser(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	projectID, serr := pathID(e, "id")
	if serr != nil {
		return transportError(e, serr)
	}

	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("inviting user", zap.Int64("project_id", projectID), zap.String("email", req.Email))

	if err := h.project.Invite(e.Request().Context(), user.ID, projectID, req.Email); err != nil {
		l.Warn("failed to invite user", zap.Int64("project_id", projectID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]string{"message": "user invited successfully"})
}

func (h *Handler) GetBoard(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	projectID, serr := pathID(e, "id")
	if serr != nil {
		return transportError(e, serr)
	}

	board, err := h.project.GetBoard(e.Request().Context(), user.ID, projectID)
	if err != nil {
		l.Warn("failed to get board", zap.Int64("project_id", projectID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, board)
}

func pathID(e echo.Context, name string) (int64, *service.Error) {
	id, err := strconv.ParseInt(e.Param(name), 10, 64)
	if err != nil {
		return 0, service.NewServiceError(service.ErrorCodeInvalidBody, "invalid "+name+" path parameter")
	}
	return id, nil
}
