package api

import (
	"net/http"

	"github.com/kaban-x/kaban-backend/internal/model"
	"github.com/kaban-x/kaban-backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) CreateSection(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	projectID, serr := pathID(e, "id")
	if serr != nil {
		return transportError(e, serr)
	}

	req := &model.SectionCreate{}

	if err := h.decodeRequest(e, req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("creating section", zap.Int64("project_id", projectID), zap.String("section_name", req.Name))

	section, err := h.board.CreateSection(e.Request().Context(), user.ID, projectID, req)
	if err != nil {
		l.Warn("failed to create section", zap.Int64("project_id", projectID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, section)
}

func (h *Handler) UpdateSection(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	projectID, serr := pathID(e, "id")
	if serr != nil {
		return transportError(e, serr)
	}
	sectionID, serr := pathID(e, "sectionID")
	if serr != nil {
		return transportError(e, serr)
	}

	req := &model.SectionUpdate{}

	if err := h.decodeRequest(e, req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	section, err := h.board.UpdateSection(e.Request().Context(), user.ID, projectID, sectionID, req)
	if err != nil {
		l.Warn("failed to update section", zap.Int64("section_id", sectionID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, section)
}

func (h *Handler) CreateTask(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	projectID, serr := pathID(e, "id")
	if serr != nil {
		return transportError(e, serr)
	}

	req := &model.TicketCreate{}

	if err := h.decodeRequest(e, req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	l.Info("creating task",
		zap.Int64("project_id", projectID),
		zap.Int64("section_id", req.SectionID),
		zap.String("task_name", req.Name))

	ticket, err := h.board.CreateTicket(e.Request().Context(), user.ID, projectID, req)
	if err != nil {
		l.Warn("failed to create task", zap.Int64("project_id", projectID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusCreated, ticket)
}

func (h *Handler) UpdateTask(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())
	user := CurrentUser(e)

	projectID, serr := pathID(e, "id")
	if serr != nil {
		return transportError(e, serr)
	}
	taskID, serr := pathID(e, "taskID")
	if serr != nil {
		return transportError(e, serr)
	}

	req := &model.TicketUpdate{}

	if err := h.decodeRequest(e, req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return transportError(e, err)
	}

	ticket, err := h.board.UpdateTicket(e.Request().Context(), user.ID, projectID, taskID, req)
	if err != nil {
		l.Warn("failed to update task", zap.Int64("task_id", taskID), zap.Any("error", err))
		return transportError(e, err)
	}

	return e.JSON(http.StatusOK, ticket)
}
