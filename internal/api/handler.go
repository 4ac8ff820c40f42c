package api

import (
	"net/http"

	"github.com/kaban-x/kaban-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	auth    *service.AuthService
	user    *service.UserService
	team    *service.TeamService
	project *service.ProjectService
	board   *service.BoardService

	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithAuthService(auth *service.AuthService) *Handler {
	h.auth = auth
	return h
}

func (h *Handler) WithUserService(user *service.UserService) *Handler {
	h.user = user
	return h
}

func (h *Handler) WithTeamService(team *service.TeamService) *Handler {
	h.team = team
	return h
}

func (h *Handler) WithProjectService(project *service.ProjectService) *Handler {
	h.project = project
	return h
}

func (h *Handler) WithBoardService(board *service.BoardService) *Handler {
	h.board = board
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/", h.Root)
	e.GET("/health", h.healthChecker.HealthCheck())

	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/refresh", h.Refresh)
	e.GET("/auth/activate", h.Activate)
	e.POST("/auth/forgot-password", h.ForgotPassword)
	e.POST("/auth/reset-password", h.ResetPassword)

	security := e.Group("", AuthMiddleware(h.user))

	security.GET("/user/me", h.Me)

	security.POST("/teams", h.CreateTeam)
	security.GET("/teams", h.ListTeams)

	security.POST("/projects", h.CreateProject)
	security.GET("/projects", h.ListProjects)
	security.GET("/projects/:id", h.GetProject)
	security.POST("/projects/:id/invite", h.InviteUser)
	security.GET("/projects/:id/board", h.GetBoard)

	security.POST("/projects/:id/sections", h.CreateSection)
	security.PATCH("/projects/:id/sections/:sectionID", h.UpdateSection)

	security.POST("/projects/:id/tasks", h.CreateTask)
	security.PATCH("/projects/:id/tasks/:taskID", h.UpdateTask)
}

func (h *Handler) Root(e echo.Context) error {
	return e.JSON(http.StatusOK, map[string]string{
		"message": "Kaban X API",
		"version": "1.0.0",
	})
}

func (h *Handler) decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewServiceError(service.ErrorCodeInvalidBody, "invalid request body")
	}

	if err := e.Validate(req); err != nil {
		return service.NewServiceError(service.ErrorCodeInvalidBody, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}

func transportError(e echo.Context, err *service.Error) error {
	response := struct {
		Error *service.Error `json:"error"`
	}{Error: err}

	switch err.Code {
	case service.ErrorCodeNotFound:
		return e.JSON(http.StatusNotFound, response)
	case service.ErrorCodeUnauthorized:
		return e.JSON(http.StatusUnauthorized, response)
	case service.ErrorCodeForbidden, service.ErrorCodeUserInactive:
		return e.JSON(http.StatusForbidden, response)
	case service.ErrorCodeAlreadyMember:
		return e.JSON(http.StatusConflict, response)
	case service.ErrorCodeEmailExists, service.ErrorCodeInvalidToken,
		service.ErrorCodeInvalidBody, service.ErrorCodeSectionMismatch:
		return e.JSON(http.StatusBadRequest, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}
