package api

import (
	"strings"
	"time"

	"github.com/kaban-x/kaban-backend/internal/model"
	"github.com/kaban-x/kaban-backend/internal/service"
	"github.com/kaban-x/kaban-backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const currentUserKey = "current_user"

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", latency),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

// AuthMiddleware authenticates the bearer access token and stores the
// resolved user in the echo context. Inactive accounts get 403 even with a
// valid token.
func AuthMiddleware(user *service.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return transportError(c, service.NewServiceError(service.ErrorCodeUnauthorized, "missing bearer token"))
			}

			u, serr := user.Authenticate(c.Request().Context(), token)
			if serr != nil {
				return transportError(c, serr)
			}

			c.Set(currentUserKey, u)

			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by AuthMiddleware.
func CurrentUser(c echo.Context) *model.User {
	if u, ok := c.Get(currentUserKey).(*model.User); ok {
		return u
	}
	return nil
}
