package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/podscribe-team/podscribe/errors"
	"github.com/podscribe-team/podscribe/internal/adapter/handler"
)

// APIKeyAuth authenticates requests against the configured service key.
// The key is accepted either in X-API-Key or as a Bearer token.
func APIKeyAuth(apiKey string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			provided := c.Request().Header.Get("X-API-Key")
			if provided == "" {
				auth := c.Request().Header.Get(echo.HeaderAuthorization)
				if strings.HasPrefix(auth, "Bearer ") {
					provided = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				return handler.HandleError(logger, c, apperrors.ErrUnauthenticated())
			}
			return next(c)
		}
	}
}
