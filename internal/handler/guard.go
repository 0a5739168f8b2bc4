package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	apperrors "quizfit/internal/errors"
	"quizfit/internal/metrics"
	"quizfit/internal/model"
	"quizfit/internal/service"
)

const currentUserKey = "currentUser"

// Guard gates routes behind an access token sent verbatim in the Authorization header.
type Guard struct {
	authService service.AuthService
}

// NewGuard creates a new guard.
func NewGuard(authService service.AuthService) *Guard {
	return &Guard{authService: authService}
}

// RequireToken resolves the caller before the wrapped handler runs. Rejected
// requests never reach the handler.
func (g *Guard) RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.Request().Header.Get(echo.HeaderAuthorization)

		user, err := g.authService.Authorize(c.Request().Context(), token)
		if err != nil {
			switch {
			case token == "":
				metrics.AuthRejectionsTotal.WithLabelValues(metrics.ReasonMissingToken).Inc()
			case errors.Is(err, apperrors.ErrNotLoggedIn):
				metrics.AuthRejectionsTotal.WithLabelValues(metrics.ReasonUnknownToken).Inc()
			default:
				metrics.AuthRejectionsTotal.WithLabelValues(metrics.ReasonStoreError).Inc()
			}
			return respondError(err)
		}

		c.Set(currentUserKey, user)
		return next(c)
	}
}

// CurrentUser returns the user resolved by RequireToken.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(currentUserKey).(*model.User)
	return user, ok && user != nil
}
