package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	apperrors "quizfit/internal/errors"
)

var errInvalidBody = errors.New("invalid request body")

// SuccessResponse is the envelope for successful writes.
type SuccessResponse struct {
	Success  bool        `json:"success"`
	Response interface{} `json:"response,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// respondError converts a service error into an echo error carrying the
// standard error envelope. The original error stays attached for logging.
func respondError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return respondError(apperrors.NewValidationError(errInvalidBody))
	}
	if err := c.Validate(req); err != nil {
		return respondError(apperrors.NewValidationError(err))
	}
	return nil
}
