package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserAlreadyExists is returned when the username is already taken.
	ErrUserAlreadyExists = errors.New("username already exists")
	// ErrInvalidCredentials is returned for both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("credentials do not match")
	// ErrNotLoggedIn is returned when a request carries no token or an unknown one.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrQuizNotFound is returned when a quiz is not found.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidUsername is returned when a username is outside 2-30 characters.
	ErrInvalidUsername = errors.New("username must be between 2 and 30 characters")
	// ErrPasswordTooShort is returned when a password has fewer than 6 characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrPasswordTooLong is returned when a password exceeds the 72 bytes bcrypt accepts.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	// ErrInvalidMessage is returned when a member message is outside 2-150 characters.
	ErrInvalidMessage = errors.New("message must be between 2 and 150 characters")
)

// ValidationError wraps a request validation failure so its cause reaches the client.
type ValidationError struct {
	Cause error
}

func (e *ValidationError) Error() string {
	return e.Cause.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError wraps err as a ValidationError.
func NewValidationError(err error) error {
	return &ValidationError{Cause: err}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      string `json:"code"`
	LoggedOut bool   `json:"loggedOut,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	LoggedOut  bool
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success:   false,
		Message:   e.Message,
		Code:      e.Code,
		LoggedOut: e.LoggedOut,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	switch {
	case errors.Is(err, ErrNotLoggedIn):
		httpErr := NewHTTPError(http.StatusUnauthorized, "please log in to continue", "NOT_LOGGED_IN")
		httpErr.LoggedOut = true
		return httpErr
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrQuizNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "QUIZ_NOT_FOUND")
	case errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrPasswordTooLong),
		errors.Is(err, ErrInvalidMessage),
		errors.As(err, &validationErr):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
