package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	apperrors "quizfit/internal/errors"
	"quizfit/internal/handler"
	"quizfit/internal/logger"
	"quizfit/internal/metrics"
)

// Greeting is served on the root path.
const Greeting = "Quizfit API is up. Try GET /quizzes."

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log *slog.Logger,
	guard *handler.Guard,
	authHandler *handler.AuthHandler,
	memberHandler *handler.MemberHandler,
	quizHandler *handler.QuizHandler,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(metrics.Middleware())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, Greeting)
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.GET("/quizzes", quizHandler.List)
	e.GET("/quizzes/:id", quizHandler.Get)
	e.POST("/quizzes", quizHandler.Create)
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// Routes behind the access token guard
	members := e.Group("/members", guard.RequireToken)
	members.GET("", memberHandler.List)
	members.POST("", memberHandler.Create)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders every error with the {success:false, message, code}
// envelope, including echo's own errors such as unknown routes.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := apperrors.ErrorResponse{Message: "internal server error", Code: "INTERNAL_ERROR"}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch msg := he.Message.(type) {
			case apperrors.ErrorResponse:
				body = msg
			case string:
				body = apperrors.ErrorResponse{Message: msg, Code: fmt.Sprintf("HTTP_%d", he.Code)}
			default:
				body = apperrors.ErrorResponse{Message: http.StatusText(he.Code), Code: fmt.Sprintf("HTTP_%d", he.Code)}
			}
		}
		body.Success = false

		if status >= http.StatusInternalServerError {
			log.Error("request failed", "path", c.Path(), "error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			log.Error("write error response", "error", writeErr)
		}
	}
}
