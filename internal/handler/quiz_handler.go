package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "quizfit/internal/errors"
	"quizfit/internal/model"
	"quizfit/internal/service"
)

// QuizHandler handles quiz endpoints. Quizzes are public.
type QuizHandler struct {
	quizService service.QuizService
}

// NewQuizHandler creates a new quiz handler.
func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// QuestionRequest is a single question inside CreateQuizRequest.
type QuestionRequest struct {
	QuestionText string   `json:"questionText" validate:"required"`
	Options      []string `json:"options" validate:"required,min=1,dive,required"`
}

// CreateQuizRequest represents a new quiz.
type CreateQuizRequest struct {
	Title     string            `json:"title" validate:"required,max=255"`
	Level     string            `json:"level" validate:"required,max=100"`
	Questions []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// ToModel converts the request into a quiz ready to store.
func (r CreateQuizRequest) ToModel() *model.Quiz {
	quiz := &model.Quiz{
		Title:     r.Title,
		Level:     r.Level,
		Questions: make([]model.Question, 0, len(r.Questions)),
	}
	for _, q := range r.Questions {
		quiz.Questions = append(quiz.Questions, model.Question{
			QuestionText: q.QuestionText,
			Options:      q.Options,
		})
	}
	return quiz
}

// List godoc
// @Summary List quizzes
// @Tags quizzes
// @Produce json
// @Success 200 {array} model.Quiz
// @Failure 500 {object} errors.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) List(c echo.Context) error {
	quizzes, err := h.quizService.List(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, quizzes)
}

// Get godoc
// @Summary Get quiz by id
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} model.Quiz
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Message: "invalid quiz ID",
			Code:    "INVALID_UUID",
		})
	}

	quiz, err := h.quizService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, quiz)
}

// Create godoc
// @Summary Create quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body CreateQuizRequest true "Quiz"
// @Success 201 {object} SuccessResponse{response=model.Quiz}
// @Failure 400 {object} errors.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) Create(c echo.Context) error {
	var req CreateQuizRequest
	if err := c.Bind(&req); err != nil {
		return couldNotSave(errInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return couldNotSave(apperrors.NewValidationError(err))
	}

	quiz, err := h.quizService.Create(c.Request().Context(), req.ToModel())
	if err != nil {
		return couldNotSave(err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Success:  true,
		Response: quiz,
		Message:  "Created successfully",
	})
}

// couldNotSave reports every quiz write failure as 400. Validation causes are
// echoed; store errors are not.
func couldNotSave(err error) error {
	message := "could not save quiz"
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, errInvalidBody) {
		message += ": " + err.Error()
	}
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Message: message,
		Code:    "QUIZ_NOT_SAVED",
	}).SetInternal(err)
}
