package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "quizfit/internal/errors"
	"quizfit/internal/service"
)

// MemberHandler handles member check-in endpoints. Every route sits behind Guard.RequireToken.
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// CreateMemberRequest represents a new check-in message.
type CreateMemberRequest struct {
	Message string `json:"message" validate:"required,min=2,max=150"`
}

// List godoc
// @Summary List the caller's latest messages, newest first
// @Tags members
// @Produce json
// @Security TokenAuth
// @Success 200 {array} model.Member
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /members [get]
func (h *MemberHandler) List(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return respondError(apperrors.ErrNotLoggedIn)
	}

	members, err := h.memberService.ListRecent(c.Request().Context(), user)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, members)
}

// Create godoc
// @Summary Post a check-in message
// @Tags members
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body CreateMemberRequest true "Message"
// @Success 201 {object} SuccessResponse{response=model.Member}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /members [post]
func (h *MemberHandler) Create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return respondError(apperrors.ErrNotLoggedIn)
	}

	var req CreateMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	member, err := h.memberService.Create(c.Request().Context(), user, req.Message)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Success:  true,
		Response: member,
	})
}
