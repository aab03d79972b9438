package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every API endpoint returns. Code 0 means success;
// error responses reuse the HTTP status as the application code.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AppError is the error type services return for expected outcomes: a project
// the caller may not see, a duplicate application, a decision raced by another
// request. Anything that is not an AppError surfaces as a 500.
type AppError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func newAppError(status int, msg string) *AppError {
	return &AppError{HTTPStatus: status, Code: status, Message: msg}
}

func NewBadRequest(msg string) *AppError {
	return newAppError(http.StatusBadRequest, msg)
}

func NewUnauthorized(msg string) *AppError {
	return newAppError(http.StatusUnauthorized, msg)
}

func NewForbidden(msg string) *AppError {
	return newAppError(http.StatusForbidden, msg)
}

func NewNotFound(msg string) *AppError {
	return newAppError(http.StatusNotFound, msg)
}

func NewConflict(msg string) *AppError {
	return newAppError(http.StatusConflict, msg)
}

// NewInvalidState marks an action that is structurally disallowed regardless
// of timing, e.g. an owner applying to their own project.
func NewInvalidState(msg string) *AppError {
	return newAppError(http.StatusUnprocessableEntity, msg)
}

func NewServerError(msg string) *AppError {
	return newAppError(http.StatusInternalServerError, msg)
}

// Success sends 200 with data in the standard envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

// Created sends 201 with data in the standard envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Error maps err onto an HTTP response. Wrapped AppErrors are unwrapped;
// everything else becomes a 500.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Response{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code:    500,
		Message: err.Error(),
	})
}

// Shorthand senders for handlers that fail before reaching a service.

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: 400, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Code: 401, Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Response{Code: 403, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: 404, Message: msg})
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{Code: 500, Message: msg})
}
