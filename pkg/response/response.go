package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collabhub/backend/pkg/logger"
)

// AppError represents a structured application error with an HTTP status.
type AppError struct {
	HTTPStatus int    // HTTP status code (e.g. 400, 404, 500)
	Message    string // Human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

// Pre-defined error constructors

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

// NewConflict maps duplicate-resource failures. Conflicts surface as 400 in
// this API, alongside the other validation failures.
func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Message: msg}
}

// --- Gin response helpers ---

// envelope builds the unified body shape:
// {"message": ..., "success": ..., <payload fields>}
func envelope(message string, success bool, payload gin.H) gin.H {
	body := gin.H{
		"message": message,
		"success": success,
	}
	for k, v := range payload {
		body[k] = v
	}
	return body
}

// OK sends a 200 response with the payload fields merged into the envelope.
func OK(c *gin.Context, message string, payload gin.H) {
	c.JSON(http.StatusOK, envelope(message, true, payload))
}

// Created sends a 201 response with the payload fields merged into the envelope.
func Created(c *gin.Context, message string, payload gin.H) {
	c.JSON(http.StatusCreated, envelope(message, true, payload))
}

// Error sends an error response. If err is an *AppError its status and
// message are used; anything else becomes a generic 500 and the detail is
// logged server-side, never returned to the caller.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, envelope(appErr.Message, false, nil))
		return
	}

	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, envelope("Internal server error", false, nil))
}

// Convenience error response functions

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, envelope(msg, false, nil))
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, envelope(msg, false, nil))
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, envelope(msg, false, nil))
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, envelope(msg, false, nil))
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, envelope(msg, false, nil))
}
