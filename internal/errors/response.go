package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every business-rule rejection.
type ErrorResponse struct {
	Errors string `json:"errors"`
}

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{Errors: message})
}

// RespondWithFieldErrors answers 400 with {"<field>": ["<message>", ...]}.
func RespondWithFieldErrors(c *gin.Context, fields FieldErrors) {
	c.JSON(http.StatusBadRequest, fields)
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication credentials were not provided."
	}
	RespondWithError(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to perform this action."
	}
	RespondWithError(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Not found."
	}
	RespondWithError(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "A server error occurred. Please try again later."
	}
	RespondWithError(c, http.StatusInternalServerError, message)
}
