package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "orb-service/pkg/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// handleError converts usecase errors to HTTP responses using the error
// taxonomy's status mapping. Anything outside the taxonomy is a masked 500.
func handleError(c *gin.Context, err error) {
	status := pkgerrors.StatusOf(err)

	var code, message string
	switch status {
	case http.StatusBadRequest:
		code, message = "validation_error", err.Error()
	case http.StatusUnauthorized:
		code, message = "unauthorized", err.Error()
	case http.StatusForbidden:
		code, message = "forbidden", err.Error()
	case http.StatusNotFound:
		code, message = "not_found", err.Error()
	case http.StatusConflict:
		code, message = "already_exists", err.Error()
	default:
		code, message = "internal_error", "An internal error occurred"
	}

	c.JSON(status, ErrorResponse{Error: code, Message: message})
}
