// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/nba-stats-manager/internal/export"
	"github.com/maxviazov/nba-stats-manager/internal/repository"
	"github.com/maxviazov/nba-stats-manager/internal/service"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
	Missing     []string             `json:"missing,omitempty"`
}

// rule maps one error category onto a status. withMessage copies err.Error()
// into the payload for categories whose text is safe to show clients.
type rule struct {
	target      error
	status      int
	code        string
	withMessage bool
}

// rules are checked in order; the first errors.Is match wins.
var rules = []rule{
	{repository.ErrValidation, http.StatusBadRequest, "invalid_input", true},
	{repository.ErrNotFound, http.StatusNotFound, "not_found", false},
	{repository.ErrAlreadyExists, http.StatusConflict, "already_exists", false},
	{repository.ErrConflict, http.StatusConflict, "conflict", false},
	{repository.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable", false},
	{service.ErrNoSource, http.StatusServiceUnavailable, "no_source", true},
	{export.ErrExportFailed, http.StatusInternalServerError, "export_failed", false},
}

// MapError converts a domain or storage error into a status and payload.
// Invalid input carries its field errors; anything unrecognised is a 500.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}
	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}
	for _, r := range rules {
		if !errors.Is(err, r.target) {
			continue
		}
		p := ErrorPayload{Error: r.code}
		if r.withMessage {
			p.Message = err.Error()
		}
		return r.status, p
	}
	return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteNotFound reports a lookup that resolved nothing, naming what was missing.
func WriteNotFound(c *gin.Context, missing []string) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorPayload{Error: "not_found", Missing: missing})
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
