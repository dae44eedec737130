package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MhisterKhing6/shortly/internal/api/middleware"
	"github.com/MhisterKhing6/shortly/internal/api/service"
	"github.com/MhisterKhing6/shortly/internal/auth"
	"github.com/MhisterKhing6/shortly/internal/domain/assignment"
	"github.com/MhisterKhing6/shortly/internal/domain/parcel"
	"github.com/MhisterKhing6/shortly/internal/domain/reconciliation"
	"github.com/MhisterKhing6/shortly/internal/domain/rider"
)

// Response represents a standard API response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo represents metadata in a response
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
}

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, &Response{
		Error:         &ErrorInfo{Code: code, Message: message},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithPaginatedData sends a JSON response with paginated data
func RespondWithPaginatedData(c *gin.Context, statusCode int, data interface{}, page, perPage, totalItems int) {
	totalPages := totalItems / perPage
	if totalItems%perPage > 0 {
		totalPages++
	}

	c.JSON(statusCode, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
		Meta: &MetaInfo{
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
			TotalItems: totalItems,
		},
	})
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondForbidden sends a 403 Forbidden response with an error
func RespondForbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Forbidden"
	}
	RespondWithError(c, http.StatusForbidden, "FORBIDDEN", message)
}

// RespondNotFound sends a 404 Not Found response with an error
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

// RespondConflict sends a 409 Conflict response with an error
func RespondConflict(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusConflict, code, message)
}

// RespondInternalError sends a 500 Internal Server Error response with an error
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}

// RespondDomainError maps engine errors to HTTP statuses: missing
// resources to 404, authorization failures to 403, state machine and
// confirmation-code violations to 409, everything unexpected to 500.
func RespondDomainError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		RespondForbidden(c, "")
	case errors.Is(err, assignment.ErrNotFound{}),
		errors.Is(err, parcel.ErrNotFound{}),
		errors.Is(err, rider.ErrNotFound{}),
		errors.Is(err, reconciliation.ErrRecordNotFound{}):
		RespondNotFound(c, err.Error())
	case errors.Is(err, assignment.ErrInvalidCode):
		RespondConflict(c, "INVALID_CODE", "Confirmation code does not match")
	case errors.Is(err, assignment.ErrInvalidTransition{}):
		RespondConflict(c, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, assignment.ErrStale):
		RespondConflict(c, "CONFLICT", "Assignment was modified concurrently, retry the request")
	case errors.Is(err, service.ErrNoEligibleParcels):
		RespondBadRequest(c, err.Error())
	default:
		logger.Error("Unhandled service error",
			"path", c.Request.URL.Path,
			"error", err,
		)
		RespondInternalError(c)
	}
}
