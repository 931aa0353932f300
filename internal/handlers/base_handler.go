package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// BaseHandler carries the shared handler plumbing: request-scoped logging
// and the service error to HTTP status mapping.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps operations that return no resource body.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// LogRequest logs an incoming request with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c).Info(msg, args...)
}

// LogError logs a handler-level failure with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.GetLogger(c).Error(msg, append(args, "error", err)...)
}

// handleServiceError translates service errors into HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"operation": permissionError.Operation,
				"reason":    permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid credentials",
		})
	case errors.Is(err, services.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Token has been revoked",
		})
	case errors.Is(err, services.ErrStudentArchived):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Student is archived",
		})
	case errors.Is(err, services.ErrClassInactive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Class is inactive",
		})
	case errors.Is(err, services.ErrSnapshotVersionMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported snapshot version",
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: notFoundMessage(err),
		})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: conflictMessage(err),
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, services.ErrClassNotFound):
		return "Class not found"
	case errors.Is(err, services.ErrStudentNotFound):
		return "Student not found"
	case errors.Is(err, services.ErrAttendanceNotFound):
		return "Attendance record not found"
	case errors.Is(err, services.ErrPermissionNotFound):
		return "Permission request not found"
	default:
		return "Resource not found"
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return "Email is already registered"
	case errors.Is(err, services.ErrAttendanceAlreadyExists):
		return "Attendance sheet already exists for this class and date"
	case errors.Is(err, services.ErrPermissionAlreadyResolved):
		return "Permission request has already been resolved"
	default:
		return "Resource conflict"
	}
}

// getSession pulls the authenticated session set by the auth middleware.
func getSession(c *gin.Context) (*models.Session, bool) {
	value, exists := c.Get("session")
	if !exists {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok
}
