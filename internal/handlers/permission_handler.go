package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type PermissionHandler struct {
	BaseHandler
	service services.PermissionService
}

func NewPermissionHandler(service services.PermissionService, logger utils.Logger) *PermissionHandler {
	return &PermissionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SubmitRequest files a leave request
// @Summary Submit permission request
// @Description File a leave request for a student on a date; students may only file for themselves
// @Tags permissions
// @Accept json
// @Produce json
// @Param request body services.PermissionSubmitRequest true "Request data"
// @Success 201 {object} models.PermissionRequest
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Students may only file for themselves"
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /permissions [post]
func (h *PermissionHandler) SubmitRequest(c *gin.Context) {
	var req services.PermissionSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, ok := getSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Submitting permission request", "student_id", req.StudentID, "date", req.Date)

	request, err := h.service.Submit(c.Request.Context(), session, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ResolveRequest approves or rejects a pending request
// @Summary Resolve permission request
// @Description Approve or reject a pending request; approval marks the matching attendance record PERMISSION, creating it when absent
// @Tags permissions
// @Accept json
// @Produce json
// @Param id path string true "Permission request ID"
// @Param resolution body services.PermissionResolveRequest true "Resolution"
// @Success 200 {object} models.PermissionRequest
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Request not found"
// @Failure 409 {object} ErrorResponse "Request already resolved"
// @Router /permissions/{id}/resolve [put]
func (h *PermissionHandler) ResolveRequest(c *gin.Context) {
	id := c.Param("id")

	var req services.PermissionResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, ok := getSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Resolving permission request", "request_id", id, "status", req.Status)

	request, err := h.service.Resolve(c.Request.Context(), session, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// GetRequest retrieves a permission request by ID
// @Summary Get permission request
// @Tags permissions
// @Produce json
// @Param id path string true "Permission request ID"
// @Success 200 {object} models.PermissionRequest
// @Failure 404 {object} ErrorResponse "Request not found"
// @Router /permissions/{id} [get]
func (h *PermissionHandler) GetRequest(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Getting permission request", "request_id", id)

	request, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListRequests lists permission requests with filters
// @Summary List permission requests
// @Tags permissions
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param student_id query string false "Filter by student"
// @Param class_id query string false "Filter by class"
// @Param status query string false "Filter by status: PENDING, APPROVED, REJECTED"
// @Param date_from query string false "From date (YYYY-MM-DD, inclusive)"
// @Param date_to query string false "To date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} services.PermissionListResponse
// @Failure 401 {object} ErrorResponse
// @Router /permissions [get]
func (h *PermissionHandler) ListRequests(c *gin.Context) {
	h.LogRequest(c, "Listing permission requests")

	page, size := parsePagination(c)

	filters := repositories.PermissionFilters{
		StudentID: c.Query("student_id"),
		ClassID:   c.Query("class_id"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.PermissionStatus(statusStr)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid permission status filter",
			})
			return
		}
		filters.Status = &status
	}

	// Students only see their own requests.
	if session, ok := getSession(c); ok && session.Role == models.RoleStudent {
		filters.StudentID = session.StudentID
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
