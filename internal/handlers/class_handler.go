package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type ClassHandler struct {
	BaseHandler
	service services.ClassService
}

func NewClassHandler(service services.ClassService, logger utils.Logger) *ClassHandler {
	return &ClassHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateClass creates a new class
// @Summary Create class
// @Description Create a new class
// @Tags classes
// @Accept json
// @Produce json
// @Param class body services.ClassCreateRequest true "Class data"
// @Success 201 {object} models.Class
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /classes [post]
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req services.ClassCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating class", "name", req.Name)

	class, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, class)
}

// UpdateClass updates an existing class
// @Summary Update class
// @Description Partially update a class; omitted fields are left unchanged
// @Tags classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param class body services.ClassUpdateRequest true "Fields to update"
// @Success 200 {object} models.Class
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Class not found"
// @Router /classes/{id} [put]
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id := c.Param("id")

	var req services.ClassUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating class", "class_id", id)

	class, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

// GetClass retrieves a class by ID
// @Summary Get class
// @Tags classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} models.Class
// @Failure 404 {object} ErrorResponse "Class not found"
// @Router /classes/{id} [get]
func (h *ClassHandler) GetClass(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Getting class", "class_id", id)

	class, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

// ListClasses lists classes with filters
// @Summary List classes
// @Description List classes with optional filtering and pagination
// @Tags classes
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param is_active query bool false "Filter by active flag"
// @Param search query string false "Search by name"
// @Success 200 {object} services.ClassListResponse
// @Failure 401 {object} ErrorResponse
// @Router /classes [get]
func (h *ClassHandler) ListClasses(c *gin.Context) {
	h.LogRequest(c, "Listing classes")

	page, size := parsePagination(c)

	filters := repositories.ClassFilters{
		Search:    c.Query("search"),
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.DefaultQuery("sort_by", "name"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}

	if activeStr := c.Query("is_active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			filters.IsActive = &active
		}
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// parsePagination reads the page/size query parameters with clamping.
func parsePagination(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	return page, size
}
