package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateStudent enrolls a new student
// @Summary Create student
// @Description Enroll a student into a class, generating their student ID
// @Tags students
// @Accept json
// @Produce json
// @Param student body services.StudentCreateRequest true "Student data"
// @Success 201 {object} models.Student
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Class not found"
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req services.StudentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating student", "name", req.Name, "class_id", req.ClassID)

	student, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// UpdateStudent updates an existing student
// @Summary Update student
// @Description Partially update a student; omitted fields are left unchanged
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param student body services.StudentUpdateRequest true "Fields to update"
// @Success 200 {object} models.Student
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := c.Param("id")

	var req services.StudentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating student", "student_id", id)

	student, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// ArchiveStudent soft-deletes a student
// @Summary Archive student
// @Description Archive a student, removing them from rosters and login while keeping history
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/{id}/archive [post]
func (h *StudentHandler) ArchiveStudent(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Archiving student", "student_id", id)

	student, err := h.service.Archive(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// GetStudent retrieves a student by ID
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Getting student", "student_id", id)

	student, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// ListStudents lists students with filters
// @Summary List students
// @Description List students with optional filtering and pagination; archived students are excluded unless requested
// @Tags students
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param class_id query string false "Filter by class"
// @Param include_archived query bool false "Include archived students"
// @Param search query string false "Search by name or student ID"
// @Success 200 {object} services.StudentListResponse
// @Failure 401 {object} ErrorResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	page, size := parsePagination(c)

	filters := repositories.StudentFilters{
		ClassID:   c.Query("class_id"),
		Search:    c.Query("search"),
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.DefaultQuery("sort_by", "name"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}

	if includeStr := c.Query("include_archived"); includeStr != "" {
		if include, err := strconv.ParseBool(includeStr); err == nil {
			filters.IncludeArchived = include
		}
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRoster returns the active roster of a class
// @Summary Get class roster
// @Description List the non-archived students of a class
// @Tags students
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {array} models.Student
// @Failure 404 {object} ErrorResponse "Class not found"
// @Router /classes/{id}/roster [get]
func (h *StudentHandler) GetRoster(c *gin.Context) {
	classID := c.Param("id")

	h.LogRequest(c, "Getting class roster", "class_id", classID)

	roster, err := h.service.GetRoster(c.Request.Context(), classID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}
