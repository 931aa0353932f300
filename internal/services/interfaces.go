package services

import (
	"context"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type StudentLoginRequest = validator.StudentLoginRequest
type ClassCreateRequest = validator.ClassCreateRequest
type ClassUpdateRequest = validator.ClassUpdateRequest
type StudentCreateRequest = validator.StudentCreateRequest
type StudentUpdateRequest = validator.StudentUpdateRequest
type AttendanceSheetRequest = validator.AttendanceSheetRequest
type OverrideRequest = validator.OverrideRequest
type PermissionSubmitRequest = validator.PermissionSubmitRequest
type PermissionResolveRequest = validator.PermissionResolveRequest

// ListMeta carries pagination info shared by every list response.
type ListMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"total_pages"`
}

// AuthResponse is returned by every successful login or registration.
type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresIn int64          `json:"expires_in"` // seconds
	Session   models.Session `json:"session"`
}

type ClassListResponse struct {
	Classes []*models.Class `json:"classes"`
	ListMeta
}

type StudentListResponse struct {
	Students []*models.Student `json:"students"`
	ListMeta
}

type AttendanceListResponse struct {
	Records []*models.AttendanceRecord `json:"records"`
	ListMeta
}

type PermissionListResponse struct {
	Requests []*models.PermissionRequest `json:"requests"`
	ListMeta
}

// SheetResponse is the attendance sheet of one class on one date, with the
// roster students not yet marked.
type SheetResponse struct {
	ClassID  string                     `json:"class_id"`
	Date     string                     `json:"date"`
	Records  []*models.AttendanceRecord `json:"records"`
	Unmarked []*models.Student          `json:"unmarked"`
}

// NotificationRequest fans a message out to a set of users.
type NotificationRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	RegisterTeacher(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	LoginTeacher(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	LoginStudent(ctx context.Context, req *StudentLoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error

	// VerifyToken parses and validates a bearer token, rejecting revoked ones.
	VerifyToken(ctx context.Context, token string) (*models.Session, error)
}

type ClassService interface {
	Create(ctx context.Context, req *ClassCreateRequest) (*models.Class, error)
	Update(ctx context.Context, id string, req *ClassUpdateRequest) (*models.Class, error)
	GetByID(ctx context.Context, id string) (*models.Class, error)
	List(ctx context.Context, filters repositories.ClassFilters) (*ClassListResponse, error)
}

type StudentService interface {
	Create(ctx context.Context, req *StudentCreateRequest) (*models.Student, error)
	Update(ctx context.Context, id string, req *StudentUpdateRequest) (*models.Student, error)
	Archive(ctx context.Context, id string) (*models.Student, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filters repositories.StudentFilters) (*StudentListResponse, error)
	GetRoster(ctx context.Context, classID string) ([]*models.Student, error)
}

type AttendanceService interface {
	// RecordDailySheet persists the daily sheet for a class. Roster students
	// without an explicit entry are recorded ABSENT. Submitting a sheet that
	// already exists for the class/date pair is rejected.
	RecordDailySheet(ctx context.Context, session *models.Session, req *AttendanceSheetRequest) ([]*models.AttendanceRecord, error)

	// OverrideStatus corrects a locked record, appending to its audit trail.
	OverrideStatus(ctx context.Context, session *models.Session, recordID string, req *OverrideRequest) (*models.AttendanceRecord, error)

	GetByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	GetSheet(ctx context.Context, classID, date string) (*SheetResponse, error)
	List(ctx context.Context, filters repositories.AttendanceFilters) (*AttendanceListResponse, error)
}

type PermissionService interface {
	Submit(ctx context.Context, session *models.Session, req *PermissionSubmitRequest) (*models.PermissionRequest, error)

	// Resolve approves or rejects a pending request. Approval also marks the
	// matching attendance record PERMISSION, creating it when absent.
	Resolve(ctx context.Context, session *models.Session, id string, req *PermissionResolveRequest) (*models.PermissionRequest, error)

	GetByID(ctx context.Context, id string) (*models.PermissionRequest, error)
	List(ctx context.Context, filters repositories.PermissionFilters) (*PermissionListResponse, error)
}

type DashboardService interface {
	GetTeacherOverview(ctx context.Context) (*repositories.TeacherOverview, error)
	GetClassStats(ctx context.Context, classID, dateFrom, dateTo string) (*repositories.ClassAttendanceStats, error)
	GetStudentDashboard(ctx context.Context, studentID string) (*StudentDashboardResponse, error)
}

type ExportService interface {
	// ExportAttendanceCSV renders matching records as CSV.
	ExportAttendanceCSV(ctx context.Context, filters repositories.AttendanceFilters) ([]byte, error)

	// ExportAttendanceXLSX builds an Excel workbook of matching records.
	ExportAttendanceXLSX(ctx context.Context, filters repositories.AttendanceFilters) ([]byte, error)
}

type SnapshotService interface {
	Export(ctx context.Context) (*models.Snapshot, error)
	Import(ctx context.Context, snapshot *models.Snapshot) error
}

type NotificationEventService interface {
	SendBulkNotification(ctx context.Context, userIDs []string, req *NotificationRequest) error
}

// ServiceManager wires every service behind one entry point.
type ServiceManager interface {
	Auth() AuthService
	Class() ClassService
	Student() StudentService
	Attendance() AttendanceService
	Permission() PermissionService
	Dashboard() DashboardService
	Export() ExportService
	Snapshot() SnapshotService
	Notification() NotificationEventService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
