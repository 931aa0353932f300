package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Search    string `json:"search"` // name or email
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type ClassFilters struct {
	IsActive  *bool  `json:"is_active"`
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"` // "name", "created_at"
	SortOrder string `json:"sort_order"`
}

type StudentFilters struct {
	ClassID         string `json:"class_id"`
	IncludeArchived bool   `json:"include_archived"`
	Search          string `json:"search"`
	Limit           int    `json:"limit"`
	Offset          int    `json:"offset"`
	SortBy          string `json:"sort_by"` // "name", "created_at"
	SortOrder       string `json:"sort_order"`
}

type AttendanceFilters struct {
	ClassID   string                   `json:"class_id"`
	StudentID string                   `json:"student_id"`
	Status    *models.AttendanceStatus `json:"status"`
	DateFrom  string                   `json:"date_from"` // YYYY-MM-DD, inclusive
	DateTo    string                   `json:"date_to"`   // YYYY-MM-DD, inclusive
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"` // "date", "created_at"
	SortOrder string                   `json:"sort_order"`
}

type PermissionFilters struct {
	StudentID string                   `json:"student_id"`
	ClassID   string                   `json:"class_id"`
	Status    *models.PermissionStatus `json:"status"`
	DateFrom  string                   `json:"date_from"`
	DateTo    string                   `json:"date_to"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"` // "created_at", "date"
	SortOrder string                   `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ClassAttendanceStats struct {
	TotalRecords    int64   `json:"total_records"`
	PresentCount    int64   `json:"present_count"`
	AbsentCount     int64   `json:"absent_count"`
	PermissionCount int64   `json:"permission_count"`
	AttendanceRate  float64 `json:"attendance_rate"` // present / total, percent
}

type TeacherOverview struct {
	TotalClasses       int64 `json:"total_classes"`
	ActiveClasses      int64 `json:"active_classes"`
	ActiveStudents     int64 `json:"active_students"`
	ArchivedStudents   int64 `json:"archived_students"`
	PendingPermissions int64 `json:"pending_permissions"`

	// Today's sheet
	TodayPresent    int64 `json:"today_present"`
	TodayAbsent     int64 `json:"today_absent"`
	TodayPermission int64 `json:"today_permission"`
}

type StudentAttendanceStats struct {
	TotalRecords    int64   `json:"total_records"`
	PresentCount    int64   `json:"present_count"`
	AbsentCount     int64   `json:"absent_count"`
	PermissionCount int64   `json:"permission_count"`
	AttendanceRate  float64 `json:"attendance_rate"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
}

type ClassRepository interface {
	Create(ctx context.Context, tx *gorm.DB, class *models.Class) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Class, error)
	Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, class *models.Class) error
	List(ctx context.Context, tx *gorm.DB, filters ClassFilters) ([]*models.Class, int64, error)
}

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error)
	Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, int64, error)

	// GetRoster returns the active (non-archived) students of a class.
	GetRoster(ctx context.Context, tx *gorm.DB, classID string) ([]*models.Student, error)
}

type AttendanceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error
	CreateBatch(ctx context.Context, tx *gorm.DB, records []*models.AttendanceRecord) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.AttendanceRecord, error)
	GetByStudentAndDate(ctx context.Context, tx *gorm.DB, studentID, date string) (*models.AttendanceRecord, error)
	Update(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error
	List(ctx context.Context, tx *gorm.DB, filters AttendanceFilters) ([]*models.AttendanceRecord, int64, error)

	// ExistsForClassDate reports whether any record exists for the class/date
	// pair, i.e. whether the daily sheet has already been submitted.
	ExistsForClassDate(ctx context.Context, tx *gorm.DB, classID, date string) (bool, error)
}

type PermissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, req *models.PermissionRequest) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.PermissionRequest, error)
	Update(ctx context.Context, tx *gorm.DB, req *models.PermissionRequest) error
	List(ctx context.Context, tx *gorm.DB, filters PermissionFilters) ([]*models.PermissionRequest, int64, error)
}

type DashboardRepository interface {
	GetTeacherOverview(ctx context.Context, tx *gorm.DB, today string) (*TeacherOverview, error)
	GetClassStats(ctx context.Context, tx *gorm.DB, classID, dateFrom, dateTo string) (*ClassAttendanceStats, error)
	GetStudentStats(ctx context.Context, tx *gorm.DB, studentID string) (*StudentAttendanceStats, error)
}

// SnapshotRepository moves the entire state in and out as one document.
type SnapshotRepository interface {
	Export(ctx context.Context, tx *gorm.DB) (*models.Snapshot, error)

	// Import replaces every collection with the snapshot contents.
	Import(ctx context.Context, tx *gorm.DB, snapshot *models.Snapshot) error
}
