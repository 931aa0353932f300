package validator

import (
	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// RegisterRequest creates a new teacher account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest authenticates a teacher.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StudentLoginRequest authenticates a student by roster id.
type StudentLoginRequest struct {
	StudentID string `json:"student_id" validate:"required,student_id"`
}

// ClassCreateRequest creates a teaching group.
type ClassCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool  `json:"is_active"`
}

// ClassUpdateRequest partially updates a class; nil fields are left alone.
type ClassUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

// StudentCreateRequest enrolls a student into a class.
type StudentCreateRequest struct {
	Name             string  `json:"name" validate:"required,min=1,max=100"`
	DOB              string  `json:"dob" validate:"omitempty,roster_date"`
	Origin           string  `json:"origin" validate:"omitempty,max=100"`
	Phone            string  `json:"phone" validate:"omitempty,max=30"`
	ClassID          string  `json:"class_id" validate:"required"`
	Address          *string `json:"address" validate:"omitempty,max=300"`
	EmergencyContact *string `json:"emergency_contact" validate:"omitempty,max=100"`
	Photo            *string `json:"photo" validate:"omitempty,max=500"`
}

// StudentUpdateRequest partially updates a student; flipping IsArchived to
// true is the archive (soft delete) path.
type StudentUpdateRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100"`
	DOB              *string `json:"dob" validate:"omitempty,roster_date"`
	Origin           *string `json:"origin" validate:"omitempty,max=100"`
	Phone            *string `json:"phone" validate:"omitempty,max=30"`
	ClassID          *string `json:"class_id"`
	Address          *string `json:"address" validate:"omitempty,max=300"`
	EmergencyContact *string `json:"emergency_contact" validate:"omitempty,max=100"`
	Photo            *string `json:"photo" validate:"omitempty,max=500"`
	IsArchived       *bool   `json:"is_archived"`
}

// AttendanceEntryRequest is one student's mark on a daily sheet.
type AttendanceEntryRequest struct {
	StudentID string                  `json:"student_id" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Note      string                  `json:"note" validate:"omitempty,max=500"`
}

// AttendanceSheetRequest submits the daily sheet for a class. Roster
// students without an entry default to ABSENT.
type AttendanceSheetRequest struct {
	ClassID string                   `json:"class_id" validate:"required"`
	Date    string                   `json:"date" validate:"required,roster_date"`
	Entries []AttendanceEntryRequest `json:"entries" validate:"dive"`
}

// OverrideRequest corrects a locked attendance record with an audit trail.
type OverrideRequest struct {
	Status models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Reason string                  `json:"reason" validate:"required,min=1,max=500"`
}

// PermissionSubmitRequest files a leave request.
type PermissionSubmitRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	Date      string `json:"date" validate:"required,roster_date"`
	Reason    string `json:"reason" validate:"required,min=1,max=1000"`
}

// PermissionResolveRequest approves or rejects a pending leave request.
type PermissionResolveRequest struct {
	Status  models.PermissionStatus `json:"status" validate:"required,permission_resolution"`
	Comment string                  `json:"comment" validate:"omitempty,max=1000"`
}
