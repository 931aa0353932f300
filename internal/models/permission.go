package models

import (
	"time"

	"gorm.io/gorm"
)

type PermissionStatus string

const (
	PermissionPending  PermissionStatus = "PENDING"
	PermissionApproved PermissionStatus = "APPROVED"
	PermissionRejected PermissionStatus = "REJECTED"
)

// Valid reports whether the status is a supported value.
func (s PermissionStatus) Valid() bool {
	switch s {
	case PermissionPending, PermissionApproved, PermissionRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status is a resolution.
func (s PermissionStatus) Terminal() bool {
	return s == PermissionApproved || s == PermissionRejected
}

// PermissionRequest is a student-initiated leave request. It starts PENDING
// and moves to APPROVED or REJECTED exactly once; approval retroactively
// marks or creates the matching attendance record with PERMISSION status.
type PermissionRequest struct {
	ID             string           `json:"id" gorm:"primaryKey;size:255"`
	StudentID      string           `json:"student_id" gorm:"not null;size:255;index"`
	ClassID        string           `json:"class_id" gorm:"not null;size:255;index"`
	Date           string           `json:"date" gorm:"not null;size:10;index"`
	Reason         string           `json:"reason" gorm:"type:text;not null"`
	Status         PermissionStatus `json:"status" gorm:"not null;size:20;default:PENDING;index"`
	TeacherComment *string          `json:"teacher_comment,omitempty" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (PermissionRequest) TableName() string {
	return "permission_requests"
}
