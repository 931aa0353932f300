package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	StatusPresent    AttendanceStatus = "PRESENT"
	StatusAbsent     AttendanceStatus = "ABSENT"
	StatusPermission AttendanceStatus = "PERMISSION"
)

// Valid reports whether the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusPermission:
		return true
	default:
		return false
	}
}

// AuditLog is one append-only entry in an attendance record's edit history.
type AuditLog struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason,omitempty"`
}

// AttendanceRecord is a locked daily attendance entry. Records are created
// locked and stay locked; after creation the status is mutable only through
// the audited override path or a permission approval, both of which append
// to EditHistory and never rewrite it.
//
// (StudentID, Date) is unique: a class/date sheet can be submitted once.
type AttendanceRecord struct {
	ID        string                          `json:"id" gorm:"primaryKey;size:255"`
	StudentID string                          `json:"student_id" gorm:"not null;size:255;index;uniqueIndex:idx_attendance_student_date"`
	ClassID   string                          `json:"class_id" gorm:"not null;size:255;index:idx_attendance_class_date"`
	Date      string                          `json:"date" gorm:"not null;size:10;uniqueIndex:idx_attendance_student_date;index:idx_attendance_class_date"`
	Status    AttendanceStatus                `json:"status" gorm:"not null;size:20;index"`
	Note      string                          `json:"note,omitempty" gorm:"type:text"`
	Locked    bool                            `json:"locked" gorm:"not null;default:true"`
	History   datatypes.JSONSlice[AuditLog]   `json:"edit_history" gorm:"column:edit_history"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
