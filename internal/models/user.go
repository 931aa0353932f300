package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// User is a teacher account. Students never get accounts of their own;
// they authenticate with their student id (see Student).
type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:255"`
	Name         string   `json:"name" gorm:"not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;default:TEACHER"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// Session describes the authenticated caller as carried in JWT claims.
// It is deliberately not persisted with the domain data.
type Session struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	Name      string   `json:"name"`
	StudentID string   `json:"student_id,omitempty"`
}
