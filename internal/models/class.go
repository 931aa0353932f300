package models

import (
	"time"

	"gorm.io/gorm"
)

// Class is a teaching group. Classes are never deleted; IsActive toggles
// availability and does not cascade to the enrolled students.
type Class struct {
	ID          string `json:"id" gorm:"primaryKey;size:255"`
	Name        string `json:"name" gorm:"not null;size:200;index"`
	Description string `json:"description" gorm:"type:text"`
	IsActive    bool   `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Computed fields (not stored)
	StudentCount int `json:"student_count" gorm:"-"`
}

func (Class) TableName() string {
	return "classes"
}
