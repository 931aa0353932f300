package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is a roster member. IsArchived is a soft-delete flag: archived
// students are excluded from active rosters and cannot log in.
type Student struct {
	ID      string `json:"id" gorm:"primaryKey;size:255"`
	Name    string `json:"name" gorm:"not null;size:100"`
	DOB     string `json:"dob" gorm:"size:10"`
	Origin  string `json:"origin" gorm:"size:100"`
	Phone   string `json:"phone" gorm:"size:30"`
	ClassID string `json:"class_id" gorm:"not null;index;size:255"`

	Address          *string `json:"address,omitempty" gorm:"size:300"`
	EmergencyContact *string `json:"emergency_contact,omitempty" gorm:"size:100"`
	Photo            *string `json:"photo,omitempty" gorm:"size:500"`

	IsArchived bool `json:"is_archived" gorm:"not null;default:false;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Class Class `json:"-" gorm:"foreignKey:ClassID"`
}

func (Student) TableName() string {
	return "students"
}
