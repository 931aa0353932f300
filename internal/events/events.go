package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published by the attendance service
const (
	EventAttendanceRecorded   = "attendance.recorded"
	EventAttendanceOverridden = "attendance.overridden"
	EventPermissionSubmitted  = "permission.submitted"
	EventPermissionResolved   = "permission.resolved"
	EventStudentArchived      = "roster.student_archived"
	EventBulkNotification     = "system.bulk_notification"
)

// Event is the envelope for every message published to the broker.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with the service identity filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "attendance-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher abstracts the message broker
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// AttendanceRecordedEvent is emitted once per submitted daily sheet.
type AttendanceRecordedEvent struct {
	ClassID      string `json:"class_id"`
	Date         string `json:"date"`
	RecordedBy   string `json:"recorded_by"`
	PresentCount int    `json:"present_count"`
	AbsentCount  int    `json:"absent_count"`
	TotalCount   int    `json:"total_count"`
}

// AttendanceOverriddenEvent is emitted for every audited correction.
type AttendanceOverriddenEvent struct {
	RecordID   string `json:"record_id"`
	StudentID  string `json:"student_id"`
	Date       string `json:"date"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
	Reason     string `json:"reason"`
	ChangedBy  string `json:"changed_by"`
	AuditDepth int    `json:"audit_depth"`
}

// PermissionSubmittedEvent notifies teachers of a new pending request.
type PermissionSubmittedEvent struct {
	RequestID string `json:"request_id"`
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
	Date      string `json:"date"`
	Reason    string `json:"reason"`
}

// PermissionResolvedEvent notifies the student of the outcome.
type PermissionResolvedEvent struct {
	RequestID  string `json:"request_id"`
	StudentID  string `json:"student_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	ResolvedBy string `json:"resolved_by"`
	Comment    string `json:"comment,omitempty"`
}

// StudentArchivedEvent is emitted when a student is soft-deleted from the
// roster.
type StudentArchivedEvent struct {
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
	Name      string `json:"name"`
}

// BulkNotificationEvent fans a message out to a set of users.
type BulkNotificationEvent struct {
	UserIDs []string `json:"user_ids"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
}
