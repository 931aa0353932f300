package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the common failure cases. Handlers map these to
// HTTP status codes.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrClassNotFound      = errors.New("class not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrPermissionNotFound = errors.New("permission request not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStudentArchived    = errors.New("student is archived")
	ErrTokenRevoked       = errors.New("token has been revoked")

	ErrClassInactive             = errors.New("class is not active")
	ErrAttendanceAlreadyExists   = errors.New("attendance already recorded for this class and date")
	ErrPermissionAlreadyResolved = errors.New("permission request already resolved")
	ErrSnapshotVersionMismatch   = errors.New("unsupported snapshot version")
)

// PermissionError reports an authorization failure: the caller exists but
// their role does not allow the operation.
type PermissionError struct {
	UserID    string
	Operation string
	Reason    string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied for user %s on %s: %s", e.UserID, e.Operation, e.Reason)
}

func NewPermissionError(userID, operation, reason string) *PermissionError {
	return &PermissionError{
		UserID:    userID,
		Operation: operation,
		Reason:    reason,
	}
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrClassNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrAttendanceNotFound) ||
		errors.Is(err, ErrPermissionNotFound)
}

// IsConflict reports whether err is a state conflict the caller can fix by
// reloading.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrAttendanceAlreadyExists) ||
		errors.Is(err, ErrPermissionAlreadyResolved)
}
