package models

// Snapshot is a full-state export of every collection. Importing a snapshot
// and exporting again must reproduce an identical document.
type Snapshot struct {
	Version     int                 `json:"version"`
	Users       []User              `json:"users"`
	Classes     []Class             `json:"classes"`
	Students    []Student           `json:"students"`
	Attendance  []AttendanceRecord  `json:"attendance"`
	Permissions []PermissionRequest `json:"permissions"`
}

// SnapshotVersion is the current snapshot document version.
const SnapshotVersion = 1
