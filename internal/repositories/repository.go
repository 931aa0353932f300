package repositories

import "context"

// Repository aggregates every repository interface behind one entry point.
type Repository interface {
	// Account domain
	User() UserRepository

	// Roster domain
	Class() ClassRepository
	Student() StudentRepository

	// Attendance domain
	Attendance() AttendanceRepository
	Permission() PermissionRepository

	// Reporting
	Dashboard() DashboardRepository

	// Full-state export/import
	Snapshot() SnapshotRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
