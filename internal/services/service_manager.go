package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	Auth AuthConfig

	// Global settings
	DefaultTimeout time.Duration
	LogLevel       slog.Level
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db             *gorm.DB
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	redisClient    *redis.Client
	eventPublisher events.EventPublisher
	config         ServiceManagerConfig

	// Service instances
	authService         AuthService
	classService        ClassService
	studentService      StudentService
	attendanceService   AttendanceService
	permissionService   PermissionService
	dashboardService    DashboardService
	exportService       ExportService
	snapshotService     SnapshotService
	notificationService NotificationEventService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, redisClient *redis.Client, eventPublisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:             db,
		repo:           repo,
		logger:         logger,
		validator:      validator,
		redisClient:    redisClient,
		eventPublisher: eventPublisher,
		config:         config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, redisClient *redis.Client, eventPublisher events.EventPublisher, auth AuthConfig) ServiceManager {
	config := ServiceManagerConfig{
		Auth:           auth,
		DefaultTimeout: 30 * time.Second,
		LogLevel:       slog.LevelInfo,
	}

	return NewServiceManager(db, repo, logger, validator, redisClient, eventPublisher, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, sm.redisClient, sm.config.Auth)
	sm.classService = NewClassService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.studentService = NewStudentService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
	sm.attendanceService = NewAttendanceService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
	sm.permissionService = NewPermissionService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
	sm.dashboardService = NewDashboardService(sm.repo, sm.db, sm.logger)
	sm.exportService = NewExportService(sm.repo, sm.db, sm.logger)
	sm.snapshotService = NewSnapshotService(sm.repo, sm.db, sm.logger)
	sm.notificationService = NewNotificationEventService(sm.repo, sm.eventPublisher, sm.logger, sm.validator)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) Class() ClassService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.classService
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.studentService
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.attendanceService
}

func (sm *serviceManager) Permission() PermissionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.permissionService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.exportService
}

func (sm *serviceManager) Snapshot() SnapshotService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.snapshotService
}

func (sm *serviceManager) Notification() NotificationEventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.notificationService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if repoManager, ok := sm.repo.(repositories.RepositoryManager); ok {
		if err := repoManager.Shutdown(ctx); err != nil {
			sm.logger.Error("Failed to shutdown repository manager", "error", err)
		}
	} else if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}
