package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/cache"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	user       repositories.UserRepository
	class      repositories.ClassRepository
	student    repositories.StudentRepository
	attendance repositories.AttendanceRepository
	permission repositories.PermissionRepository
	dashboard  repositories.DashboardRepository
	snapshot   repositories.SnapshotRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cache.NewCacheManager(config.RedisClient),
	}

	repo.user = NewUserPostgreSQL(config.DB, config.RedisClient)
	repo.class = NewClassPostgreSQL(config.DB, config.RedisClient)
	repo.student = NewStudentPostgreSQL(config.DB, config.RedisClient)
	repo.attendance = NewAttendancePostgreSQL(config.DB, config.RedisClient)
	repo.permission = NewPermissionPostgreSQL(config.DB)
	repo.dashboard = NewDashboardPostgreSQL(config.DB, config.RedisClient)
	repo.snapshot = NewSnapshotPostgreSQL(config.DB, config.RedisClient)

	return repo
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

func (r *PostgreSQLRepository) Class() repositories.ClassRepository {
	return r.class
}

func (r *PostgreSQLRepository) Student() repositories.StudentRepository {
	return r.student
}

func (r *PostgreSQLRepository) Attendance() repositories.AttendanceRepository {
	return r.attendance
}

func (r *PostgreSQLRepository) Permission() repositories.PermissionRepository {
	return r.permission
}

func (r *PostgreSQLRepository) Dashboard() repositories.DashboardRepository {
	return r.dashboard
}

func (r *PostgreSQLRepository) Snapshot() repositories.SnapshotRepository {
	return r.snapshot
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		txRepo.user = NewUserPostgreSQL(tx, r.redisClient)
		txRepo.class = NewClassPostgreSQL(tx, r.redisClient)
		txRepo.student = NewStudentPostgreSQL(tx, r.redisClient)
		txRepo.attendance = NewAttendancePostgreSQL(tx, r.redisClient)
		txRepo.permission = NewPermissionPostgreSQL(tx)
		txRepo.dashboard = NewDashboardPostgreSQL(tx, r.redisClient)
		txRepo.snapshot = NewSnapshotPostgreSQL(tx, r.redisClient)

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully closes all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
