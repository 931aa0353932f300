package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/cache"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

// SnapshotPostgreSQL moves the entire application state in and out as one
// document. Import is destructive and expected to run inside a transaction.
type SnapshotPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSnapshotPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SnapshotRepository {
	return &SnapshotPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *SnapshotPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *SnapshotPostgreSQL) Export(ctx context.Context, tx *gorm.DB) (*models.Snapshot, error) {
	db := r.getDB(tx).WithContext(ctx)
	snapshot := &models.Snapshot{Version: models.SnapshotVersion}

	if err := db.Order("id ASC").Find(&snapshot.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Classes).Error; err != nil {
		return nil, fmt.Errorf("failed to export classes: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Students).Error; err != nil {
		return nil, fmt.Errorf("failed to export students: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Attendance).Error; err != nil {
		return nil, fmt.Errorf("failed to export attendance: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Permissions).Error; err != nil {
		return nil, fmt.Errorf("failed to export permissions: %w", err)
	}

	return snapshot, nil
}

func (r *SnapshotPostgreSQL) Import(ctx context.Context, tx *gorm.DB, snapshot *models.Snapshot) error {
	db := r.getDB(tx).WithContext(ctx)

	// Clear in dependency order, then load.
	tables := []interface{}{
		&models.AttendanceRecord{},
		&models.PermissionRequest{},
		&models.Student{},
		&models.Class{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table during import: %w", err)
		}
	}

	if len(snapshot.Users) > 0 {
		if err := db.Create(&snapshot.Users).Error; err != nil {
			return fmt.Errorf("failed to import users: %w", err)
		}
	}
	if len(snapshot.Classes) > 0 {
		if err := db.Create(&snapshot.Classes).Error; err != nil {
			return fmt.Errorf("failed to import classes: %w", err)
		}
	}
	if len(snapshot.Students) > 0 {
		if err := db.Create(&snapshot.Students).Error; err != nil {
			return fmt.Errorf("failed to import students: %w", err)
		}
	}
	if len(snapshot.Attendance) > 0 {
		if err := db.Create(&snapshot.Attendance).Error; err != nil {
			return fmt.Errorf("failed to import attendance: %w", err)
		}
	}
	if len(snapshot.Permissions) > 0 {
		if err := db.Create(&snapshot.Permissions).Error; err != nil {
			return fmt.Errorf("failed to import permissions: %w", err)
		}
	}

	// Every cached roster, stat, and sheet-existence entry describes the
	// replaced dataset now.
	cache.InvalidateAllCaches(ctx, r.cacheManager)

	return nil
}
