package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/cache"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type ClassPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewClassPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ClassRepository {
	return &ClassPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *ClassPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ClassPostgreSQL) Create(ctx context.Context, tx *gorm.DB, class *models.Class) error {
	if err := r.getDB(tx).WithContext(ctx).Create(class).Error; err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	cache.InvalidateRosterCache(ctx, r.cacheManager, class.ID)
	return nil
}

func (r *ClassPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Class, error) {
	var class models.Class
	err := r.getDB(tx).WithContext(ctx).First(&class, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return &class, nil
}

func (r *ClassPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.Class{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check class existence: %w", err)
	}
	return count > 0, nil
}

func (r *ClassPostgreSQL) Update(ctx context.Context, tx *gorm.DB, class *models.Class) error {
	if err := r.getDB(tx).WithContext(ctx).Save(class).Error; err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}
	cache.InvalidateRosterCache(ctx, r.cacheManager, class.ID)
	return nil
}

func (r *ClassPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ClassFilters) ([]*models.Class, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.Class{})

	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	query = applySearch(query, filters.Search, "name", "description")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count classes: %w", err)
	}

	var classes []*models.Class
	query = ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&classes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list classes: %w", err)
	}

	// Attach active-roster sizes
	for _, class := range classes {
		var count int64
		if err := r.getDB(tx).WithContext(ctx).
			Model(&models.Student{}).
			Where("class_id = ? AND is_archived = ?", class.ID, false).
			Count(&count).Error; err == nil {
			class.StudentCount = int(count)
		}
	}

	return classes, total, nil
}
