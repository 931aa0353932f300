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

type StudentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewStudentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.StudentRepository {
	return &StudentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *StudentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *StudentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if err := r.getDB(tx).WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	cache.InvalidateRosterCache(ctx, r.cacheManager, student.ClassID)
	return nil
}

func (r *StudentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error) {
	var student models.Student
	err := r.getDB(tx).WithContext(ctx).First(&student, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func (r *StudentPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check student existence: %w", err)
	}
	return count > 0, nil
}

func (r *StudentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	// A class move must drop the old class's cached roster too, or it keeps
	// listing the student until the TTL runs out.
	var prior models.Student
	priorErr := r.getDB(tx).WithContext(ctx).
		Select("class_id").
		First(&prior, "id = ?", student.ID).Error

	if err := r.getDB(tx).WithContext(ctx).Save(student).Error; err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	cache.InvalidateRosterCache(ctx, r.cacheManager, student.ClassID)
	if priorErr == nil && prior.ClassID != "" && prior.ClassID != student.ClassID {
		cache.InvalidateRosterCache(ctx, r.cacheManager, prior.ClassID)
	}
	return nil
}

func (r *StudentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.Student{})

	if filters.ClassID != "" {
		query = query.Where("class_id = ?", filters.ClassID)
	}
	if !filters.IncludeArchived {
		query = query.Where("is_archived = ?", false)
	}
	query = applySearch(query, filters.Search, "name", "id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	var students []*models.Student
	query = ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}

	return students, total, nil
}

// GetRoster returns the active students of a class, cached for the duration
// of a typical attendance-taking session.
func (r *StudentPostgreSQL) GetRoster(ctx context.Context, tx *gorm.DB, classID string) ([]*models.Student, error) {
	cacheKey := fmt.Sprintf("class:%s", classID)
	var roster []*models.Student

	err := r.cacheManager.Roster.CacheOrExecute(ctx, cacheKey, &roster, cache.RosterCacheConfig.TTL, func() (interface{}, error) {
		var students []*models.Student
		err := r.getDB(tx).WithContext(ctx).
			Where("class_id = ? AND is_archived = ?", classID, false).
			Order("name ASC").
			Find(&students).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get roster: %w", err)
		}
		return students, nil
	})
	if err != nil {
		return nil, err
	}

	return roster, nil
}
