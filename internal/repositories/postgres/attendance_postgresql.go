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

type AttendancePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAttendancePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *AttendancePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *AttendancePostgreSQL) Create(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error {
	if err := r.getDB(tx).WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	cache.InvalidateAttendanceCache(ctx, r.cacheManager, record.ClassID, record.StudentID, record.Date)
	return nil
}

func (r *AttendancePostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, records []*models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := r.getDB(tx).WithContext(ctx).Create(&records).Error; err != nil {
		return fmt.Errorf("failed to create attendance records: %w", err)
	}

	for _, record := range records {
		cache.InvalidateAttendanceCache(ctx, r.cacheManager, record.ClassID, record.StudentID, record.Date)
	}
	return nil
}

func (r *AttendancePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.getDB(tx).WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &record, nil
}

func (r *AttendancePostgreSQL) GetByStudentAndDate(ctx context.Context, tx *gorm.DB, studentID, date string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.getDB(tx).WithContext(ctx).
		First(&record, "student_id = ? AND date = ?", studentID, date).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &record, nil
}

func (r *AttendancePostgreSQL) Update(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error {
	if err := r.getDB(tx).WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	cache.InvalidateAttendanceCache(ctx, r.cacheManager, record.ClassID, record.StudentID, record.Date)
	return nil
}

func (r *AttendancePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.AttendanceRecord, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.AttendanceRecord{})

	if filters.ClassID != "" {
		query = query.Where("class_id = ?", filters.ClassID)
	}
	if filters.StudentID != "" {
		query = query.Where("student_id = ?", filters.StudentID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != "" {
		query = query.Where("date >= ?", filters.DateFrom)
	}
	if filters.DateTo != "" {
		query = query.Where("date <= ?", filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "date"
	}

	var records []*models.AttendanceRecord
	query = ApplyPaginationAndSort(query, sortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return records, total, nil
}

// ExistsForClassDate reports whether the class/date sheet has already been
// submitted, with a short-lived cache since the check runs before every
// sheet render.
func (r *AttendancePostgreSQL) ExistsForClassDate(ctx context.Context, tx *gorm.DB, classID, date string) (bool, error) {
	cacheKey := fmt.Sprintf("sheet:%s:%s", classID, date)
	if cached, err := r.cacheManager.Exists.GetString(ctx, cacheKey); err == nil {
		return cached == "1", nil
	}

	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("class_id = ? AND date = ?", classID, date).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check attendance sheet: %w", err)
	}

	exists := count > 0
	// Only cache the positive result: a sheet that exists never un-exists,
	// while a missing sheet may be submitted at any moment.
	if exists {
		val := "1"
		if err := r.cacheManager.Exists.SetString(ctx, cacheKey, val, cache.ExistsCacheConfig.TTL); err != nil {
			cache.SafeDelete(ctx, r.cacheManager.Exists, cacheKey)
		}
	}

	return exists, nil
}
