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

type DashboardPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewDashboardPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.DashboardRepository {
	return &DashboardPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *DashboardPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// GetTeacherOverview aggregates the teacher landing-page counters.
func (r *DashboardPostgreSQL) GetTeacherOverview(ctx context.Context, tx *gorm.DB, today string) (*repositories.TeacherOverview, error) {
	cacheKey := fmt.Sprintf("overview:%s", today)
	var overview repositories.TeacherOverview

	err := r.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &overview, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		db := r.getDB(tx).WithContext(ctx)
		var out repositories.TeacherOverview

		if err := db.Model(&models.Class{}).Count(&out.TotalClasses).Error; err != nil {
			return nil, fmt.Errorf("failed to count classes: %w", err)
		}
		if err := db.Model(&models.Class{}).Where("is_active = ?", true).Count(&out.ActiveClasses).Error; err != nil {
			return nil, fmt.Errorf("failed to count active classes: %w", err)
		}
		if err := db.Model(&models.Student{}).Where("is_archived = ?", false).Count(&out.ActiveStudents).Error; err != nil {
			return nil, fmt.Errorf("failed to count active students: %w", err)
		}
		if err := db.Model(&models.Student{}).Where("is_archived = ?", true).Count(&out.ArchivedStudents).Error; err != nil {
			return nil, fmt.Errorf("failed to count archived students: %w", err)
		}
		if err := db.Model(&models.PermissionRequest{}).Where("status = ?", models.PermissionPending).Count(&out.PendingPermissions).Error; err != nil {
			return nil, fmt.Errorf("failed to count pending permissions: %w", err)
		}

		type statusCount struct {
			Status models.AttendanceStatus
			Count  int64
		}
		var counts []statusCount
		if err := db.Model(&models.AttendanceRecord{}).
			Select("status, COUNT(*) as count").
			Where("date = ?", today).
			Group("status").
			Scan(&counts).Error; err != nil {
			return nil, fmt.Errorf("failed to count today's attendance: %w", err)
		}
		for _, c := range counts {
			switch c.Status {
			case models.StatusPresent:
				out.TodayPresent = c.Count
			case models.StatusAbsent:
				out.TodayAbsent = c.Count
			case models.StatusPermission:
				out.TodayPermission = c.Count
			}
		}

		return &out, nil
	})
	if err != nil {
		return nil, err
	}

	return &overview, nil
}

// GetClassStats aggregates attendance counts for a class over a date range.
func (r *DashboardPostgreSQL) GetClassStats(ctx context.Context, tx *gorm.DB, classID, dateFrom, dateTo string) (*repositories.ClassAttendanceStats, error) {
	cacheKey := fmt.Sprintf("class:%s:%s:%s", classID, dateFrom, dateTo)
	var stats repositories.ClassAttendanceStats

	err := r.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		out, err := r.aggregateStats(ctx, tx, "class_id = ?", classID, dateFrom, dateTo)
		if err != nil {
			return nil, err
		}
		return &repositories.ClassAttendanceStats{
			TotalRecords:    out.TotalRecords,
			PresentCount:    out.PresentCount,
			AbsentCount:     out.AbsentCount,
			PermissionCount: out.PermissionCount,
			AttendanceRate:  out.AttendanceRate,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// GetStudentStats aggregates a student's full attendance history.
func (r *DashboardPostgreSQL) GetStudentStats(ctx context.Context, tx *gorm.DB, studentID string) (*repositories.StudentAttendanceStats, error) {
	cacheKey := fmt.Sprintf("student:%s", studentID)
	var stats repositories.StudentAttendanceStats

	err := r.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		out, err := r.aggregateStats(ctx, tx, "student_id = ?", studentID, "", "")
		if err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *DashboardPostgreSQL) aggregateStats(ctx context.Context, tx *gorm.DB, cond, arg, dateFrom, dateTo string) (*repositories.StudentAttendanceStats, error) {
	query := r.getDB(tx).WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where(cond, arg)
	if dateFrom != "" {
		query = query.Where("date >= ?", dateFrom)
	}
	if dateTo != "" {
		query = query.Where("date <= ?", dateTo)
	}

	type statusCount struct {
		Status models.AttendanceStatus
		Count  int64
	}
	var counts []statusCount
	if err := query.
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance stats: %w", err)
	}

	var out repositories.StudentAttendanceStats
	for _, c := range counts {
		out.TotalRecords += c.Count
		switch c.Status {
		case models.StatusPresent:
			out.PresentCount = c.Count
		case models.StatusAbsent:
			out.AbsentCount = c.Count
		case models.StatusPermission:
			out.PermissionCount = c.Count
		}
	}
	if out.TotalRecords > 0 {
		out.AttendanceRate = float64(out.PresentCount) / float64(out.TotalRecords) * 100
	}

	return &out, nil
}
