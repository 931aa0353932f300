package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type PermissionPostgreSQL struct {
	db *gorm.DB
}

func NewPermissionPostgreSQL(db *gorm.DB) repositories.PermissionRepository {
	return &PermissionPostgreSQL{db: db}
}

func (r *PermissionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *PermissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, req *models.PermissionRequest) error {
	if err := r.getDB(tx).WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create permission request: %w", err)
	}
	return nil
}

func (r *PermissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.PermissionRequest, error) {
	var req models.PermissionRequest
	err := r.getDB(tx).WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get permission request: %w", err)
	}
	return &req, nil
}

func (r *PermissionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, req *models.PermissionRequest) error {
	if err := r.getDB(tx).WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to update permission request: %w", err)
	}
	return nil
}

func (r *PermissionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.PermissionFilters) ([]*models.PermissionRequest, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.PermissionRequest{})

	if filters.StudentID != "" {
		query = query.Where("student_id = ?", filters.StudentID)
	}
	if filters.ClassID != "" {
		query = query.Where("class_id = ?", filters.ClassID)
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
		return nil, 0, fmt.Errorf("failed to count permission requests: %w", err)
	}

	var requests []*models.PermissionRequest
	query = ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list permission requests: %w", err)
	}

	return requests, total, nil
}
