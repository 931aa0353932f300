package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

type classService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewClassService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ClassService {
	return &classService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *classService) Create(ctx context.Context, req *ClassCreateRequest) (*models.Class, error) {
	s.logger.Info("Creating class", "name", req.Name)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	class := &models.Class{
		ID:          fmt.Sprintf("c_%d", time.Now().UnixMilli()),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		class.IsActive = *req.IsActive
	}

	if err := s.repo.Class().Create(ctx, s.db, class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}

	return class, nil
}

func (s *classService) Update(ctx context.Context, id string, req *ClassUpdateRequest) (*models.Class, error) {
	s.logger.Info("Updating class", "class_id", id)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	class, err := s.repo.Class().GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.Description != nil {
		class.Description = *req.Description
	}
	if req.IsActive != nil {
		class.IsActive = *req.IsActive
	}

	if err := s.repo.Class().Update(ctx, s.db, class); err != nil {
		return nil, fmt.Errorf("failed to update class: %w", err)
	}

	return class, nil
}

func (s *classService) GetByID(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.Class().GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return class, nil
}

func (s *classService) List(ctx context.Context, filters repositories.ClassFilters) (*ClassListResponse, error) {
	page, size := normalizePage(filters.Limit, filters.Offset)
	filters.Limit = size
	filters.Offset = (page - 1) * size

	classes, total, err := s.repo.Class().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}

	return &ClassListResponse{
		Classes:  classes,
		ListMeta: buildListMeta(total, page, size),
	}, nil
}

// normalizePage converts limit/offset filters into sane page/size values.
func normalizePage(limit, offset int) (page, size int) {
	size = limit
	if size < 1 || size > 100 {
		size = 20
	}
	page = offset/size + 1
	if page < 1 {
		page = 1
	}
	return page, size
}

func buildListMeta(total int64, page, size int) ListMeta {
	totalPages := int((total + int64(size) - 1) / int64(size))
	return ListMeta{
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}
