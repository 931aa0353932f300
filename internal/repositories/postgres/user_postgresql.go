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

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if err := r.getDB(tx).WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	cache.InvalidateUserCache(ctx, r.cacheManager, user.ID, user.Email)
	return nil
}

// GetByID reads through the user cache; Create and Update invalidate the
// same keys.
func (r *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var user models.User

	err := r.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var fetched models.User
		if err := r.getDB(tx).WithContext(ctx).First(&fetched, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &fetched, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	cacheKey := fmt.Sprintf("email:%s", email)
	var user models.User

	err := r.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var fetched models.User
		if err := r.getDB(tx).WithContext(ctx).First(&fetched, "email = ?", email).Error; err != nil {
			return nil, err
		}
		return &fetched, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (r *UserPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.User{})
	query = applySearch(query, filters.Search, "name", "email")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*models.User
	query = ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func (r *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	// An email change must drop the old email key as well.
	var prior models.User
	priorErr := r.getDB(tx).WithContext(ctx).
		Select("email").
		First(&prior, "id = ?", user.ID).Error

	if err := r.getDB(tx).WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	cache.InvalidateUserCache(ctx, r.cacheManager, user.ID, user.Email)
	if priorErr == nil && prior.Email != "" && prior.Email != user.Email {
		cache.SafeDelete(ctx, r.cacheManager.User, fmt.Sprintf("email:%s", prior.Email))
	}
	return nil
}
