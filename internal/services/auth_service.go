package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// AuthConfig carries the token signing settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type sessionClaims struct {
	Role      models.UserRole `json:"role"`
	Name      string          `json:"name"`
	StudentID string          `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	redis     *redis.Client
	config    AuthConfig
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, redisClient *redis.Client, config AuthConfig) AuthService {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		redis:     redisClient,
		config:    config,
	}
}

func (s *authService) RegisterTeacher(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	s.logger.Info("Registering teacher", "email", req.Email)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, s.db, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           fmt.Sprintf("u_%d", time.Now().UnixMilli()),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleTeacher,
	}

	if err := s.repo.User().Create(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	session := models.Session{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
	}

	return s.issueToken(session)
}

func (s *authService) LoginTeacher(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	s.logger.Info("Teacher login attempt", "email", req.Email)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, s.db, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := models.Session{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
	}

	return s.issueToken(session)
}

func (s *authService) LoginStudent(ctx context.Context, req *StudentLoginRequest) (*AuthResponse, error) {
	s.logger.Info("Student login attempt", "student_id", req.StudentID)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, s.db, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	// Archived students keep their history but lose access.
	if student.IsArchived {
		return nil, ErrInvalidCredentials
	}

	session := models.Session{
		UserID:    student.ID,
		Role:      models.RoleStudent,
		Name:      student.Name,
		StudentID: student.ID,
	}

	return s.issueToken(session)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}

	if s.redis == nil {
		s.logger.Warn("Redis not available, logout is a no-op")
		return nil
	}

	// Revoke for the token's remaining lifetime only.
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	key := fmt.Sprintf("attendance:revoked:%s", claims.ID)
	if err := s.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info("Token revoked", "user_id", claims.Subject)
	return nil
}

func (s *authService) VerifyToken(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		key := fmt.Sprintf("attendance:revoked:%s", claims.ID)
		revoked, err := s.redis.Exists(ctx, key).Result()
		if err != nil {
			s.logger.Warn("Failed to check token revocation", "error", err)
		} else if revoked > 0 {
			return nil, ErrTokenRevoked
		}
	}

	return &models.Session{
		UserID:    claims.Subject,
		Role:      claims.Role,
		Name:      claims.Name,
		StudentID: claims.StudentID,
	}, nil
}

func (s *authService) issueToken(session models.Session) (*AuthResponse, error) {
	now := time.Now()
	claims := sessionClaims{
		Role:      session.Role,
		Name:      session.Name,
		StudentID: session.StudentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   session.UserID,
			Issuer:    "attendance-service",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResponse{
		Token:     signed,
		ExpiresIn: int64(s.config.TokenTTL.Seconds()),
		Session:   session,
	}, nil
}

func (s *authService) parseToken(token string) (*sessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}

	return claims, nil
}
