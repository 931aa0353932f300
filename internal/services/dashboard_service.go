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
)

// ===== RESPONSE DTOs =====

// StudentDashboardResponse is the student's own attendance view.
type StudentDashboardResponse struct {
	Student *models.Student                     `json:"student"`
	Stats   repositories.StudentAttendanceStats `json:"stats"`
	Recent  []*models.AttendanceRecord          `json:"recent_records"`
	Pending []*models.PermissionRequest         `json:"pending_requests"`
}

type dashboardService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *dashboardService) GetTeacherOverview(ctx context.Context) (*repositories.TeacherOverview, error) {
	s.logger.Info("Getting teacher overview")

	today := time.Now().Format("2006-01-02")
	overview, err := s.repo.Dashboard().GetTeacherOverview(ctx, s.db, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher overview: %w", err)
	}
	return overview, nil
}

func (s *dashboardService) GetClassStats(ctx context.Context, classID, dateFrom, dateTo string) (*repositories.ClassAttendanceStats, error) {
	s.logger.Info("Getting class stats", "class_id", classID, "from", dateFrom, "to", dateTo)

	exists, err := s.repo.Class().Exists(ctx, s.db, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to check class: %w", err)
	}
	if !exists {
		return nil, ErrClassNotFound
	}

	stats, err := s.repo.Dashboard().GetClassStats(ctx, s.db, classID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to get class stats: %w", err)
	}
	return stats, nil
}

func (s *dashboardService) GetStudentDashboard(ctx context.Context, studentID string) (*StudentDashboardResponse, error) {
	s.logger.Info("Getting student dashboard", "student_id", studentID)

	student, err := s.repo.Student().GetByID(ctx, s.db, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	stats, err := s.repo.Dashboard().GetStudentStats(ctx, s.db, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student stats: %w", err)
	}

	recent, _, err := s.repo.Attendance().List(ctx, s.db, repositories.AttendanceFilters{
		StudentID: studentID,
		Limit:     10,
		SortBy:    "date",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent attendance: %w", err)
	}

	pendingStatus := models.PermissionPending
	pending, _, err := s.repo.Permission().List(ctx, s.db, repositories.PermissionFilters{
		StudentID: studentID,
		Status:    &pendingStatus,
		Limit:     20,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	return &StudentDashboardResponse{
		Student: student,
		Stats:   *stats,
		Recent:  recent,
		Pending: pending,
	}, nil
}
