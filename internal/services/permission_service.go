package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

type permissionService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewPermissionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) PermissionService {
	return &permissionService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

func (s *permissionService) Submit(ctx context.Context, session *models.Session, req *PermissionSubmitRequest) (*models.PermissionRequest, error) {
	s.logger.Info("Submitting permission request", "student_id", req.StudentID, "date", req.Date)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, s.db, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student.IsArchived {
		return nil, ErrStudentArchived
	}

	// Students may only file for themselves.
	if session != nil && session.Role == models.RoleStudent && session.StudentID != req.StudentID {
		return nil, NewPermissionError(session.UserID, "permission.submit", "students may only submit their own requests")
	}

	request := &models.PermissionRequest{
		ID:        uuid.New().String(),
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Date:      req.Date,
		Reason:    req.Reason,
		Status:    models.PermissionPending,
	}

	if err := s.repo.Permission().Create(ctx, s.db, request); err != nil {
		return nil, fmt.Errorf("failed to create permission request: %w", err)
	}

	s.publishSubmitted(ctx, request)

	return request, nil
}

func (s *permissionService) Resolve(ctx context.Context, session *models.Session, id string, req *PermissionResolveRequest) (*models.PermissionRequest, error) {
	s.logger.Info("Resolving permission request", "request_id", id, "status", req.Status)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	var request *models.PermissionRequest
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		request, err = txRepo.Permission().GetByID(ctx, nil, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPermissionNotFound
			}
			return fmt.Errorf("failed to get permission request: %w", err)
		}

		if verrs := s.validator.GetBusinessValidator().ValidatePermissionTransition(request.Status, req.Status); len(verrs) > 0 {
			if request.Status != models.PermissionPending {
				return ErrPermissionAlreadyResolved
			}
			return verrs
		}

		request.Status = req.Status
		if req.Comment != "" {
			comment := req.Comment
			request.TeacherComment = &comment
		}

		if err := txRepo.Permission().Update(ctx, nil, request); err != nil {
			return fmt.Errorf("failed to update permission request: %w", err)
		}

		if req.Status == models.PermissionApproved {
			if err := s.applyApproval(ctx, txRepo, session, request); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishResolved(ctx, session, request)

	return request, nil
}

// applyApproval marks the approved day in the attendance sheet. An existing
// record moves to PERMISSION with an audit entry; a missing one is created
// with a system note so the approval shows up even before the sheet exists.
func (s *permissionService) applyApproval(ctx context.Context, txRepo repositories.Repository, session *models.Session, request *models.PermissionRequest) error {
	record, err := txRepo.Attendance().GetByStudentAndDate(ctx, nil, request.StudentID, request.Date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to get attendance record: %w", err)
	}

	if record != nil {
		record.Status = models.StatusPermission
		record.History = append(record.History, models.AuditLog{
			Timestamp: time.Now().UTC(),
			UserID:    actorID(session),
			Action:    fmt.Sprintf("Changed status to %s", models.StatusPermission),
			Reason:    fmt.Sprintf("Permission approved: %s", request.Reason),
		})
		if err := txRepo.Attendance().Update(ctx, nil, record); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		return nil
	}

	created := &models.AttendanceRecord{
		ID:        fmt.Sprintf("att_%s_%s", request.StudentID, request.Date),
		StudentID: request.StudentID,
		ClassID:   request.ClassID,
		Date:      request.Date,
		Status:    models.StatusPermission,
		Note:      fmt.Sprintf("System: Permission Approved - %s", request.Reason),
		Locked:    true,
	}
	if err := txRepo.Attendance().Create(ctx, nil, created); err != nil {
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

func (s *permissionService) GetByID(ctx context.Context, id string) (*models.PermissionRequest, error) {
	request, err := s.repo.Permission().GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to get permission request: %w", err)
	}
	return request, nil
}

func (s *permissionService) List(ctx context.Context, filters repositories.PermissionFilters) (*PermissionListResponse, error) {
	page, size := normalizePage(filters.Limit, filters.Offset)
	filters.Limit = size
	filters.Offset = (page - 1) * size

	requests, total, err := s.repo.Permission().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list permission requests: %w", err)
	}

	return &PermissionListResponse{
		Requests: requests,
		ListMeta: buildListMeta(total, page, size),
	}, nil
}

func (s *permissionService) publishSubmitted(ctx context.Context, request *models.PermissionRequest) {
	if s.eventPublisher == nil {
		return
	}

	event := events.NewEvent(events.EventPermissionSubmitted, events.PermissionSubmittedEvent{
		RequestID: request.ID,
		StudentID: request.StudentID,
		ClassID:   request.ClassID,
		Date:      request.Date,
		Reason:    request.Reason,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish permission submitted event", "error", err, "request_id", request.ID)
	}
}

func (s *permissionService) publishResolved(ctx context.Context, session *models.Session, request *models.PermissionRequest) {
	if s.eventPublisher == nil {
		return
	}

	comment := ""
	if request.TeacherComment != nil {
		comment = *request.TeacherComment
	}

	event := events.NewEvent(events.EventPermissionResolved, events.PermissionResolvedEvent{
		RequestID:  request.ID,
		StudentID:  request.StudentID,
		Date:       request.Date,
		Status:     string(request.Status),
		ResolvedBy: actorID(session),
		Comment:    comment,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish permission resolved event", "error", err, "request_id", request.ID)
	}
}
