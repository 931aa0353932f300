package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

type studentService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewStudentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) StudentService {
	return &studentService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

func (s *studentService) Create(ctx context.Context, req *StudentCreateRequest) (*models.Student, error) {
	s.logger.Info("Creating student", "name", req.Name, "class_id", req.ClassID)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	classExists, err := s.repo.Class().Exists(ctx, s.db, req.ClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to check class: %w", err)
	}
	if !classExists {
		return nil, ErrClassNotFound
	}

	id, err := s.generateStudentID(ctx)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		ID:               id,
		Name:             req.Name,
		DOB:              req.DOB,
		Origin:           req.Origin,
		Phone:            req.Phone,
		ClassID:          req.ClassID,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		Photo:            req.Photo,
	}

	if err := s.repo.Student().Create(ctx, s.db, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return student, nil
}

func (s *studentService) Update(ctx context.Context, id string, req *StudentUpdateRequest) (*models.Student, error) {
	s.logger.Info("Updating student", "student_id", id)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClassID != nil && *req.ClassID != student.ClassID {
		classExists, err := s.repo.Class().Exists(ctx, s.db, *req.ClassID)
		if err != nil {
			return nil, fmt.Errorf("failed to check class: %w", err)
		}
		if !classExists {
			return nil, ErrClassNotFound
		}
		student.ClassID = *req.ClassID
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.DOB != nil {
		student.DOB = *req.DOB
	}
	if req.Origin != nil {
		student.Origin = *req.Origin
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.Address != nil {
		student.Address = req.Address
	}
	if req.EmergencyContact != nil {
		student.EmergencyContact = req.EmergencyContact
	}
	if req.Photo != nil {
		student.Photo = req.Photo
	}
	if req.IsArchived != nil {
		student.IsArchived = *req.IsArchived
	}

	if err := s.repo.Student().Update(ctx, s.db, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	return student, nil
}

// Archive flags the student instead of deleting, so attendance history
// stays intact.
func (s *studentService) Archive(ctx context.Context, id string) (*models.Student, error) {
	s.logger.Info("Archiving student", "student_id", id)

	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if student.IsArchived {
		return student, nil
	}

	student.IsArchived = true
	if err := s.repo.Student().Update(ctx, s.db, student); err != nil {
		return nil, fmt.Errorf("failed to archive student: %w", err)
	}

	s.publishArchived(ctx, student)

	return student, nil
}

func (s *studentService) publishArchived(ctx context.Context, student *models.Student) {
	if s.eventPublisher == nil {
		return
	}

	event := events.NewEvent(events.EventStudentArchived, events.StudentArchivedEvent{
		StudentID: student.ID,
		ClassID:   student.ClassID,
		Name:      student.Name,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish student archived event", "error", err, "student_id", student.ID)
	}
}

func (s *studentService) GetByID(ctx context.Context, id string) (*models.Student, error) {
	return s.getStudent(ctx, id)
}

func (s *studentService) List(ctx context.Context, filters repositories.StudentFilters) (*StudentListResponse, error) {
	page, size := normalizePage(filters.Limit, filters.Offset)
	filters.Limit = size
	filters.Offset = (page - 1) * size

	students, total, err := s.repo.Student().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return &StudentListResponse{
		Students: students,
		ListMeta: buildListMeta(total, page, size),
	}, nil
}

func (s *studentService) GetRoster(ctx context.Context, classID string) ([]*models.Student, error) {
	exists, err := s.repo.Class().Exists(ctx, s.db, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to check class: %w", err)
	}
	if !exists {
		return nil, ErrClassNotFound
	}

	roster, err := s.repo.Student().GetRoster(ctx, s.db, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	return roster, nil
}

func (s *studentService) getStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

// generateStudentID picks a random STD-NNNN id, retrying on collision.
func (s *studentService) generateStudentID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		id := fmt.Sprintf("STD-%04d", rand.Intn(10000))
		exists, err := s.repo.Student().Exists(ctx, s.db, id)
		if err != nil {
			return "", fmt.Errorf("failed to check student id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique student id")
}
