package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

type attendanceService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewAttendanceService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) AttendanceService {
	return &attendanceService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

func (s *attendanceService) RecordDailySheet(ctx context.Context, session *models.Session, req *AttendanceSheetRequest) ([]*models.AttendanceRecord, error) {
	s.logger.Info("Recording daily sheet", "class_id", req.ClassID, "date", req.Date, "entries", len(req.Entries))

	if verrs := s.validator.GetBusinessValidator().ValidateAttendanceSheet(req); len(verrs) > 0 {
		return nil, verrs
	}

	class, err := s.repo.Class().GetByID(ctx, s.db, req.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if !class.IsActive {
		return nil, ErrClassInactive
	}

	roster, err := s.repo.Student().GetRoster(ctx, s.db, req.ClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	// Entries addressing students outside the active roster are rejected.
	rosterByID := make(map[string]*models.Student, len(roster))
	for _, st := range roster {
		rosterByID[st.ID] = st
	}
	marked := make(map[string]models.AttendanceStatus, len(req.Entries))
	notes := make(map[string]string, len(req.Entries))
	for _, entry := range req.Entries {
		if _, ok := rosterByID[entry.StudentID]; !ok {
			return nil, fmt.Errorf("student %s is not on the roster of class %s: %w", entry.StudentID, req.ClassID, ErrStudentNotFound)
		}
		marked[entry.StudentID] = entry.Status
		notes[entry.StudentID] = entry.Note
	}

	var records []*models.AttendanceRecord
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		exists, err := txRepo.Attendance().ExistsForClassDate(ctx, nil, req.ClassID, req.Date)
		if err != nil {
			return fmt.Errorf("failed to check existing sheet: %w", err)
		}
		if exists {
			return ErrAttendanceAlreadyExists
		}

		// One record per roster student; unmarked students default to ABSENT.
		records = make([]*models.AttendanceRecord, 0, len(roster))
		for _, st := range roster {
			status, ok := marked[st.ID]
			if !ok {
				status = models.StatusAbsent
			}
			records = append(records, &models.AttendanceRecord{
				ID:        fmt.Sprintf("att_%s_%s", st.ID, req.Date),
				StudentID: st.ID,
				ClassID:   req.ClassID,
				Date:      req.Date,
				Status:    status,
				Note:      notes[st.ID],
				Locked:    true,
				History:   nil,
			})
		}

		return txRepo.Attendance().CreateBatch(ctx, nil, records)
	})
	if err != nil {
		return nil, err
	}

	s.publishSheetRecorded(ctx, session, req, records)

	return records, nil
}

func (s *attendanceService) OverrideStatus(ctx context.Context, session *models.Session, recordID string, req *OverrideRequest) (*models.AttendanceRecord, error) {
	s.logger.Info("Overriding attendance status", "record_id", recordID, "status", req.Status)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	var record *models.AttendanceRecord
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		record, err = txRepo.Attendance().GetByID(ctx, nil, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttendanceNotFound
			}
			return fmt.Errorf("failed to get attendance record: %w", err)
		}

		oldStatus := record.Status
		record.Status = req.Status
		record.History = append(record.History, models.AuditLog{
			Timestamp: time.Now().UTC(),
			UserID:    actorID(session),
			Action:    fmt.Sprintf("Changed status to %s", req.Status),
			Reason:    req.Reason,
		})

		if err := txRepo.Attendance().Update(ctx, nil, record); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}

		s.publishOverride(ctx, session, record, oldStatus, req.Reason)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (s *attendanceService) GetByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	record, err := s.repo.Attendance().GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return record, nil
}

func (s *attendanceService) GetSheet(ctx context.Context, classID, date string) (*SheetResponse, error) {
	exists, err := s.repo.Class().Exists(ctx, s.db, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to check class: %w", err)
	}
	if !exists {
		return nil, ErrClassNotFound
	}

	records, _, err := s.repo.Attendance().List(ctx, s.db, repositories.AttendanceFilters{
		ClassID:  classID,
		DateFrom: date,
		DateTo:   date,
		Limit:    1000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	roster, err := s.repo.Student().GetRoster(ctx, s.db, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	recorded := make(map[string]bool, len(records))
	for _, r := range records {
		recorded[r.StudentID] = true
	}

	unmarked := make([]*models.Student, 0)
	for _, st := range roster {
		if !recorded[st.ID] {
			unmarked = append(unmarked, st)
		}
	}

	return &SheetResponse{
		ClassID:  classID,
		Date:     date,
		Records:  records,
		Unmarked: unmarked,
	}, nil
}

func (s *attendanceService) List(ctx context.Context, filters repositories.AttendanceFilters) (*AttendanceListResponse, error) {
	page, size := normalizePage(filters.Limit, filters.Offset)
	filters.Limit = size
	filters.Offset = (page - 1) * size

	records, total, err := s.repo.Attendance().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	return &AttendanceListResponse{
		Records:  records,
		ListMeta: buildListMeta(total, page, size),
	}, nil
}

func (s *attendanceService) publishSheetRecorded(ctx context.Context, session *models.Session, req *AttendanceSheetRequest, records []*models.AttendanceRecord) {
	if s.eventPublisher == nil {
		return
	}

	var present, absent int
	for _, r := range records {
		switch r.Status {
		case models.StatusPresent:
			present++
		case models.StatusAbsent:
			absent++
		}
	}

	event := events.NewEvent(events.EventAttendanceRecorded, events.AttendanceRecordedEvent{
		ClassID:      req.ClassID,
		Date:         req.Date,
		RecordedBy:   actorID(session),
		PresentCount: present,
		AbsentCount:  absent,
		TotalCount:   len(records),
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish attendance recorded event", "error", err, "class_id", req.ClassID)
	}
}

func (s *attendanceService) publishOverride(ctx context.Context, session *models.Session, record *models.AttendanceRecord, oldStatus models.AttendanceStatus, reason string) {
	if s.eventPublisher == nil {
		return
	}

	event := events.NewEvent(events.EventAttendanceOverridden, events.AttendanceOverriddenEvent{
		RecordID:   record.ID,
		StudentID:  record.StudentID,
		Date:       record.Date,
		OldStatus:  string(oldStatus),
		NewStatus:  string(record.Status),
		Reason:     reason,
		ChangedBy:  actorID(session),
		AuditDepth: len(record.History),
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish override event", "error", err, "record_id", record.ID)
	}
}

// actorID identifies the audit trail author, falling back to the system
// actor when no session is present.
func actorID(session *models.Session) string {
	if session == nil || session.UserID == "" {
		return "sys"
	}
	return session.UserID
}
