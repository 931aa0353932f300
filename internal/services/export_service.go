package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

var exportHeader = []string{"Date", "Student ID", "Student Name", "Class", "Status", "Notes"}

const exportBatchSize = 500

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *exportService) ExportAttendanceCSV(ctx context.Context, filters repositories.AttendanceFilters) ([]byte, error) {
	s.logger.Info("Exporting attendance as CSV", "class_id", filters.ClassID, "from", filters.DateFrom, "to", filters.DateTo)

	rows, err := s.collectRows(ctx, filters)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *exportService) ExportAttendanceXLSX(ctx context.Context, filters repositories.AttendanceFilters) ([]byte, error) {
	s.logger.Info("Exporting attendance as XLSX", "class_id", filters.ClassID, "from", filters.DateFrom, "to", filters.DateTo)

	rows, err := s.collectRows(ctx, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// collectRows pages through matching records and resolves student and class
// names once per export.
func (s *exportService) collectRows(ctx context.Context, filters repositories.AttendanceFilters) ([][]string, error) {
	if filters.SortBy == "" {
		filters.SortBy = "date"
		filters.SortOrder = "asc"
	}

	var records []*models.AttendanceRecord
	offset := 0
	for {
		page := filters
		page.Limit = exportBatchSize
		page.Offset = offset

		batch, total, err := s.repo.Attendance().List(ctx, s.db, page)
		if err != nil {
			return nil, fmt.Errorf("failed to list attendance: %w", err)
		}
		records = append(records, batch...)

		offset += len(batch)
		if len(batch) == 0 || int64(offset) >= total {
			break
		}
	}

	studentNames := make(map[string]string)
	classNames := make(map[string]string)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		name, ok := studentNames[rec.StudentID]
		if !ok {
			student, err := s.repo.Student().GetByID(ctx, s.db, rec.StudentID)
			if err != nil {
				s.logger.Warn("Student missing during export", "student_id", rec.StudentID)
				name = rec.StudentID
			} else {
				name = student.Name
			}
			studentNames[rec.StudentID] = name
		}

		className, ok := classNames[rec.ClassID]
		if !ok {
			class, err := s.repo.Class().GetByID(ctx, s.db, rec.ClassID)
			if err != nil {
				s.logger.Warn("Class missing during export", "class_id", rec.ClassID)
				className = rec.ClassID
			} else {
				className = class.Name
			}
			classNames[rec.ClassID] = className
		}

		rows = append(rows, []string{
			rec.Date,
			rec.StudentID,
			name,
			className,
			string(rec.Status),
			rec.Note,
		})
	}

	return rows, nil
}
