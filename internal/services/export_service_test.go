package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

func seedExportData(t *testing.T) *memoryRepository {
	t.Helper()

	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	ctx := context.Background()

	attendanceService := NewAttendanceService(repo, nil, testLogger(), validator.New(), nil)
	if _, err := attendanceService.RecordDailySheet(ctx, teacherSession(), &AttendanceSheetRequest{
		ClassID: "c1",
		Date:    "2025-09-01",
		Entries: []validator.AttendanceEntryRequest{
			{StudentID: "STD-5090", Status: models.StatusPresent},
			{StudentID: "STD-5091", Status: models.StatusPermission, Note: "field trip"},
		},
	}); err != nil {
		t.Fatalf("RecordDailySheet failed: %v", err)
	}
	return repo
}

func TestExportService_CSV(t *testing.T) {
	repo := seedExportData(t)
	service := NewExportService(repo, nil, testLogger())

	data, err := service.ExportAttendanceCSV(context.Background(), repositories.AttendanceFilters{ClassID: "c1"})
	if err != nil {
		t.Fatalf("ExportAttendanceCSV failed: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}

	header := rows[0]
	want := []string{"Date", "Student ID", "Student Name", "Class", "Status", "Notes"}
	for i, col := range want {
		if header[i] != col {
			t.Errorf("header column %d: want %q, got %q", i, col, header[i])
		}
	}

	found := false
	for _, row := range rows[1:] {
		if row[1] == "STD-5090" {
			found = true
			if row[0] != "2025-09-01" {
				t.Errorf("unexpected date %q", row[0])
			}
			if row[2] != "Ren Pisith" {
				t.Errorf("expected resolved student name, got %q", row[2])
			}
			if row[3] != "FINTECH" {
				t.Errorf("expected resolved class name, got %q", row[3])
			}
			if row[4] != "PRESENT" {
				t.Errorf("expected PRESENT, got %q", row[4])
			}
		}
	}
	if !found {
		t.Error("STD-5090 missing from export")
	}
}

func TestExportService_XLSX(t *testing.T) {
	repo := seedExportData(t)
	service := NewExportService(repo, nil, testLogger())

	data, err := service.ExportAttendanceXLSX(context.Background(), repositories.AttendanceFilters{ClassID: "c1"})
	if err != nil {
		t.Fatalf("ExportAttendanceXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][1] != "Student ID" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
}

func TestExportService_CSV_EmptyResult(t *testing.T) {
	repo := newMemoryRepository()
	service := NewExportService(repo, nil, testLogger())

	data, err := service.ExportAttendanceCSV(context.Background(), repositories.AttendanceFilters{ClassID: "none"})
	if err != nil {
		t.Fatalf("ExportAttendanceCSV failed: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
