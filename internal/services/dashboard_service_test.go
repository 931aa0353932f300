package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

func TestDashboardService_GetClassStats(t *testing.T) {
	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	ctx := context.Background()

	attendanceService := NewAttendanceService(repo, nil, testLogger(), validator.New(), nil)
	if _, err := attendanceService.RecordDailySheet(ctx, teacherSession(), &AttendanceSheetRequest{
		ClassID: "c1",
		Date:    "2025-09-01",
		Entries: []validator.AttendanceEntryRequest{
			{StudentID: "STD-5090", Status: models.StatusPresent},
			{StudentID: "STD-5091", Status: models.StatusPresent},
		},
	}); err != nil {
		t.Fatalf("RecordDailySheet failed: %v", err)
	}

	service := NewDashboardService(repo, nil, testLogger())

	stats, err := service.GetClassStats(ctx, "c1", "2025-09-01", "2025-09-01")
	if err != nil {
		t.Fatalf("GetClassStats failed: %v", err)
	}

	if stats.TotalRecords != 3 {
		t.Errorf("expected 3 records, got %d", stats.TotalRecords)
	}
	if stats.PresentCount != 2 || stats.AbsentCount != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	wantRate := float64(2) / float64(3) * 100
	if stats.AttendanceRate < wantRate-0.01 || stats.AttendanceRate > wantRate+0.01 {
		t.Errorf("expected rate ~%.2f, got %.2f", wantRate, stats.AttendanceRate)
	}
}

func TestDashboardService_GetClassStats_UnknownClass(t *testing.T) {
	repo := newMemoryRepository()
	service := NewDashboardService(repo, nil, testLogger())

	_, err := service.GetClassStats(context.Background(), "missing", "", "")
	if !errors.Is(err, ErrClassNotFound) {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}
}

func TestDashboardService_GetStudentDashboard(t *testing.T) {
	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	ctx := context.Background()

	attendanceService := NewAttendanceService(repo, nil, testLogger(), validator.New(), nil)
	if _, err := attendanceService.RecordDailySheet(ctx, teacherSession(), &AttendanceSheetRequest{
		ClassID: "c1",
		Date:    "2025-09-01",
		Entries: []validator.AttendanceEntryRequest{
			{StudentID: "STD-5090", Status: models.StatusPresent},
		},
	}); err != nil {
		t.Fatalf("RecordDailySheet failed: %v", err)
	}

	permissionService := NewPermissionService(repo, nil, testLogger(), validator.New(), nil)
	if _, err := permissionService.Submit(ctx, teacherSession(), &PermissionSubmitRequest{
		StudentID: "STD-5090",
		ClassID:   "c1",
		Date:      "2025-09-02",
		Reason:    "medical appointment",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	service := NewDashboardService(repo, nil, testLogger())

	dashboard, err := service.GetStudentDashboard(ctx, "STD-5090")
	if err != nil {
		t.Fatalf("GetStudentDashboard failed: %v", err)
	}

	if dashboard.Student.ID != "STD-5090" {
		t.Errorf("wrong student: %s", dashboard.Student.ID)
	}
	if dashboard.Stats.TotalRecords != 1 || dashboard.Stats.PresentCount != 1 {
		t.Errorf("unexpected stats: %+v", dashboard.Stats)
	}
	if len(dashboard.Recent) != 1 {
		t.Errorf("expected 1 recent record, got %d", len(dashboard.Recent))
	}
	if len(dashboard.Pending) != 1 {
		t.Errorf("expected 1 pending request, got %d", len(dashboard.Pending))
	}
}

func TestDashboardService_GetTeacherOverview(t *testing.T) {
	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	ctx := context.Background()

	service := NewDashboardService(repo, nil, testLogger())

	overview, err := service.GetTeacherOverview(ctx)
	if err != nil {
		t.Fatalf("GetTeacherOverview failed: %v", err)
	}
	if overview.TotalClasses != 1 || overview.ActiveStudents != 3 {
		t.Errorf("unexpected overview: %+v", overview)
	}
}
