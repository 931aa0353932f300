package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

func TestSnapshotService_RoundTrip(t *testing.T) {
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

	service := NewSnapshotService(repo, nil, testLogger())

	first, err := service.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if first.Version != models.SnapshotVersion {
		t.Errorf("expected snapshot version %d, got %d", models.SnapshotVersion, first.Version)
	}
	if len(first.Classes) != 1 || len(first.Students) != 3 || len(first.Attendance) != 3 {
		t.Fatalf("unexpected snapshot contents: %d classes, %d students, %d attendance",
			len(first.Classes), len(first.Students), len(first.Attendance))
	}

	// Import into a fresh repository and export again.
	target := newMemoryRepository()
	targetService := NewSnapshotService(target, nil, testLogger())
	if err := targetService.Import(ctx, first); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	second, err := targetService.Export(ctx)
	if err != nil {
		t.Fatalf("second Export failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("export after import should reproduce the snapshot")
	}
}

func TestSnapshotService_Import_VersionMismatch(t *testing.T) {
	repo := newMemoryRepository()
	service := NewSnapshotService(repo, nil, testLogger())

	err := service.Import(context.Background(), &models.Snapshot{Version: 99})
	if err == nil {
		t.Fatal("expected version mismatch error")
	}
}

func TestSnapshotService_Import_ReplacesExistingData(t *testing.T) {
	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	ctx := context.Background()

	service := NewSnapshotService(repo, nil, testLogger())

	snapshot := &models.Snapshot{
		Version: models.SnapshotVersion,
		Classes: []models.Class{{ID: "c9", Name: "NEW CLASS", IsActive: true}},
	}
	if err := service.Import(ctx, snapshot); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	exported, err := service.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(exported.Classes) != 1 || exported.Classes[0].ID != "c9" {
		t.Errorf("import should replace prior classes, got %+v", exported.Classes)
	}
	if len(exported.Students) != 0 {
		t.Errorf("import should replace prior students, got %d", len(exported.Students))
	}
}
