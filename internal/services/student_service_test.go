package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

func TestStudentService_Create(t *testing.T) {
	repo := newMemoryRepository()
	ctx := context.Background()
	repo.Class().Create(ctx, nil, &models.Class{ID: "c1", Name: "FINTECH", IsActive: true})

	service := NewStudentService(repo, nil, testLogger(), validator.New(), nil)

	student, err := service.Create(ctx, &StudentCreateRequest{
		Name:    "Ren Pisith",
		DOB:     "2004-03-12",
		ClassID: "c1",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !strings.HasPrefix(student.ID, "STD-") {
		t.Errorf("expected STD- prefixed id, got %q", student.ID)
	}
	if student.IsArchived {
		t.Error("new student must not be archived")
	}
}

func TestStudentService_Create_UnknownClass(t *testing.T) {
	repo := newMemoryRepository()
	service := NewStudentService(repo, nil, testLogger(), validator.New(), nil)

	_, err := service.Create(context.Background(), &StudentCreateRequest{
		Name:    "Ren Pisith",
		ClassID: "missing",
	})
	if !errors.Is(err, ErrClassNotFound) {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}
}

func TestStudentService_Archive(t *testing.T) {
	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	ctx := context.Background()

	service := NewStudentService(repo, nil, testLogger(), validator.New(), nil)

	student, err := service.Archive(ctx, "STD-5090")
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if !student.IsArchived {
		t.Error("student should be archived")
	}

	// History survives archiving: the student is still fetchable directly.
	if _, err := service.GetByID(ctx, "STD-5090"); err != nil {
		t.Fatalf("archived student must stay retrievable: %v", err)
	}

	// But falls off the active roster.
	roster, err := service.GetRoster(ctx, "c1")
	if err != nil {
		t.Fatalf("GetRoster failed: %v", err)
	}
	for _, st := range roster {
		if st.ID == "STD-5090" {
			t.Error("archived student must not appear on the roster")
		}
	}

	// Archiving twice is a no-op.
	if _, err := service.Archive(ctx, "STD-5090"); err != nil {
		t.Fatalf("second Archive failed: %v", err)
	}
}

func TestStudentService_Archive_PublishesEvent(t *testing.T) {
	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	ctx := context.Background()

	publisher := events.NewMockEventPublisher(testLogger())
	service := NewStudentService(repo, nil, testLogger(), validator.New(), publisher)

	if _, err := service.Archive(ctx, "STD-5090"); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	if published[0].Type != events.EventStudentArchived {
		t.Errorf("expected %s event, got %s", events.EventStudentArchived, published[0].Type)
	}
	data, ok := published[0].Data.(events.StudentArchivedEvent)
	if !ok {
		t.Fatalf("unexpected event payload type %T", published[0].Data)
	}
	if data.StudentID != "STD-5090" || data.ClassID != "c1" {
		t.Errorf("unexpected event payload: %+v", data)
	}

	// Archiving an already archived student emits nothing.
	if _, err := service.Archive(ctx, "STD-5090"); err != nil {
		t.Fatalf("second Archive failed: %v", err)
	}
	if got := len(publisher.GetPublishedEvents()); got != 1 {
		t.Errorf("idempotent archive must not re-publish, got %d events", got)
	}
}

func TestStudentService_Archive_NotFound(t *testing.T) {
	repo := newMemoryRepository()
	service := NewStudentService(repo, nil, testLogger(), validator.New(), nil)

	_, err := service.Archive(context.Background(), "STD-0000")
	if !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestStudentService_Update_UnarchiveRestoresAccess(t *testing.T) {
	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	ctx := context.Background()

	service := NewStudentService(repo, nil, testLogger(), validator.New(), nil)

	if _, err := service.Archive(ctx, "STD-5090"); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	unarchived := false
	if _, err := service.Update(ctx, "STD-5090", &StudentUpdateRequest{IsArchived: &unarchived}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	roster, err := service.GetRoster(ctx, "c1")
	if err != nil {
		t.Fatalf("GetRoster failed: %v", err)
	}
	found := false
	for _, st := range roster {
		if st.ID == "STD-5090" {
			found = true
		}
	}
	if !found {
		t.Error("unarchived student should rejoin the roster")
	}
}

func TestStudentService_List_ExcludesArchivedByDefault(t *testing.T) {
	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	ctx := context.Background()

	service := NewStudentService(repo, nil, testLogger(), validator.New(), nil)
	if _, err := service.Archive(ctx, "STD-5092"); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	resp, err := service.List(ctx, repositories.StudentFilters{ClassID: "c1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(resp.Students) != 2 {
		t.Errorf("expected 2 active students, got %d", len(resp.Students))
	}

	resp, err = service.List(ctx, repositories.StudentFilters{ClassID: "c1", IncludeArchived: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(resp.Students) != 3 {
		t.Errorf("expected 3 students including archived, got %d", len(resp.Students))
	}
}
