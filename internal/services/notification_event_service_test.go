package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

func TestNotificationEventService_PublishEvents(t *testing.T) {
	logger := testLogger()
	mockPublisher := events.NewMockEventPublisher(logger)
	v := validator.New()
	mockRepo := newMemoryRepository()

	service := &notificationEventService{
		repo:           mockRepo,
		eventPublisher: mockPublisher,
		logger:         logger,
		validator:      v,
	}

	ctx := context.Background()

	t.Run("SendBulkNotification", func(t *testing.T) {
		userIDs := []string{"STD-5090", "STD-5091", "STD-5092"}
		notification := &NotificationRequest{
			Title:   "Roster Updated",
			Message: "Your class roster has changed",
		}

		err := service.SendBulkNotification(ctx, userIDs, notification)
		if err != nil {
			t.Fatalf("Failed to send bulk notification: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.Type != events.EventBulkNotification {
			t.Errorf("Expected event type %q, got %q", events.EventBulkNotification, event.Type)
		}
	})

	t.Run("Event_Structure_Validation", func(t *testing.T) {
		mockPublisher.ClearEvents()

		userIDs := []string{"STD-5090"}
		notification := &NotificationRequest{
			Title:   "Permission Resolved",
			Message: "Your leave request was approved",
		}

		err := service.SendBulkNotification(ctx, userIDs, notification)
		if err != nil {
			t.Fatalf("Failed to send notification: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.ID == "" {
			t.Error("Event ID should not be empty")
		}
		if event.Source != "attendance-service" {
			t.Errorf("Expected source 'attendance-service', got '%s'", event.Source)
		}
		if event.Version != "1.0" {
			t.Errorf("Expected version '1.0', got '%s'", event.Version)
		}
		if event.Timestamp.IsZero() {
			t.Error("Event timestamp should not be zero")
		}
	})

	t.Run("Empty_Recipients", func(t *testing.T) {
		mockPublisher.ClearEvents()

		err := service.SendBulkNotification(ctx, nil, &NotificationRequest{
			Title:   "x",
			Message: "y",
		})
		if err == nil {
			t.Fatal("expected error for empty recipient list")
		}
		if len(mockPublisher.GetPublishedEvents()) != 0 {
			t.Error("no event should be published for empty recipient list")
		}
	})
}

func BenchmarkNotificationEventService_PublishEvent(b *testing.B) {
	logger := testLogger()
	mockPublisher := events.NewMockEventPublisher(logger)
	v := validator.New()
	mockRepo := newMemoryRepository()

	service := &notificationEventService{
		repo:           mockRepo,
		eventPublisher: mockPublisher,
		logger:         logger,
		validator:      v,
	}

	ctx := context.Background()
	userIDs := []string{"STD-5090", "STD-5091", "STD-5092"}
	notification := &NotificationRequest{
		Title:   "Benchmark Test",
		Message: "Benchmark message",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := service.SendBulkNotification(ctx, userIDs, notification); err != nil {
			b.Fatalf("Failed to send notification: %v", err)
		}
	}
}
