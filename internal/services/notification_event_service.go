package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewNotificationEventService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

func (s *notificationEventService) SendBulkNotification(ctx context.Context, userIDs []string, req *NotificationRequest) error {
	s.logger.Info("Sending bulk notification", "recipients", len(userIDs), "title", req.Title)

	if err := s.validator.Struct(req); err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return fmt.Errorf("no recipients given")
	}

	event := events.NewEvent(events.EventBulkNotification, events.BulkNotificationEvent{
		UserIDs: userIDs,
		Title:   req.Title,
		Message: req.Message,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish bulk notification: %w", err)
	}

	return nil
}
