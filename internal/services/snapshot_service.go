package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type snapshotService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewSnapshotService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) SnapshotService {
	return &snapshotService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *snapshotService) Export(ctx context.Context) (*models.Snapshot, error) {
	s.logger.Info("Exporting full snapshot")

	snapshot, err := s.repo.Snapshot().Export(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}

	snapshot.Version = models.SnapshotVersion
	return snapshot, nil
}

// Import replaces all data with the snapshot contents in one transaction,
// so a failed import leaves the previous state untouched.
func (s *snapshotService) Import(ctx context.Context, snapshot *models.Snapshot) error {
	s.logger.Info("Importing snapshot",
		"users", len(snapshot.Users),
		"classes", len(snapshot.Classes),
		"students", len(snapshot.Students),
		"attendance", len(snapshot.Attendance),
		"permissions", len(snapshot.Permissions))

	if snapshot.Version != models.SnapshotVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrSnapshotVersionMismatch, snapshot.Version, models.SnapshotVersion)
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Snapshot().Import(ctx, nil, snapshot)
	})
	if err != nil {
		return fmt.Errorf("failed to import snapshot: %w", err)
	}

	return nil
}
