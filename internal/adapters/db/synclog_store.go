package db

import (
	"context"
	"fmt"

	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"gorm.io/gorm"
)

// SyncLogStore defines database operations on sync logs.
type SyncLogStore interface {
	CreateSyncLog(ctx context.Context, syncLog *entities.SyncLog) error
	RecentSyncLogs(ctx context.Context, repositoryID uint, limit int) ([]entities.SyncLog, error)
}

// GormSyncLogStore is a GORM-based implementation of SyncLogStore.
type GormSyncLogStore struct {
	db *gorm.DB
}

// NewGormSyncLogStore initializes a new GormSyncLogStore.
func NewGormSyncLogStore(db *gorm.DB) *GormSyncLogStore {
	return &GormSyncLogStore{db: db}
}

func (s *GormSyncLogStore) CreateSyncLog(ctx context.Context, syncLog *entities.SyncLog) error {
	if err := s.db.WithContext(ctx).Create(syncLog).Error; err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}
	return nil
}

// RecentSyncLogs lists sync attempts newest first. A zero repositoryID
// lists attempts across all repositories.
func (s *GormSyncLogStore) RecentSyncLogs(ctx context.Context, repositoryID uint, limit int) ([]entities.SyncLog, error) {
	var logs []entities.SyncLog
	query := s.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if repositoryID != 0 {
		query = query.Where("repository_id = ?", repositoryID)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve sync logs: %w", err)
	}
	return logs, nil
}
