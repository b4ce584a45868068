package db

import (
	"context"
	"fmt"
	"time"

	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"gorm.io/gorm"
)

// RepositoryStore defines database operations on tracked repositories.
type RepositoryStore interface {
	CreateRepository(ctx context.Context, repo *entities.Repository) error
	GetRepositoryByID(ctx context.Context, id uint) (*entities.Repository, error)
	GetRepositoryByName(ctx context.Context, name string) (*entities.Repository, error)
	GetAllRepositories(ctx context.Context) ([]entities.Repository, error)
	TouchLastSync(ctx context.Context, id uint, at time.Time) error
	ClearCommits(ctx context.Context, id uint) error
	DeleteRepository(ctx context.Context, id uint) error
}

// GormRepositoryStore is a GORM-based implementation of RepositoryStore.
type GormRepositoryStore struct {
	db *gorm.DB
}

// NewGormRepositoryStore initializes a new GormRepositoryStore.
func NewGormRepositoryStore(db *gorm.DB) *GormRepositoryStore {
	return &GormRepositoryStore{db: db}
}

func (s *GormRepositoryStore) CreateRepository(ctx context.Context, repo *entities.Repository) error {
	if err := s.db.WithContext(ctx).Create(repo).Error; err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	return nil
}

func (s *GormRepositoryStore) GetRepositoryByID(ctx context.Context, id uint) (*entities.Repository, error) {
	var repo entities.Repository
	err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&repo).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve repository: %w", err)
	}
	if repo.ID == 0 {
		return nil, nil
	}
	return &repo, nil
}

func (s *GormRepositoryStore) GetRepositoryByName(ctx context.Context, name string) (*entities.Repository, error) {
	var repo entities.Repository
	err := s.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&repo).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve repository: %w", err)
	}
	if repo.ID == 0 {
		return nil, nil
	}
	return &repo, nil
}

func (s *GormRepositoryStore) GetAllRepositories(ctx context.Context) ([]entities.Repository, error) {
	var repositories []entities.Repository
	if err := s.db.WithContext(ctx).Find(&repositories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve repositories: %w", err)
	}
	return repositories, nil
}

// TouchLastSync updates only the last-sync timestamp; the sync path never
// mutates anything else on the repository row.
func (s *GormRepositoryStore) TouchLastSync(ctx context.Context, id uint, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&entities.Repository{}).
		Where("id = ?", id).
		Update("last_sync_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to update last sync time: %w", err)
	}
	return nil
}

// ClearCommits wipes every stored commit for the repository.
func (s *GormRepositoryStore) ClearCommits(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).
		Where("repository_id = ?", id).
		Delete(&entities.CommitRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear commits: %w", err)
	}
	return nil
}

// DeleteRepository removes the repository and, via cascade, its commits.
func (s *GormRepositoryStore) DeleteRepository(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("repository_id = ?", id).Delete(&entities.CommitRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete commits: %w", err)
		}
		if err := tx.Where("repository_id = ?", id).Delete(&entities.SyncLog{}).Error; err != nil {
			return fmt.Errorf("failed to delete sync logs: %w", err)
		}
		if err := tx.Delete(&entities.Repository{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete repository: %w", err)
		}
		return nil
	})
}
