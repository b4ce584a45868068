package db

import (
	"context"
	"fmt"
	"time"

	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"gorm.io/gorm"
)

// DayCount is one point of a commits-per-day aggregation.
type DayCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// CommitStore defines database operations on commit records.
type CommitStore interface {
	CreateCommit(ctx context.Context, commit *entities.CommitRecord) error
	CommitExists(ctx context.Context, repositoryID uint, revision string) (bool, error)
	LastRevision(ctx context.Context, repositoryID uint) (string, error)
	GetCommitsByRepository(ctx context.Context, repoName string, limit int) ([]entities.CommitRecord, error)
	CountCommits(ctx context.Context, repositoryID uint) (int64, error)
	CountsByDay(ctx context.Context, repositoryID uint, since, until time.Time) ([]DayCount, error)
}

// GormCommitStore is a GORM-based implementation of CommitStore.
type GormCommitStore struct {
	db *gorm.DB
}

// NewGormCommitStore initializes a new GormCommitStore.
func NewGormCommitStore(db *gorm.DB) *GormCommitStore {
	return &GormCommitStore{db: db}
}

func (s *GormCommitStore) CreateCommit(ctx context.Context, commit *entities.CommitRecord) error {
	if err := s.db.WithContext(ctx).Create(commit).Error; err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}
	return nil
}

func (s *GormCommitStore) CommitExists(ctx context.Context, repositoryID uint, revision string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entities.CommitRecord{}).
		Where("repository_id = ? AND revision = ?", repositoryID, revision).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check commit existence: %w", err)
	}
	return count > 0, nil
}

// LastRevision returns the revision of the most recently stored commit,
// by highest record id. Insertion order is the trustworthy watermark
// signal; commit timestamps can be rewritten. Returns "" when the
// repository has no commits yet.
func (s *GormCommitStore) LastRevision(ctx context.Context, repositoryID uint) (string, error) {
	var commit entities.CommitRecord
	err := s.db.WithContext(ctx).
		Where("repository_id = ?", repositoryID).
		Order("id DESC").
		Limit(1).
		Find(&commit).Error
	if err != nil {
		return "", fmt.Errorf("failed to retrieve last revision: %w", err)
	}
	return commit.Revision, nil
}

// GetCommitsByRepository lists a repository's commits, newest first.
func (s *GormCommitStore) GetCommitsByRepository(ctx context.Context, repoName string, limit int) ([]entities.CommitRecord, error) {
	var commits []entities.CommitRecord
	query := s.db.WithContext(ctx).
		Joins("JOIN repositories ON repositories.id = commit_records.repository_id").
		Where("repositories.name = ?", repoName).
		Preload("Author").
		Order("commit_records.time DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&commits).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve commits: %w", err)
	}
	return commits, nil
}

func (s *GormCommitStore) CountCommits(ctx context.Context, repositoryID uint) (int64, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&entities.CommitRecord{})
	if repositoryID != 0 {
		query = query.Where("repository_id = ?", repositoryID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count commits: %w", err)
	}
	return count, nil
}

// CountsByDay aggregates commit counts per day for chart endpoints. A
// zero repositoryID aggregates across all repositories.
func (s *GormCommitStore) CountsByDay(ctx context.Context, repositoryID uint, since, until time.Time) ([]DayCount, error) {
	var counts []DayCount
	query := s.db.WithContext(ctx).
		Model(&entities.CommitRecord{}).
		Select("date_trunc('day', time) AS day, COUNT(id) AS count").
		Where("time >= ? AND time < ?", since, until)
	if repositoryID != 0 {
		query = query.Where("repository_id = ?", repositoryID)
	}
	err := query.Group("day").Order("day").Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate commits: %w", err)
	}
	return counts, nil
}
