package mocks

import (
	"context"
	"time"

	"github.com/bigteam/commit-tracker/internal/adapters/db"
	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"github.com/stretchr/testify/mock"
)

// CommitStore mock
type CommitStore struct {
	mock.Mock
}

func (m *CommitStore) CreateCommit(ctx context.Context, commit *entities.CommitRecord) error {
	args := m.Called(ctx, commit)
	return args.Error(0)
}

func (m *CommitStore) CommitExists(ctx context.Context, repositoryID uint, revision string) (bool, error) {
	args := m.Called(ctx, repositoryID, revision)
	return args.Bool(0), args.Error(1)
}

func (m *CommitStore) LastRevision(ctx context.Context, repositoryID uint) (string, error) {
	args := m.Called(ctx, repositoryID)
	return args.String(0), args.Error(1)
}

func (m *CommitStore) GetCommitsByRepository(ctx context.Context, repoName string, limit int) ([]entities.CommitRecord, error) {
	args := m.Called(ctx, repoName, limit)
	if commits := args.Get(0); commits != nil {
		return commits.([]entities.CommitRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommitStore) CountCommits(ctx context.Context, repositoryID uint) (int64, error) {
	args := m.Called(ctx, repositoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CommitStore) CountsByDay(ctx context.Context, repositoryID uint, since, until time.Time) ([]db.DayCount, error) {
	args := m.Called(ctx, repositoryID, since, until)
	if counts := args.Get(0); counts != nil {
		return counts.([]db.DayCount), args.Error(1)
	}
	return nil, args.Error(1)
}

// SyncLogStore mock
type SyncLogStore struct {
	mock.Mock
}

func (m *SyncLogStore) CreateSyncLog(ctx context.Context, syncLog *entities.SyncLog) error {
	args := m.Called(ctx, syncLog)
	return args.Error(0)
}

func (m *SyncLogStore) RecentSyncLogs(ctx context.Context, repositoryID uint, limit int) ([]entities.SyncLog, error) {
	args := m.Called(ctx, repositoryID, limit)
	if logs := args.Get(0); logs != nil {
		return logs.([]entities.SyncLog), args.Error(1)
	}
	return nil, args.Error(1)
}
