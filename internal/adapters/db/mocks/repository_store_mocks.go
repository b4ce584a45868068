package mocks

import (
	"context"
	"time"

	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"github.com/stretchr/testify/mock"
)

// RepositoryStore mock
type RepositoryStore struct {
	mock.Mock
}

func (m *RepositoryStore) CreateRepository(ctx context.Context, repo *entities.Repository) error {
	args := m.Called(ctx, repo)
	return args.Error(0)
}

func (m *RepositoryStore) GetRepositoryByID(ctx context.Context, id uint) (*entities.Repository, error) {
	args := m.Called(ctx, id)
	if repo := args.Get(0); repo != nil {
		return repo.(*entities.Repository), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepositoryStore) GetRepositoryByName(ctx context.Context, name string) (*entities.Repository, error) {
	args := m.Called(ctx, name)
	if repo := args.Get(0); repo != nil {
		return repo.(*entities.Repository), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepositoryStore) GetAllRepositories(ctx context.Context) ([]entities.Repository, error) {
	args := m.Called(ctx)
	if repos := args.Get(0); repos != nil {
		return repos.([]entities.Repository), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RepositoryStore) TouchLastSync(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *RepositoryStore) ClearCommits(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RepositoryStore) DeleteRepository(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
