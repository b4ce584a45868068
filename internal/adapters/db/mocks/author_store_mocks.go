package mocks

import (
	"context"

	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"github.com/stretchr/testify/mock"
)

// AuthorStore mock
type AuthorStore struct {
	mock.Mock
}

func (m *AuthorStore) GetAuthorByAccount(ctx context.Context, account string) (*entities.Author, error) {
	args := m.Called(ctx, account)
	if author := args.Get(0); author != nil {
		return author.(*entities.Author), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AuthorStore) GetAuthorByEmail(ctx context.Context, email string) (*entities.Author, error) {
	args := m.Called(ctx, email)
	if author := args.Get(0); author != nil {
		return author.(*entities.Author), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AuthorStore) GetAuthorByIdentity(ctx context.Context, account, email string) (*entities.Author, error) {
	args := m.Called(ctx, account, email)
	if author := args.Get(0); author != nil {
		return author.(*entities.Author), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AuthorStore) CreateAuthor(ctx context.Context, author *entities.Author) error {
	args := m.Called(ctx, author)
	return args.Error(0)
}

func (m *AuthorStore) UpdateAccountName(ctx context.Context, id uint, account string) error {
	args := m.Called(ctx, id, account)
	return args.Error(0)
}

func (m *AuthorStore) TopAuthors(ctx context.Context, limit int) ([]entities.Author, error) {
	args := m.Called(ctx, limit)
	if authors := args.Get(0); authors != nil {
		return authors.([]entities.Author), args.Error(1)
	}
	return nil, args.Error(1)
}
