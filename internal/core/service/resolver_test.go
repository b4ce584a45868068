package service

import (
	"context"
	"testing"

	"github.com/bigteam/commit-tracker/internal/adapters/db/mocks"
	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestResolveExistingAccount(t *testing.T) {
	store := new(mocks.AuthorStore)
	stored := &entities.Author{ID: 7, Account: "alice", Email: "alice@example.com"}
	store.On("GetAuthorByAccount", mock.Anything, "alice").Return(stored, nil)

	resolver := NewAuthorResolver(store, nil)

	author, err := resolver.Resolve(context.Background(), "alice", "alice@example.com")
	assert.NoError(t, err)
	assert.Equal(t, uint(7), author.ID)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "CreateAuthor", mock.Anything, mock.Anything)
}

// Resolving the same pair twice yields the same identity and creates at
// most one author.
func TestResolveDeterminism(t *testing.T) {
	store := new(mocks.AuthorStore)
	created := &entities.Author{ID: 9, Account: "bob", Email: "bob@example.com"}

	store.On("GetAuthorByAccount", mock.Anything, "bob").Return(nil, nil).Once()
	store.On("GetAuthorByEmail", mock.Anything, "bob@example.com").Return(nil, nil).Once()
	store.On("CreateAuthor", mock.Anything, mock.AnythingOfType("*entities.Author")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entities.Author).ID = 9
		}).Return(nil).Once()

	store.On("GetAuthorByAccount", mock.Anything, "bob").Return(created, nil).Once()

	resolver := NewAuthorResolver(store, nil)

	first, err := resolver.Resolve(context.Background(), "bob", "bob@example.com")
	assert.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "bob", "bob@example.com")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	store.AssertExpectations(t)
}

// An email-only match adopts the incoming account name under the default
// merge policy.
func TestResolveMergesByEmail(t *testing.T) {
	store := new(mocks.AuthorStore)
	stored := &entities.Author{ID: 3, Account: "old-handle", Email: "carol@example.com"}

	store.On("GetAuthorByAccount", mock.Anything, "carol").Return(nil, nil)
	store.On("GetAuthorByEmail", mock.Anything, "carol@example.com").Return(stored, nil)
	store.On("UpdateAccountName", mock.Anything, uint(3), "carol").Return(nil)

	resolver := NewAuthorResolver(store, nil)

	author, err := resolver.Resolve(context.Background(), "carol", "carol@example.com")
	assert.NoError(t, err)
	assert.Equal(t, uint(3), author.ID)
	assert.Equal(t, "carol", author.Account)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "CreateAuthor", mock.Anything, mock.Anything)
}

// StrictPolicy never merges: the email match is ignored and a new author
// is created.
func TestResolveStrictPolicyCreates(t *testing.T) {
	store := new(mocks.AuthorStore)
	stored := &entities.Author{ID: 3, Account: "old-handle", Email: "carol@example.com"}

	store.On("GetAuthorByAccount", mock.Anything, "carol").Return(nil, nil)
	store.On("GetAuthorByEmail", mock.Anything, "carol@example.com").Return(stored, nil)
	store.On("CreateAuthor", mock.Anything, mock.AnythingOfType("*entities.Author")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entities.Author).ID = 11
		}).Return(nil)

	resolver := NewAuthorResolver(store, StrictPolicy{})

	author, err := resolver.Resolve(context.Background(), "carol", "carol@example.com")
	assert.NoError(t, err)
	assert.Equal(t, uint(11), author.ID)
	store.AssertNotCalled(t, "UpdateAccountName", mock.Anything, mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

// A unique-constraint collision on create means another ingestion won the
// race; the winner's row is returned.
func TestResolveDuplicateCreateRefetches(t *testing.T) {
	store := new(mocks.AuthorStore)
	winner := &entities.Author{ID: 21, Account: "dave", Email: "dave@example.com"}

	store.On("GetAuthorByAccount", mock.Anything, "dave").Return(nil, nil)
	store.On("GetAuthorByEmail", mock.Anything, "dave@example.com").Return(nil, nil)
	store.On("CreateAuthor", mock.Anything, mock.AnythingOfType("*entities.Author")).
		Return(gorm.ErrDuplicatedKey)
	store.On("GetAuthorByIdentity", mock.Anything, "dave", "dave@example.com").Return(winner, nil)

	resolver := NewAuthorResolver(store, nil)

	author, err := resolver.Resolve(context.Background(), "dave", "dave@example.com")
	assert.NoError(t, err)
	assert.Equal(t, uint(21), author.ID)
	store.AssertExpectations(t)
}

// No email means the email soft-match is skipped entirely.
func TestResolveWithoutEmailCreates(t *testing.T) {
	store := new(mocks.AuthorStore)

	store.On("GetAuthorByAccount", mock.Anything, "erin").Return(nil, nil)
	store.On("CreateAuthor", mock.Anything, mock.AnythingOfType("*entities.Author")).
		Run(func(args mock.Arguments) {
			author := args.Get(1).(*entities.Author)
			author.ID = 5
			assert.Equal(t, "erin", author.Account)
			assert.Equal(t, "erin", author.Display)
			assert.Empty(t, author.Email)
		}).Return(nil)

	resolver := NewAuthorResolver(store, nil)

	author, err := resolver.Resolve(context.Background(), "erin", "")
	assert.NoError(t, err)
	assert.Equal(t, uint(5), author.ID)
	store.AssertNotCalled(t, "GetAuthorByEmail", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}
