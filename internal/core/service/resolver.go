package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bigteam/commit-tracker/internal/adapters/db"
	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"gorm.io/gorm"
)

// ResolutionPolicy decides what happens when an incoming identity only
// matches a stored author by email. The default merges by overwriting the
// stored account name, which is lossy: two people sharing an address, or
// a rename collision, silently collapse into one author. StrictPolicy is
// the alternative for deployments that would rather keep them apart.
type ResolutionPolicy interface {
	// ReconcileByEmail is called with the author found by email when no
	// account match exists. Returning nil means "no match, create a new
	// author instead".
	ReconcileByEmail(ctx context.Context, found *entities.Author, account string, store db.AuthorStore) (*entities.Author, error)
}

// MergeByEmailPolicy treats an email match as the same person and adopts
// the incoming account name.
type MergeByEmailPolicy struct{}

func (MergeByEmailPolicy) ReconcileByEmail(ctx context.Context, found *entities.Author, account string, store db.AuthorStore) (*entities.Author, error) {
	if found.Account != account {
		if err := store.UpdateAccountName(ctx, found.ID, account); err != nil {
			return nil, err
		}
		found.Account = account
	}
	return found, nil
}

// StrictPolicy never merges identities; an email-only match still yields
// a brand new author.
type StrictPolicy struct{}

func (StrictPolicy) ReconcileByEmail(ctx context.Context, found *entities.Author, account string, store db.AuthorStore) (*entities.Author, error) {
	return nil, nil
}

// AuthorResolver maps a raw (account, email) pair from a VCS commit to a
// stable author identity, creating one when nothing matches.
type AuthorResolver struct {
	store  db.AuthorStore
	policy ResolutionPolicy
}

// NewAuthorResolver creates a resolver with the given policy; a nil
// policy defaults to MergeByEmailPolicy, matching historical behavior.
func NewAuthorResolver(store db.AuthorStore, policy ResolutionPolicy) *AuthorResolver {
	if policy == nil {
		policy = MergeByEmailPolicy{}
	}
	return &AuthorResolver{store: store, policy: policy}
}

// Resolve finds or creates the author for an already normalized account
// name. Lookup order: exact account match, then email match (reconciled
// through the policy), then create.
func (r *AuthorResolver) Resolve(ctx context.Context, account, email string) (*entities.Author, error) {
	author, err := r.store.GetAuthorByAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	if author != nil {
		return author, nil
	}

	if email != "" {
		found, err := r.store.GetAuthorByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if found != nil {
			merged, err := r.policy.ReconcileByEmail(ctx, found, account, r.store)
			if err != nil {
				return nil, err
			}
			if merged != nil {
				return merged, nil
			}
		}
	}

	author = &entities.Author{
		Account: account,
		Display: account,
		Email:   email,
	}
	if err := r.store.CreateAuthor(ctx, author); err != nil {
		// Another ingestion may have created the same identity first;
		// the unique (account, email) constraint is the arbiter.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := r.store.GetAuthorByIdentity(ctx, account, email)
			if lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("resolve author %q: %w", account, err)
	}
	return author, nil
}
