package db

import (
	"context"
	"fmt"

	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"gorm.io/gorm"
)

// AuthorStore defines database operations on authors.
type AuthorStore interface {
	GetAuthorByAccount(ctx context.Context, account string) (*entities.Author, error)
	GetAuthorByEmail(ctx context.Context, email string) (*entities.Author, error)
	GetAuthorByIdentity(ctx context.Context, account, email string) (*entities.Author, error)
	CreateAuthor(ctx context.Context, author *entities.Author) error
	UpdateAccountName(ctx context.Context, id uint, account string) error
	TopAuthors(ctx context.Context, limit int) ([]entities.Author, error)
}

// GormAuthorStore is a GORM-based implementation of AuthorStore.
type GormAuthorStore struct {
	db *gorm.DB
}

// NewGormAuthorStore initializes a new GormAuthorStore.
func NewGormAuthorStore(db *gorm.DB) *GormAuthorStore {
	return &GormAuthorStore{db: db}
}

func (s *GormAuthorStore) GetAuthorByAccount(ctx context.Context, account string) (*entities.Author, error) {
	return s.findOne(ctx, "account = ?", account)
}

func (s *GormAuthorStore) GetAuthorByEmail(ctx context.Context, email string) (*entities.Author, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *GormAuthorStore) GetAuthorByIdentity(ctx context.Context, account, email string) (*entities.Author, error) {
	return s.findOne(ctx, "account = ? AND email = ?", account, email)
}

func (s *GormAuthorStore) findOne(ctx context.Context, query string, args ...interface{}) (*entities.Author, error) {
	var author entities.Author
	err := s.db.WithContext(ctx).Where(query, args...).Limit(1).Find(&author).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve author: %w", err)
	}
	if author.ID == 0 {
		return nil, nil
	}
	return &author, nil
}

func (s *GormAuthorStore) CreateAuthor(ctx context.Context, author *entities.Author) error {
	if err := s.db.WithContext(ctx).Create(author).Error; err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}
	return nil
}

// UpdateAccountName overwrites the stored account name; used by the
// identity-merge resolution policy.
func (s *GormAuthorStore) UpdateAccountName(ctx context.Context, id uint, account string) error {
	err := s.db.WithContext(ctx).
		Model(&entities.Author{}).
		Where("id = ?", id).
		Update("account", account).Error
	if err != nil {
		return fmt.Errorf("failed to update author account: %w", err)
	}
	return nil
}

func (s *GormAuthorStore) TopAuthors(ctx context.Context, limit int) ([]entities.Author, error) {
	var authors []entities.Author
	err := s.db.WithContext(ctx).
		Table("authors").
		Select("authors.id, authors.account, authors.display, authors.email, COUNT(commit_records.id) AS commit_count").
		Joins("JOIN commit_records ON commit_records.author_id = authors.id").
		Group("authors.id").
		Order("commit_count DESC").
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve top authors: %w", err)
	}
	return authors, nil
}
