package entities

import (
	"time"

	"gorm.io/gorm"
)

// Author is a deduplicated contributor identity. The (account, email)
// pair is unique; account alone and email alone are soft-match keys used
// during resolution.
type Author struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Account string `json:"account" gorm:"size:50;uniqueIndex:idx_author_identity;index"`
	Display string `json:"display" gorm:"size:50"`
	Email   string `json:"email" gorm:"size:254;uniqueIndex:idx_author_identity;index"`

	// CommitCount is populated by aggregate queries, not a real column.
	CommitCount int `json:"commit_count,omitempty" gorm:"-:migration;->"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Commits []CommitRecord `json:"-" gorm:"foreignKey:AuthorID"`
}

// BeforeSave defaults the display name to the account name.
func (a *Author) BeforeSave(tx *gorm.DB) error {
	if a.Display == "" {
		a.Display = a.Account
	}
	return nil
}

func (a *Author) String() string {
	if a.Display != "" {
		return a.Display
	}
	return a.Account
}
