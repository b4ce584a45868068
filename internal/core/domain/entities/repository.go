package entities

import (
	"fmt"
	"time"
)

// VCSKind identifies the version control system backing a repository.
type VCSKind string

const (
	VCSKindSVN VCSKind = "svn"
	VCSKindGit VCSKind = "git"
)

// Repository is one tracked VCS repository. The kind is treated as
// immutable after creation; changing it would orphan the revision
// numbering of already stored commits.
type Repository struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"size:50;uniqueIndex"`
	Description string  `json:"description" gorm:"size:250"`
	URL         string  `json:"url" gorm:"size:500"`
	Kind        VCSKind `json:"kind" gorm:"size:10;default:'svn';index"`

	// Branch is only meaningful for git repositories.
	Branch string `json:"branch" gorm:"size:100;default:'main'"`

	// Credentials; which fields apply depends on the kind and hosting.
	Username    string `json:"username,omitempty" gorm:"size:50"`
	Password    string `json:"-" gorm:"size:50"`
	SSHKeyPath  string `json:"ssh_key_path,omitempty" gorm:"size:500"`
	AccessToken string `json:"-" gorm:"size:500"`

	// SourceView is an optional browser URL template for linking commits.
	SourceView string `json:"source_view,omitempty" gorm:"size:500"`

	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Commits []CommitRecord `json:"-" gorm:"foreignKey:RepositoryID;constraint:OnDelete:CASCADE"`
}

// CommitURL builds the source-browser link for a revision, or "" when no
// source view is configured.
func (r *Repository) CommitURL(revision string) string {
	if r.SourceView == "" {
		return ""
	}
	if r.Kind == VCSKindSVN {
		return fmt.Sprintf("%s?view=revision&revision=%s", r.SourceView, revision)
	}
	return fmt.Sprintf("%s/commit/%s", r.SourceView, revision)
}

func (r *Repository) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Kind)
}
