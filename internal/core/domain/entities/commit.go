package entities

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// CommitRecord is one historical commit, VCS-agnostic. Revision holds an
// SVN integer revision as text or a full git hash. The
// (repository_id, revision) pair is unique and makes re-ingestion of an
// already seen commit a no-op.
type CommitRecord struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RepositoryID uint      `json:"repo_id" gorm:"uniqueIndex:idx_repo_revision;index:idx_repo_time,priority:1"`
	Revision     string    `json:"revision" gorm:"size:100;uniqueIndex:idx_repo_revision"`
	Time         time.Time `json:"time" gorm:"index;index:idx_repo_time,priority:2;index:idx_author_time,priority:2"`
	AuthorID     uint      `json:"author_id" gorm:"index:idx_author_time,priority:1"`
	Message      string    `json:"message" gorm:"type:text"`

	// ChangedFiles is captured best-effort and may be empty.
	ChangedFiles datatypes.JSON `json:"changed_files,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Author     Author     `json:"author" gorm:"foreignKey:AuthorID"`
	Repository Repository `json:"-" gorm:"foreignKey:RepositoryID"`
}

// ShortRevision renders a revision for display: "r42" for svn, the first
// 8 hex characters for git.
func (c *CommitRecord) ShortRevision(kind VCSKind) string {
	if kind == VCSKindSVN {
		return fmt.Sprintf("r%s", c.Revision)
	}
	if len(c.Revision) > 8 {
		return c.Revision[:8]
	}
	return c.Revision
}
