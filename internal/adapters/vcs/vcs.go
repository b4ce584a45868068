// Package vcs provides clients for reading commit history out of
// version control systems. The rest of the system only sees the Client
// interface; the concrete kind is chosen once, by the factory, from the
// repository's stored kind.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
)

var (
	// ErrHeadLookup means the latest revision could not be determined.
	// Fatal for the current sync attempt; the watermark must not move.
	ErrHeadLookup = errors.New("vcs: head revision lookup failed")

	// ErrFetch means commits could not be fetched after the repository
	// was successfully reached. Recoverable: treated as zero new commits.
	ErrFetch = errors.New("vcs: commit fetch failed")
)

// CommitDescriptor is the normalized commit representation shared by all
// client variants.
type CommitDescriptor struct {
	Revision     string
	Author       string
	AuthorEmail  string
	Time         time.Time
	Message      string
	ChangedFiles []string
}

// FetchOptions selects a commit range. Exactly one form is meaningful at
// a time: Start/End revisions, or Since.
type FetchOptions struct {
	Start string
	End   string
	Since time.Time
}

// Client reads commit history from one repository.
type Client interface {
	// TestConnection performs the cheapest possible round trip to verify
	// connectivity and credentials. Expected connectivity failures are
	// logged and reported as false, never as a panic or error.
	TestConnection(ctx context.Context) bool

	// LatestRevision returns the newest revision on the tracked branch
	// (git) or the whole repository (svn). Errors wrap ErrHeadLookup.
	LatestRevision(ctx context.Context) (string, error)

	// FetchCommits returns commits within the inclusive range described
	// by opts. Errors after a successful connection wrap ErrFetch.
	FetchCommits(ctx context.Context, opts FetchOptions) ([]CommitDescriptor, error)

	// CommitsSince returns the commits newer than lastKnown, or a bounded
	// recent history when lastKnown is empty. This is the watermark-based
	// delta the ingestor consumes.
	CommitsSince(ctx context.Context, lastKnown string) ([]CommitDescriptor, error)
}

var (
	_ Client = (*SVNClient)(nil)
	_ Client = (*GitClient)(nil)
)

// Factory builds a Client for a repository from its stored kind.
type Factory interface {
	ClientFor(repo *entities.Repository) (Client, error)
}

type factory struct{}

// NewFactory returns the default factory covering svn and git.
func NewFactory() Factory {
	return factory{}
}

func (factory) ClientFor(repo *entities.Repository) (Client, error) {
	switch repo.Kind {
	case entities.VCSKindSVN:
		return NewSVNClient(repo.URL, repo.Username, repo.Password), nil
	case entities.VCSKindGit:
		return NewGitClient(GitOptions{
			URL:         repo.URL,
			Branch:      repo.Branch,
			Username:    repo.Username,
			Password:    repo.Password,
			SSHKeyPath:  repo.SSHKeyPath,
			AccessToken: repo.AccessToken,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported VCS kind: %q", repo.Kind)
	}
}

// NormalizeAuthor cleans a raw author string for resolution. An empty
// author, or one equal to the email, is replaced by the email local
// part; surrounding angle brackets are stripped; "unknown" is the last
// resort.
func NormalizeAuthor(author, email string) string {
	if email != "" && strings.Contains(email, "@") {
		if author == "" || author == email {
			author = email[:strings.Index(email, "@")]
		}
	}

	author = strings.TrimSpace(author)
	if strings.HasPrefix(author, "<") && strings.HasSuffix(author, ">") && len(author) >= 2 {
		author = author[1 : len(author)-1]
	}

	if author == "" {
		return "unknown"
	}
	return author
}
