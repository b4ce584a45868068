package vcs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/go-git/go-git/v5/storage/memory"
)

// maxHistory bounds the initial fetch when a repository has no watermark
// yet.
const maxHistory = 1000

// GitOptions carries the connection parameters for a git repository.
type GitOptions struct {
	URL         string
	Branch      string
	Username    string
	Password    string
	SSHKeyPath  string
	AccessToken string
}

// GitClient reads commit history over the git protocol. Every fetch
// works against an ephemeral local clone that is removed on all exit
// paths; the remote is the source of truth.
type GitClient struct {
	opts GitOptions
}

// NewGitClient creates a git client for one repository. The branch
// defaults to "main".
func NewGitClient(opts GitOptions) *GitClient {
	if opts.Branch == "" {
		opts.Branch = "main"
	}
	return &GitClient{opts: opts}
}

// authURL embeds HTTPS credentials into the remote URL. GitHub expects
// the bare token before the host, GitLab wants an oauth2 pseudo-user.
func (c *GitClient) authURL() string {
	url := c.opts.URL
	if !strings.HasPrefix(url, "https://") {
		return url
	}
	if c.opts.AccessToken != "" {
		if strings.Contains(url, "github.com") {
			return strings.Replace(url, "https://", fmt.Sprintf("https://%s@", c.opts.AccessToken), 1)
		}
		if strings.Contains(url, "gitlab.com") {
			return strings.Replace(url, "https://", fmt.Sprintf("https://oauth2:%s@", c.opts.AccessToken), 1)
		}
	}
	if c.opts.Username != "" && c.opts.Password != "" {
		return strings.Replace(url, "https://", fmt.Sprintf("https://%s:%s@", c.opts.Username, c.opts.Password), 1)
	}
	return url
}

// authMethod returns the transport auth for non-URL-embedded schemes,
// currently just ssh keys.
func (c *GitClient) authMethod() (transport.AuthMethod, error) {
	if c.opts.SSHKeyPath == "" || strings.HasPrefix(c.opts.URL, "https://") {
		return nil, nil
	}
	return gitssh.NewPublicKeysFromFile("git", c.opts.SSHKeyPath, "")
}

// TestConnection lists remote refs, the cheapest round trip git offers.
func (c *GitClient) TestConnection(ctx context.Context) bool {
	if _, err := c.listRemote(ctx); err != nil {
		log.Printf("git: connection test failed for %s: %v", c.opts.URL, err)
		return false
	}
	return true
}

func (c *GitClient) listRemote(ctx context.Context) ([]*plumbing.Reference, error) {
	auth, err := c.authMethod()
	if err != nil {
		return nil, fmt.Errorf("ssh key: %w", err)
	}
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{c.authURL()},
	})
	return remote.ListContext(ctx, &git.ListOptions{Auth: auth})
}

// LatestRevision resolves the head of the tracked branch on the remote,
// never a stale local mirror.
func (c *GitClient) LatestRevision(ctx context.Context) (string, error) {
	refs, err := c.listRemote(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHeadLookup, c.opts.URL, err)
	}

	want := plumbing.NewBranchReferenceName(c.opts.Branch)
	var head string
	for _, ref := range refs {
		if ref.Name() == want {
			return ref.Hash().String(), nil
		}
		if ref.Name() == plumbing.HEAD {
			head = ref.Hash().String()
		}
	}
	if head != "" {
		return head, nil
	}
	return "", fmt.Errorf("%w: branch %q not found on %s", ErrHeadLookup, c.opts.Branch, c.opts.URL)
}

// FetchCommits clones the tracked branch into a temporary directory and
// walks history newest-first from opts.End (or the branch head) down to
// opts.Start exclusive, bounded by maxHistory. The clone is removed
// before returning, success or failure.
func (c *GitClient) FetchCommits(ctx context.Context, opts FetchOptions) ([]CommitDescriptor, error) {
	auth, err := c.authMethod()
	if err != nil {
		return nil, fmt.Errorf("%w: ssh key: %v", ErrFetch, err)
	}

	dir, err := os.MkdirTemp("", "commit-tracker-git-")
	if err != nil {
		return nil, fmt.Errorf("%w: tmp dir: %v", ErrFetch, err)
	}
	defer os.RemoveAll(dir)

	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           c.authURL(),
		Auth:          auth,
		ReferenceName: plumbing.NewBranchReferenceName(c.opts.Branch),
		SingleBranch:  true,
		Tags:          git.NoTags,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: clone %s: %v", ErrFetch, c.opts.URL, err)
	}

	from, err := c.resolveStartPoint(repo, opts.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	iter, err := repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("%w: log: %v", ErrFetch, err)
	}
	defer iter.Close()

	var commits []CommitDescriptor
	err = iter.ForEach(func(commit *object.Commit) error {
		hash := commit.Hash.String()
		if opts.Start != "" && hash == opts.Start {
			return storer.ErrStop
		}
		if !opts.Since.IsZero() && commit.Author.When.Before(opts.Since) {
			return storer.ErrStop
		}
		commits = append(commits, describeCommit(commit))
		if len(commits) >= maxHistory {
			if opts.Start != "" {
				log.Printf("git: history cap %d hit before reaching %s on %s, older commits skipped", maxHistory, opts.Start, c.opts.URL)
			}
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walk: %v", ErrFetch, err)
	}
	return commits, nil
}

func (c *GitClient) resolveStartPoint(repo *git.Repository, end string) (plumbing.Hash, error) {
	if end != "" {
		return plumbing.NewHash(end), nil
	}
	head, err := repo.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("head: %v", err)
	}
	return head.Hash(), nil
}

// CommitsSince returns the graph range lastKnown..head, or a bounded
// recent history when there is no watermark yet.
func (c *GitClient) CommitsSince(ctx context.Context, lastKnown string) ([]CommitDescriptor, error) {
	latest, err := c.LatestRevision(ctx)
	if err != nil {
		return nil, err
	}
	if lastKnown != "" && lastKnown == latest {
		return nil, nil
	}
	return c.FetchCommits(ctx, FetchOptions{Start: lastKnown, End: latest})
}

func describeCommit(commit *object.Commit) CommitDescriptor {
	var files []string
	// Changed-file enumeration is best effort; stat failures on odd
	// merges are swallowed and an empty list substituted.
	if stats, err := commit.Stats(); err == nil {
		for _, stat := range stats {
			files = append(files, stat.Name)
		}
	}
	return CommitDescriptor{
		Revision:     commit.Hash.String(),
		Author:       NormalizeAuthor(commit.Author.Name, commit.Author.Email),
		AuthorEmail:  commit.Author.Email,
		Time:         commit.Author.When,
		Message:      strings.TrimSpace(commit.Message),
		ChangedFiles: files,
	}
}
