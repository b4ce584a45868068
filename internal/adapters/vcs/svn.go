package vcs

import (
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// recentWindow is how far back an unbounded svn fetch reaches.
const recentWindow = 100

// SVNClient reads commit history by driving the installed svn client.
// Revision identifiers are contiguous integers stored as text.
type SVNClient struct {
	url      string
	username string
	password string

	// run executes an svn subcommand; swappable in tests.
	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewSVNClient creates an svn client for one repository.
func NewSVNClient(url, username, password string) *SVNClient {
	c := &SVNClient{url: url, username: username, password: password}
	c.run = c.execSVN
	return c
}

func (c *SVNClient) execSVN(ctx context.Context, args ...string) ([]byte, error) {
	full := []string{"--non-interactive", "--no-auth-cache"}
	if c.username != "" {
		full = append(full, "--username", c.username)
	}
	if c.password != "" {
		full = append(full, "--password", c.password)
	}
	full = append(full, args...)

	out, err := exec.CommandContext(ctx, "svn", full...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("svn %s: %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("svn %s: %v", args[0], err)
	}
	return out, nil
}

func (c *SVNClient) headRevision(ctx context.Context) (int, error) {
	out, err := c.run(ctx, "info", "--show-item", "revision", c.url)
	if err != nil {
		return 0, err
	}
	rev, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("unexpected svn info output %q: %v", strings.TrimSpace(string(out)), err)
	}
	return rev, nil
}

// TestConnection fetches the head revision number, the cheapest svn
// round trip that also exercises authentication.
func (c *SVNClient) TestConnection(ctx context.Context) bool {
	if _, err := c.headRevision(ctx); err != nil {
		log.Printf("svn: connection test failed for %s: %v", c.url, err)
		return false
	}
	return true
}

// LatestRevision returns the repository head revision as text.
func (c *SVNClient) LatestRevision(ctx context.Context) (string, error) {
	rev, err := c.headRevision(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHeadLookup, c.url, err)
	}
	return strconv.Itoa(rev), nil
}

// FetchCommits runs svn log over the inclusive revision range described
// by opts. A start beyond the end after clamping means the repository is
// already up to date and yields no commits and no error.
func (c *SVNClient) FetchCommits(ctx context.Context, opts FetchOptions) ([]CommitDescriptor, error) {
	var rangeArg string
	if !opts.Since.IsZero() && opts.Start == "" && opts.End == "" {
		rangeArg = fmt.Sprintf("{%s}:HEAD", opts.Since.UTC().Format("2006-01-02"))
	} else {
		start, end, err := c.resolveRange(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		if start > end {
			return nil, nil
		}
		rangeArg = fmt.Sprintf("%d:%d", start, end)
	}

	out, err := c.run(ctx, "log", "--xml", "-v", "-r", rangeArg, c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	commits, err := parseLog(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return commits, nil
}

func (c *SVNClient) resolveRange(ctx context.Context, opts FetchOptions) (int, int, error) {
	var start, end int
	var err error

	if opts.End != "" {
		if end, err = strconv.Atoi(opts.End); err != nil {
			return 0, 0, fmt.Errorf("bad end revision %q", opts.End)
		}
	} else {
		if end, err = c.headRevision(ctx); err != nil {
			return 0, 0, err
		}
	}

	if opts.Start != "" {
		if start, err = strconv.Atoi(opts.Start); err != nil {
			return 0, 0, fmt.Errorf("bad start revision %q", opts.Start)
		}
	} else if opts.End == "" {
		start = end - recentWindow
	} else {
		start = 1
	}

	if start < 1 {
		start = 1
	}
	return start, end, nil
}

// CommitsSince computes the range [max(1, last+1), head]. A start beyond
// the head means already up to date.
func (c *SVNClient) CommitsSince(ctx context.Context, lastKnown string) ([]CommitDescriptor, error) {
	head, err := c.headRevision(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrHeadLookup, c.url, err)
	}

	last := 0
	if lastKnown != "" {
		if last, err = strconv.Atoi(lastKnown); err != nil {
			// A non-numeric watermark means the stored history predates
			// this repository's kind; start over from revision 1.
			last = 0
		}
	}

	start := last + 1
	if start < 1 {
		start = 1
	}
	if start > head {
		return nil, nil
	}
	return c.FetchCommits(ctx, FetchOptions{Start: strconv.Itoa(start), End: strconv.Itoa(head)})
}

// svn log --xml output shapes.
type svnLog struct {
	XMLName xml.Name      `xml:"log"`
	Entries []svnLogEntry `xml:"logentry"`
}

type svnLogEntry struct {
	Revision int      `xml:"revision,attr"`
	Author   string   `xml:"author"`
	Date     string   `xml:"date"`
	Message  string   `xml:"msg"`
	Paths    []string `xml:"paths>path"`
}

func parseLog(out []byte) ([]CommitDescriptor, error) {
	var parsed svnLog
	if err := xml.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("parse svn log: %v", err)
	}

	commits := make([]CommitDescriptor, 0, len(parsed.Entries))
	for _, entry := range parsed.Entries {
		if entry.Revision == 0 {
			continue
		}
		when, err := time.Parse(time.RFC3339, entry.Date)
		if err != nil {
			when = time.Now().UTC()
		}
		commits = append(commits, CommitDescriptor{
			Revision:     strconv.Itoa(entry.Revision),
			Author:       NormalizeAuthor(entry.Author, ""),
			Time:         when,
			Message:      strings.TrimSpace(entry.Message),
			ChangedFiles: entry.Paths,
		})
	}
	return commits, nil
}
