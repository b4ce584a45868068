package vcs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleLogXML = `<?xml version="1.0" encoding="UTF-8"?>
<log>
<logentry revision="42">
<author>alice</author>
<date>2024-03-01T10:15:30.000000Z</date>
<paths>
<path action="M">/trunk/main.c</path>
<path action="A">/trunk/util.c</path>
</paths>
<msg>Fix main loop</msg>
</logentry>
<logentry revision="44">
<author>bob</author>
<date>2024-03-02T09:00:00.000000Z</date>
<paths>
<path action="M">/trunk/util.c</path>
</paths>
<msg>Tidy helpers</msg>
</logentry>
<logentry revision="45">
<author>alice</author>
<date>2024-03-02T17:45:10.000000Z</date>
<msg>Release prep</msg>
</logentry>
</log>`

// fakeSVN stubs the svn binary: answers "info --show-item revision" with
// head and "log" with the canned XML, recording the range it was asked
// for.
func fakeSVN(t *testing.T, head int, logXML string) (*SVNClient, *[]string) {
	t.Helper()
	var ranges []string
	client := NewSVNClient("https://svn.example.com/proj", "", "")
	client.run = func(ctx context.Context, args ...string) ([]byte, error) {
		switch args[0] {
		case "info":
			return []byte(fmt.Sprintf("%d\n", head)), nil
		case "log":
			for i, arg := range args {
				if arg == "-r" && i+1 < len(args) {
					ranges = append(ranges, args[i+1])
				}
			}
			return []byte(logXML), nil
		}
		return nil, fmt.Errorf("unexpected svn subcommand %q", args[0])
	}
	return client, &ranges
}

func TestSVNParseLog(t *testing.T) {
	commits, err := parseLog([]byte(sampleLogXML))
	assert.NoError(t, err)
	assert.Len(t, commits, 3)

	assert.Equal(t, "42", commits[0].Revision)
	assert.Equal(t, "alice", commits[0].Author)
	assert.Equal(t, "Fix main loop", commits[0].Message)
	assert.Equal(t, []string{"/trunk/main.c", "/trunk/util.c"}, commits[0].ChangedFiles)
	assert.Equal(t, 2024, commits[0].Time.Year())

	assert.Equal(t, "44", commits[1].Revision)
	assert.Equal(t, "bob", commits[1].Author)

	assert.Equal(t, "45", commits[2].Revision)
	assert.Empty(t, commits[2].ChangedFiles)
}

// Last stored revision 41, head 45, upstream holds entries for 42, 44
// and 45 only. Exactly those three come back and the requested range is
// [42, 45].
func TestSVNCommitsSinceRange(t *testing.T) {
	client, ranges := fakeSVN(t, 45, sampleLogXML)

	commits, err := client.CommitsSince(context.Background(), "41")
	assert.NoError(t, err)
	assert.Len(t, commits, 3)
	assert.Equal(t, []string{"42:45"}, *ranges)

	revisions := make([]string, 0, len(commits))
	for _, commit := range commits {
		revisions = append(revisions, commit.Revision)
	}
	assert.Equal(t, []string{"42", "44", "45"}, revisions)
	assert.NotContains(t, revisions, "43")
}

func TestSVNCommitsSinceAlreadyUpToDate(t *testing.T) {
	client, ranges := fakeSVN(t, 45, sampleLogXML)

	commits, err := client.CommitsSince(context.Background(), "45")
	assert.NoError(t, err)
	assert.Empty(t, commits)
	assert.Empty(t, *ranges, "no log call expected when start > head")
}

func TestSVNCommitsSinceNoWatermark(t *testing.T) {
	client, ranges := fakeSVN(t, 45, sampleLogXML)

	_, err := client.CommitsSince(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, []string{"1:45"}, *ranges)
}

func TestSVNCommitsSinceClampsToOne(t *testing.T) {
	client, ranges := fakeSVN(t, 5, sampleLogXML)

	_, err := client.CommitsSince(context.Background(), "-3")
	assert.NoError(t, err)
	assert.Equal(t, []string{"1:5"}, *ranges)
}

func TestSVNHeadLookupFailureIsFatal(t *testing.T) {
	client := NewSVNClient("https://svn.example.com/proj", "", "")
	client.run = func(ctx context.Context, args ...string) ([]byte, error) {
		return nil, errors.New("svn: E170013: unable to connect")
	}

	_, err := client.CommitsSince(context.Background(), "41")
	assert.ErrorIs(t, err, ErrHeadLookup)

	_, err = client.LatestRevision(context.Background())
	assert.ErrorIs(t, err, ErrHeadLookup)

	assert.False(t, client.TestConnection(context.Background()))
}

func TestSVNFetchFailureIsRecoverable(t *testing.T) {
	client := NewSVNClient("https://svn.example.com/proj", "", "")
	client.run = func(ctx context.Context, args ...string) ([]byte, error) {
		if args[0] == "info" {
			return []byte("45\n"), nil
		}
		return nil, errors.New("svn: E175002: log request failed")
	}

	_, err := client.CommitsSince(context.Background(), "41")
	assert.ErrorIs(t, err, ErrFetch)
	assert.NotErrorIs(t, err, ErrHeadLookup)
}

func TestSVNLatestRevision(t *testing.T) {
	client, _ := fakeSVN(t, 45, sampleLogXML)

	rev, err := client.LatestRevision(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "45", rev)
	assert.True(t, client.TestConnection(context.Background()))
}
