package vcs

import (
	"testing"

	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"github.com/stretchr/testify/assert"
)

func newTestRepo(kind string) *entities.Repository {
	return &entities.Repository{
		Name: "proj",
		URL:  "https://example.com/repo",
		Kind: entities.VCSKind(kind),
	}
}

func TestNormalizeAuthor(t *testing.T) {
	cases := []struct {
		name   string
		author string
		email  string
		want   string
	}{
		{"plain name", "jdoe", "jdoe@example.com", "jdoe"},
		{"whitespace trimmed", "  jdoe  ", "", "jdoe"},
		{"angle brackets stripped", "<jdoe>", "", "jdoe"},
		{"empty author derives from email", "", "jane.doe@example.com", "jane.doe"},
		{"author equal to email derives local part", "jdoe@example.com", "jdoe@example.com", "jdoe"},
		{"nothing usable", "", "", "unknown"},
		{"only brackets", "<>", "", "unknown"},
		{"email without at sign ignored", "", "not-an-email", "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeAuthor(tc.author, tc.email))
		})
	}
}

func TestFactorySelectsByKind(t *testing.T) {
	factory := NewFactory()

	svnRepo := newTestRepo("svn")
	client, err := factory.ClientFor(svnRepo)
	assert.NoError(t, err)
	assert.IsType(t, &SVNClient{}, client)

	gitRepo := newTestRepo("git")
	client, err = factory.ClientFor(gitRepo)
	assert.NoError(t, err)
	assert.IsType(t, &GitClient{}, client)

	badRepo := newTestRepo("cvs")
	_, err = factory.ClientFor(badRepo)
	assert.Error(t, err)
}
