package service

import (
	"context"
	"testing"

	"github.com/bigteam/commit-tracker/internal/adapters/db/mocks"
	"github.com/bigteam/commit-tracker/internal/adapters/vcs"
	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// routingFactory hands each repository its own canned client and panics
// for unconfigured ones, which doubles as the panic-isolation fixture.
type routingFactory struct {
	clients map[string]vcs.Client
}

func (f *routingFactory) ClientFor(repo *entities.Repository) (vcs.Client, error) {
	client, ok := f.clients[repo.Name]
	if !ok {
		panic("no client configured for " + repo.Name)
	}
	return client, nil
}

func newSyncerFixture(t *testing.T, factory vcs.Factory, repositories []entities.Repository) (*Syncer, *mocks.RepositoryStore, *mocks.CommitStore) {
	t.Helper()
	repos := new(mocks.RepositoryStore)
	commits := new(mocks.CommitStore)
	authors := new(mocks.AuthorStore)
	syncLogs := new(mocks.SyncLogStore)

	repos.On("GetAllRepositories", mock.Anything).Return(repositories, nil)
	repos.On("TouchLastSync", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	commits.On("LastRevision", mock.Anything, mock.Anything).Return("", nil).Maybe()
	syncLogs.On("CreateSyncLog", mock.Anything, mock.Anything).Return(nil).Maybe()

	resolver := NewAuthorResolver(authors, nil)
	ingestor := NewIngestor(repos, commits, syncLogs, resolver, factory, 0)
	return NewSyncer(repos, ingestor, 2), repos, commits
}

// One repository failing never prevents the others from being attempted.
func TestSyncAllIsolatesFailures(t *testing.T) {
	repositories := []entities.Repository{
		{ID: 1, Name: "broken", Kind: entities.VCSKindSVN},
		{ID: 2, Name: "healthy", Kind: entities.VCSKindGit},
	}
	factory := &routingFactory{clients: map[string]vcs.Client{
		"broken":  &fakeVCS{connected: false},
		"healthy": &fakeVCS{connected: true, head: "abc123"},
	}}
	syncer, repos, _ := newSyncerFixture(t, factory, repositories)

	succeeded, failed := syncer.SyncAll(context.Background(), entities.SyncTriggerScheduled)

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	repos.AssertCalled(t, "TouchLastSync", mock.Anything, uint(2), mock.Anything)
	repos.AssertNotCalled(t, "TouchLastSync", mock.Anything, uint(1), mock.Anything)
}

// Even a panicking sync is contained to its repository.
func TestSyncAllRecoversPanics(t *testing.T) {
	repositories := []entities.Repository{
		{ID: 1, Name: "exploding", Kind: entities.VCSKindGit},
		{ID: 2, Name: "healthy", Kind: entities.VCSKindGit},
	}
	factory := &routingFactory{clients: map[string]vcs.Client{
		// "exploding" is deliberately unconfigured.
		"healthy": &fakeVCS{connected: true, head: "abc123"},
	}}
	syncer, _, _ := newSyncerFixture(t, factory, repositories)

	succeeded, failed := syncer.SyncAll(context.Background(), entities.SyncTriggerScheduled)

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
}

// An unreadable repository list yields an empty report, not a crash.
func TestSyncAllListFailure(t *testing.T) {
	repos := new(mocks.RepositoryStore)
	repos.On("GetAllRepositories", mock.Anything).Return(nil, assert.AnError)

	commits := new(mocks.CommitStore)
	authors := new(mocks.AuthorStore)
	syncLogs := new(mocks.SyncLogStore)
	resolver := NewAuthorResolver(authors, nil)
	ingestor := NewIngestor(repos, commits, syncLogs, resolver, &fakeFactory{}, 0)
	syncer := NewSyncer(repos, ingestor, 2)

	succeeded, failed := syncer.SyncAll(context.Background(), entities.SyncTriggerManual)

	assert.Equal(t, 0, succeeded)
	assert.Equal(t, 0, failed)
}
