package service

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/bigteam/commit-tracker/internal/adapters/db"
	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
)

// Syncer iterates every tracked repository and runs the ingestor for
// each, isolating failures so one repository can never abort the rest.
type Syncer struct {
	repos    db.RepositoryStore
	ingestor *Ingestor
	workers  int
}

// NewSyncer creates a syncer running at most workers repositories in
// parallel; anything below 1 is treated as sequential.
func NewSyncer(repos db.RepositoryStore, ingestor *Ingestor, workers int) *Syncer {
	if workers < 1 {
		workers = 1
	}
	return &Syncer{repos: repos, ingestor: ingestor, workers: workers}
}

// SyncAll synchronizes every repository and returns aggregate success
// and failure counts. It never returns an error; a repository whose list
// cannot even be read counts as zero of each.
func (s *Syncer) SyncAll(ctx context.Context, trigger string) (int, int) {
	repositories, err := s.repos.GetAllRepositories(ctx)
	if err != nil {
		log.Printf("Failed to list repositories: %v", err)
		return 0, 0
	}

	var succeeded, failed atomic.Int64
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i := range repositories {
		repo := repositories[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if s.syncOne(ctx, &repo, trigger) {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	log.Printf("Repository sync completed: %d succeeded, %d failed", succeeded.Load(), failed.Load())
	return int(succeeded.Load()), int(failed.Load())
}

// syncOne shields the batch from a panicking repository sync.
func (s *Syncer) syncOne(ctx context.Context, repo *entities.Repository, trigger string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic while syncing repository %s: %v", repo.Name, r)
			ok = false
		}
	}()
	return s.ingestor.Sync(ctx, repo, trigger)
}
