package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/bigteam/commit-tracker/internal/adapters/db"
	"github.com/bigteam/commit-tracker/internal/adapters/vcs"
	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func encodeChangedFiles(files []string) datatypes.JSON {
	if len(files) == 0 {
		return nil
	}
	data, err := json.Marshal(files)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

// BatchReport tallies what happened to each commit of one sync run.
type BatchReport struct {
	Stored  int
	Skipped int
	Failed  int
}

// Ingestor runs the per-repository synchronization cycle: compute the
// fetch range from the stored watermark, pull the delta from the VCS,
// resolve authors, persist commits idempotently, advance the last-sync
// timestamp. No error escapes Sync; every failure mode resolves to the
// returned boolean plus a sync log row.
type Ingestor struct {
	repos    db.RepositoryStore
	commits  db.CommitStore
	syncLogs db.SyncLogStore
	resolver *AuthorResolver
	factory  vcs.Factory
	timeout  time.Duration

	// locks holds one mutex per repository id so overlapping triggers
	// for the same repository cannot race on the watermark.
	locks sync.Map
}

// NewIngestor creates an ingestor. A zero timeout disables the
// per-attempt deadline.
func NewIngestor(
	repos db.RepositoryStore,
	commits db.CommitStore,
	syncLogs db.SyncLogStore,
	resolver *AuthorResolver,
	factory vcs.Factory,
	timeout time.Duration,
) *Ingestor {
	return &Ingestor{
		repos:    repos,
		commits:  commits,
		syncLogs: syncLogs,
		resolver: resolver,
		factory:  factory,
		timeout:  timeout,
	}
}

func (s *Ingestor) lockFor(id uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Sync synchronizes one repository and reports success. An overlapping
// sync of the same repository is skipped, not queued; the skipped caller
// sees success since nothing went wrong.
func (s *Ingestor) Sync(ctx context.Context, repo *entities.Repository, trigger string) bool {
	mu := s.lockFor(repo.ID)
	if !mu.TryLock() {
		log.Printf("Sync already in progress for repository %s, skipping", repo.Name)
		return true
	}
	defer mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	syncLog := &entities.SyncLog{
		RepositoryID: repo.ID,
		TaskID:       uuid.NewString(),
		Trigger:      trigger,
		StartedAt:    started,
	}

	report, fromRev, toRev, err := s.run(ctx, repo)

	finished := time.Now()
	syncLog.FinishedAt = &finished
	syncLog.Duration = finished.Sub(started).Seconds()
	syncLog.FromRevision = fromRev
	syncLog.ToRevision = toRev
	syncLog.Stored = report.Stored
	syncLog.Skipped = report.Skipped
	syncLog.Failed = report.Failed

	if err != nil {
		syncLog.Status = entities.SyncStatusFailed
		syncLog.ErrorMessage = err.Error()
		log.Printf("Sync failed for repository %s: %v", repo.Name, err)
	} else {
		syncLog.Status = entities.SyncStatusSuccess
		log.Printf("Synced repository %s: %d new, %d skipped, %d failed",
			repo.Name, report.Stored, report.Skipped, report.Failed)
	}

	if logErr := s.syncLogs.CreateSyncLog(ctx, syncLog); logErr != nil {
		log.Printf("Failed to record sync log for repository %s: %v", repo.Name, logErr)
	}

	return err == nil
}

// run is the sync state machine proper. It returns the watermark before
// and after the attempt for the sync log.
func (s *Ingestor) run(ctx context.Context, repo *entities.Repository) (BatchReport, string, string, error) {
	var report BatchReport

	client, err := s.factory.ClientFor(repo)
	if err != nil {
		return report, "", "", err
	}

	if !client.TestConnection(ctx) {
		return report, "", "", errors.New("connection test failed")
	}

	lastRev, err := s.commits.LastRevision(ctx, repo.ID)
	if err != nil {
		return report, "", "", err
	}

	descriptors, err := client.CommitsSince(ctx, lastRev)
	switch {
	case err == nil:
	case errors.Is(err, vcs.ErrFetch) || errors.Is(err, context.DeadlineExceeded):
		// The repository was reachable but the delta could not be read.
		// Treated as zero new commits; the revision watermark derives
		// from stored commits so nothing is lost permanently.
		log.Printf("Fetch failed for repository %s, treating as empty: %v", repo.Name, err)
		descriptors = nil
	default:
		return report, lastRev, "", err
	}

	for _, descriptor := range descriptors {
		switch outcome := s.ingestOne(ctx, repo, descriptor); outcome {
		case ingestStored:
			report.Stored++
		case ingestSkipped:
			report.Skipped++
		case ingestFailed:
			report.Failed++
		}
	}

	now := time.Now()
	if err := s.repos.TouchLastSync(ctx, repo.ID, now); err != nil {
		return report, lastRev, "", err
	}

	toRev, err := s.commits.LastRevision(ctx, repo.ID)
	if err != nil {
		toRev = lastRev
	}
	return report, lastRev, toRev, nil
}

type ingestOutcome int

const (
	ingestStored ingestOutcome = iota
	ingestSkipped
	ingestFailed
)

// ingestOne stores a single commit. Duplicates are skipped, any other
// failure is logged and counted; the batch always continues.
func (s *Ingestor) ingestOne(ctx context.Context, repo *entities.Repository, descriptor vcs.CommitDescriptor) ingestOutcome {
	exists, err := s.commits.CommitExists(ctx, repo.ID, descriptor.Revision)
	if err != nil {
		log.Printf("Failed to check commit %s for repository %s: %v", descriptor.Revision, repo.Name, err)
		return ingestFailed
	}
	if exists {
		return ingestSkipped
	}

	author, err := s.resolver.Resolve(ctx, descriptor.Author, descriptor.AuthorEmail)
	if err != nil {
		log.Printf("Failed to resolve author %q for commit %s: %v", descriptor.Author, descriptor.Revision, err)
		return ingestFailed
	}

	record := &entities.CommitRecord{
		RepositoryID: repo.ID,
		Revision:     descriptor.Revision,
		Time:         descriptor.Time,
		AuthorID:     author.ID,
		Message:      descriptor.Message,
	}
	if files := encodeChangedFiles(descriptor.ChangedFiles); files != nil {
		record.ChangedFiles = files
	}

	if err := s.commits.CreateCommit(ctx, record); err != nil {
		// A concurrent run may have inserted the same (repository,
		// revision) between the existence check and here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ingestSkipped
		}
		log.Printf("Failed to store commit %s for repository %s: %v", descriptor.Revision, repo.Name, err)
		return ingestFailed
	}
	return ingestStored
}
