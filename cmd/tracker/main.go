package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/robfig/cron/v3"

	"github.com/bigteam/commit-tracker/internal/adapters/db"
	trackerhttp "github.com/bigteam/commit-tracker/internal/adapters/http"
	"github.com/bigteam/commit-tracker/internal/adapters/storage"
	"github.com/bigteam/commit-tracker/internal/adapters/vcs"
	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"github.com/bigteam/commit-tracker/internal/core/service"
	"github.com/bigteam/commit-tracker/pkg/config"
)

func main() {
	cfg := config.Load()

	// Initialize the database
	gormDB := storage.InitDB(cfg.Database)

	// Create the stores
	repoStore := db.NewGormRepositoryStore(gormDB)
	commitStore := db.NewGormCommitStore(gormDB)
	authorStore := db.NewGormAuthorStore(gormDB)
	syncLogStore := db.NewGormSyncLogStore(gormDB)

	// Author resolution policy; strict mode disables the identity merge.
	var policy service.ResolutionPolicy
	if cfg.StrictAuthorResolution {
		policy = service.StrictPolicy{}
	}
	resolver := service.NewAuthorResolver(authorStore, policy)

	// Create the sync core
	ingestor := service.NewIngestor(
		repoStore, commitStore, syncLogStore,
		resolver, vcs.NewFactory(), cfg.SyncTimeout,
	)
	syncer := service.NewSyncer(repoStore, ingestor, cfg.SyncWorkers)

	// Schedule the periodic sync
	scheduler := cron.New()
	_, err := scheduler.AddFunc(fmt.Sprintf("@every %s", cfg.SyncInterval), func() {
		syncer.SyncAll(context.Background(), entities.SyncTriggerScheduled)
	})
	if err != nil {
		log.Fatalf("Failed to schedule sync job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Set up HTTP routes
	handler := trackerhttp.NewHandler(repoStore, commitStore, authorStore, syncLogStore, ingestor, syncer)
	router := trackerhttp.NewRouter(handler)

	log.Printf("Server is running on %s, syncing every %s", cfg.HTTPAddr, cfg.SyncInterval)
	if err := http.ListenAndServe(cfg.HTTPAddr, router); err != nil {
		log.Fatalf("Could not start server: %s", err)
	}
}
