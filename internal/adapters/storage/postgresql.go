package storage

import (
	"fmt"
	"log"

	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"github.com/bigteam/commit-tracker/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the PostgreSQL connection and migrates the schema.
func InitDB(cfg config.Database) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&entities.Repository{},
		&entities.Author{},
		&entities.CommitRecord{},
		&entities.SyncLog{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}
