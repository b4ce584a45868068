package entities

import "time"

// Sync triggers.
const (
	SyncTriggerScheduled = "scheduled"
	SyncTriggerManual    = "manual"
	SyncTriggerInitial   = "initial"
)

// Sync outcomes.
const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// SyncLog records the outcome of one sync attempt for one repository.
type SyncLog struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	RepositoryID uint   `json:"repository_id" gorm:"not null;index"`
	TaskID       string `json:"task_id" gorm:"size:36;index"`
	Trigger      string `json:"trigger" gorm:"size:20;not null"`

	StartedAt  time.Time  `json:"started_at" gorm:"not null"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Duration   float64    `json:"duration,omitempty"`

	Status       string `json:"status" gorm:"size:20;not null"`
	FromRevision string `json:"from_revision,omitempty" gorm:"size:100"`
	ToRevision   string `json:"to_revision,omitempty" gorm:"size:100"`
	Stored       int    `json:"stored"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
	ErrorMessage string `json:"error_message,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`

	Repository Repository `json:"-" gorm:"foreignKey:RepositoryID"`
}
