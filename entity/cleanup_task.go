package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	CleanupStatusPending = "pending"
	CleanupStatusDone    = "done"
	CleanupStatusFailed  = "failed"
)

// CleanupTask records a blob whose removal failed during a permanent delete.
// The consumer retries these so metadata deletion never waits on the blob
// backend.
type CleanupTask struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	EntryID   uuid.UUID      `json:"entry_id" gorm:"type:uuid;not null"`
	OwnerID   uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	BlobKey   string         `json:"blob_key" gorm:"type:varchar(1024);not null"`
	Status    string         `json:"status" gorm:"type:varchar(16);not null;default:'pending';index"`
	Attempts  int            `json:"attempts" gorm:"not null;default:0"`
	LastError string         `json:"last_error,omitempty" gorm:"type:text"`
	Detail    datatypes.JSON `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}
