package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("entry not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("folder name already exists")
)

// StorageBackendError wraps a blob store failure (put/get/delete/sign).
type StorageBackendError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageBackendError) Error() string {
	return fmt.Sprintf("blob store %s failed for %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageBackendError) Unwrap() error {
	return e.Err
}

// ItemFailure is one swallowed sub-item error from a best-effort operation.
type ItemFailure struct {
	EntryID uuid.UUID `json:"entry_id"`
	BlobKey string    `json:"blob_key,omitempty"`
	Op      string    `json:"op"`
	Reason  string    `json:"reason"`
}

// PartialFailure reports that a best-effort operation completed but one or
// more sub-items failed. The overall mutation is done; the items listed
// here are outstanding.
type PartialFailure struct {
	Op    string
	Items []ItemFailure
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s completed with %d sub-item failures", e.Op, len(e.Items))
}

// lookupErr translates a repository read error for a single entry.
func lookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("entry lookup failed: %w", err)
}
