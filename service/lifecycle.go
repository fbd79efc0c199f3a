package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/entity"
	"github.com/tnqbao/gau-drive-service/infra/produce"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SoftDelete moves an entry to the trash. For folders the whole subtree is
// flagged in one bulk update, so the trash view and the live tree always
// agree on the subtree's visibility.
func (s *DriveService) SoftDelete(ctx context.Context, ownerID, entryID uuid.UUID) error {
	entry, err := s.repo.EntryRepo.FindByID(entryID)
	if err != nil {
		return lookupErr(err)
	}
	if entry.OwnerID != ownerID {
		return ErrPermissionDenied
	}

	ids := []uuid.UUID{entry.ID}
	tokens := collectShareToken(nil, entry)

	if entry.IsFolder() {
		err := s.walkSubtree(ctx, entry, true, subtreeVisitor{
			EnterFolder: func(e *entity.Entry) error {
				ids = append(ids, e.ID)
				tokens = collectShareToken(tokens, e)
				return nil
			},
			File: func(e *entity.Entry) error {
				ids = append(ids, e.ID)
				tokens = collectShareToken(tokens, e)
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("failed to collect subtree: %w", err)
		}
	}

	now := time.Now()
	if err := s.repo.EntryRepo.SetDeletedByIDs(ids, true, &now); err != nil {
		return fmt.Errorf("failed to soft delete: %w", err)
	}

	s.purgeShareCache(ctx, tokens)
	return nil
}

// Restore brings a single entry back from the trash. Descendants stay
// deleted: a restored child under a still-deleted ancestor is simply
// unreachable until the ancestor is restored too.
func (s *DriveService) Restore(ctx context.Context, ownerID, entryID uuid.UUID) (*entity.Entry, error) {
	entry, err := s.repo.EntryRepo.FindByIDAndOwner(entryID, ownerID)
	if err != nil {
		return nil, lookupErr(err)
	}

	if err := s.repo.EntryRepo.UpdateFields(entry.ID, map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
	}); err != nil {
		// A sibling may have claimed the folder's name while it sat in
		// the trash.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, entry.Name)
		}
		return nil, fmt.Errorf("failed to restore: %w", err)
	}

	entry.IsDeleted = false
	entry.DeletedAt = nil
	return entry, nil
}

// PermanentDelete removes an entry's records irreversibly and its blobs
// best-effort. Blob failures never halt the walk: the failed key is queued
// for the cleanup worker and reported in the returned PartialFailure.
// Soft-deleted descendants are purged together with their ancestor.
func (s *DriveService) PermanentDelete(ctx context.Context, ownerID, entryID uuid.UUID) error {
	entry, err := s.repo.EntryRepo.FindByID(entryID)
	if err != nil {
		return lookupErr(err)
	}
	if entry.OwnerID != ownerID {
		return ErrPermissionDenied
	}

	var failures []ItemFailure
	tokens := collectShareToken(nil, entry)

	removeFile := func(e *entity.Entry) error {
		tokens = collectShareToken(tokens, e)
		if e.BlobKey != nil {
			if err := s.blob.Delete(ctx, *e.BlobKey); err != nil {
				s.logger.WarningWithContextf(ctx, "[Lifecycle] Blob delete failed for %s (%s), queuing retry: %v", e.ID, *e.BlobKey, err)
				failures = append(failures, ItemFailure{EntryID: e.ID, BlobKey: *e.BlobKey, Op: "blob-delete", Reason: err.Error()})
				s.enqueueBlobCleanup(ctx, e)
			}
		}
		if err := s.repo.EntryRepo.HardDelete(e.ID); err != nil {
			return fmt.Errorf("failed to delete record %s: %w", e.ID, err)
		}
		return nil
	}

	if entry.IsFolder() {
		err := s.walkSubtree(ctx, entry, true, subtreeVisitor{
			File: removeFile,
			ExitFolder: func(e *entity.Entry) error {
				// Children are gone by the time a folder exits.
				tokens = collectShareToken(tokens, e)
				if err := s.repo.EntryRepo.HardDelete(e.ID); err != nil {
					return fmt.Errorf("failed to delete record %s: %w", e.ID, err)
				}
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete subtree: %w", err)
		}
		if err := s.repo.EntryRepo.HardDelete(entry.ID); err != nil {
			return fmt.Errorf("failed to delete record %s: %w", entry.ID, err)
		}
	} else {
		if err := removeFile(entry); err != nil {
			return err
		}
	}

	s.purgeShareCache(ctx, tokens)

	if len(failures) > 0 {
		return &PartialFailure{Op: "permanent delete", Items: failures}
	}
	return nil
}

// enqueueBlobCleanup records the failed removal durably and hands it to the
// retry worker. Both legs are best-effort; a failure here only logs.
func (s *DriveService) enqueueBlobCleanup(ctx context.Context, e *entity.Entry) {
	detail, _ := json.Marshal(map[string]string{
		"name":         e.Name,
		"virtual_path": e.VirtualPath,
	})
	task := &entity.CleanupTask{
		ID:      uuid.New(),
		EntryID: e.ID,
		OwnerID: e.OwnerID,
		BlobKey: *e.BlobKey,
		Status:  entity.CleanupStatusPending,
		Detail:  datatypes.JSON(detail),
	}
	if err := s.repo.CleanupTaskRepo.Create(task); err != nil {
		s.logger.ErrorWithContextf(ctx, err, "[Lifecycle] Failed to record cleanup task for %s", *e.BlobKey)
		return
	}
	if s.queue == nil {
		return
	}
	msg := produce.BlobCleanupMessage{
		TaskID:  task.ID.String(),
		EntryID: e.ID.String(),
		OwnerID: e.OwnerID.String(),
		BlobKey: *e.BlobKey,
		Attempt: 1,
	}
	if err := s.queue.PublishBlobCleanup(ctx, msg); err != nil {
		s.logger.ErrorWithContextf(ctx, err, "[Lifecycle] Failed to publish cleanup message for %s", *e.BlobKey)
	}
}

func collectShareToken(tokens []string, e *entity.Entry) []string {
	if e.IsShared && e.ShareToken != nil {
		return append(tokens, *e.ShareToken)
	}
	return tokens
}
