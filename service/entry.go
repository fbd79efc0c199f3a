package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/entity"
	"github.com/tnqbao/gau-drive-service/repository"
	"gorm.io/gorm"
)

func (s *DriveService) ListEntries(ctx context.Context, ownerID uuid.UUID, q repository.EntryListQuery) ([]entity.Entry, error) {
	entries, err := s.repo.EntryRepo.List(ownerID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

func (s *DriveService) CreateFolder(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (*entity.Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", ErrValidation)
	}

	parent, err := s.validateParent(ownerID, parentID)
	if err != nil {
		return nil, err
	}
	if err := s.validateFolderName(ownerID, parentID, name); err != nil {
		return nil, err
	}

	folder := &entity.Entry{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		ParentID:    parentID,
		Kind:        entity.EntryKindFolder,
		Name:        name,
		VirtualPath: resolveVirtualPath(parent, name),
	}

	if err := s.repo.EntryRepo.Create(folder); err != nil {
		// The partial unique index serializes racing creates; the loser
		// lands here even though the pre-check passed.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, name)
		}
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return folder, nil
}

func (s *DriveService) UploadFile(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID,
	reader io.Reader, size int64, contentType string) (*entity.Entry, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	parent, err := s.validateParent(ownerID, parentID)
	if err != nil {
		return nil, err
	}

	// Blob first: a failed put must leave no orphan metadata.
	blobKey := fmt.Sprintf("entries/%s/%s", ownerID, uuid.New())
	if err := s.blob.Put(ctx, blobKey, reader, size, contentType); err != nil {
		return nil, &StorageBackendError{Op: "put", Key: blobKey, Err: err}
	}

	file := &entity.Entry{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		ParentID:    parentID,
		Kind:        entity.EntryKindFile,
		Name:        name,
		SizeBytes:   size,
		ContentType: &contentType,
		VirtualPath: resolveVirtualPath(parent, name),
		BlobKey:     &blobKey,
	}

	if err := s.repo.EntryRepo.Create(file); err != nil {
		// Roll the blob back so a failed insert leaves nothing behind.
		if delErr := s.blob.Delete(ctx, blobKey); delErr != nil {
			s.logger.WarningWithContextf(ctx, "[Entry] Orphan blob %s left after failed insert: %v", blobKey, delErr)
		}
		return nil, fmt.Errorf("failed to create file entry: %w", err)
	}

	return file, nil
}

// DownloadRef is a time-limited retrieval reference for one file.
type DownloadRef struct {
	Entry *entity.Entry `json:"entry"`
	URL   string        `json:"url"`
}

func (s *DriveService) GetDownloadRef(ctx context.Context, ownerID, entryID uuid.UUID) (*DownloadRef, error) {
	entry, err := s.repo.EntryRepo.FindByID(entryID)
	if err != nil {
		return nil, lookupErr(err)
	}
	if entry.OwnerID != ownerID {
		return nil, ErrPermissionDenied
	}
	if entry.IsFolder() {
		return nil, fmt.Errorf("%w: entry is a folder", ErrValidation)
	}
	if entry.BlobKey == nil {
		return nil, fmt.Errorf("%w: entry has no content", ErrValidation)
	}

	url, err := s.blob.SignURL(ctx, *entry.BlobKey, entry.Name, s.signExpiry)
	if err != nil {
		return nil, &StorageBackendError{Op: "sign", Key: *entry.BlobKey, Err: err}
	}

	return &DownloadRef{Entry: entry, URL: url}, nil
}

func (s *DriveService) ToggleStar(ctx context.Context, ownerID, entryID uuid.UUID) (*entity.Entry, error) {
	entry, err := s.repo.EntryRepo.FindByIDAndOwner(entryID, ownerID)
	if err != nil {
		return nil, lookupErr(err)
	}

	entry.IsStarred = !entry.IsStarred
	if err := s.repo.EntryRepo.UpdateFields(entry.ID, map[string]interface{}{
		"is_starred": entry.IsStarred,
	}); err != nil {
		return nil, fmt.Errorf("failed to update star flag: %w", err)
	}

	return entry, nil
}
