package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/entity"
	"gorm.io/gorm"
)

// validateParent resolves the parent for a structural mutation. A missing
// parent, a parent of the wrong kind, and a parent owned by someone else all
// read as not-found to the caller.
func (s *DriveService) validateParent(ownerID uuid.UUID, parentID *uuid.UUID) (*entity.Entry, error) {
	if parentID == nil {
		return nil, nil
	}
	parent, err := s.repo.EntryRepo.FindByIDAndOwner(*parentID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("parent folder: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("parent lookup failed: %w", err)
	}
	if !parent.IsFolder() {
		return nil, fmt.Errorf("parent is not a folder: %w", ErrNotFound)
	}
	return parent, nil
}

// validateFolderName is the read-side half of the sibling-folder collision
// rule. Only folders collide; files never do, nor does a file against a
// folder of the same name. The partial unique index re-validates this
// atomically with the insert.
func (s *DriveService) validateFolderName(ownerID uuid.UUID, parentID *uuid.UUID, name string) error {
	_, err := s.repo.EntryRepo.FindLiveFolderByName(ownerID, parentID, name)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrConflict, name)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fmt.Errorf("name collision check failed: %w", err)
}
