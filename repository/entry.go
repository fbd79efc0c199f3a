package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/entity"
	"gorm.io/gorm"
)

type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// EntryListQuery narrows and orders a listing. View selects between the
// default live view, the trash view and the starred view; ParentID scopes
// the default view only (trash and starred are flat across the whole tree).
type EntryListQuery struct {
	View     string // "", "trash", "starred"
	ParentID *uuid.UUID
	Search   string // case-insensitive substring on name
	Type     string // "folder", "image", "video", "audio", "pdf" or exact content type
	Sort     string // "name" (default), "date", "size"
}

const (
	ViewDefault = ""
	ViewTrash   = "trash"
	ViewStarred = "starred"
)

func (r *EntryRepository) Create(entry *entity.Entry) error {
	return r.db.Create(entry).Error
}

func (r *EntryRepository) FindByID(id uuid.UUID) (*entity.Entry, error) {
	var entry entity.Entry
	err := r.db.Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepository) FindByIDAndOwner(id, ownerID uuid.UUID) (*entity.Entry, error) {
	var entry entity.Entry
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepository) List(ownerID uuid.UUID, q EntryListQuery) ([]entity.Entry, error) {
	db := r.db.Where("owner_id = ?", ownerID)

	switch q.View {
	case ViewTrash:
		db = db.Where("is_deleted = ?", true)
	case ViewStarred:
		db = db.Where("is_starred = ? AND is_deleted = ?", true, false)
	default:
		db = db.Where("is_deleted = ?", false)
		if q.ParentID != nil {
			db = db.Where("parent_id = ?", *q.ParentID)
		} else {
			db = db.Where("parent_id IS NULL")
		}
	}

	if q.Search != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.Search)+"%")
	}

	switch q.Type {
	case "":
	case "folder":
		db = db.Where("kind = ?", entity.EntryKindFolder)
	case "image", "video", "audio":
		db = db.Where("kind = ? AND content_type LIKE ?", entity.EntryKindFile, q.Type+"/%")
	case "pdf":
		db = db.Where("kind = ? AND content_type = ?", entity.EntryKindFile, "application/pdf")
	default:
		db = db.Where("kind = ? AND content_type = ?", entity.EntryKindFile, q.Type)
	}

	// Folders sort before files in every mode.
	foldersFirst := "CASE WHEN kind = 'folder' THEN 0 ELSE 1 END"
	switch q.Sort {
	case "date":
		db = db.Order(foldersFirst + ", created_at DESC")
	case "size":
		db = db.Order(foldersFirst + ", size_bytes DESC")
	default:
		db = db.Order(foldersFirst + ", name ASC")
	}

	var entries []entity.Entry
	if err := db.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindChildren returns the direct children of a folder. The deletion walk
// includes soft-deleted children so trashed descendants are purged with
// their ancestor; the export walk excludes them.
func (r *EntryRepository) FindChildren(ownerID, parentID uuid.UUID, includeDeleted bool) ([]entity.Entry, error) {
	db := r.db.Where("owner_id = ? AND parent_id = ?", ownerID, parentID)
	if !includeDeleted {
		db = db.Where("is_deleted = ?", false)
	}
	var entries []entity.Entry
	err := db.Order("CASE WHEN kind = 'folder' THEN 0 ELSE 1 END").
		Order("name ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindLiveFolderByName looks up a non-deleted sibling folder with the given
// name, the pre-check half of the collision rule. The partial unique index
// remains the authoritative check under concurrency.
func (r *EntryRepository) FindLiveFolderByName(ownerID uuid.UUID, parentID *uuid.UUID, name string) (*entity.Entry, error) {
	db := r.db.Where("owner_id = ? AND kind = ? AND is_deleted = ? AND name = ?",
		ownerID, entity.EntryKindFolder, false, name)
	if parentID != nil {
		db = db.Where("parent_id = ?", *parentID)
	} else {
		db = db.Where("parent_id IS NULL")
	}
	var entry entity.Entry
	if err := db.First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateFields applies a partial update and bumps updated_at.
func (r *EntryRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	return r.db.Model(&entity.Entry{}).Where("id = ?", id).Updates(fields).Error
}

// SetDeletedByIDs flips the soft-delete flag for a whole id set in one
// statement, so a cascading soft delete is a single logical mutation.
func (r *EntryRepository) SetDeletedByIDs(ids []uuid.UUID, deleted bool, deletedAt *time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&entity.Entry{}).Where("id IN ?", ids).Updates(map[string]interface{}{
		"is_deleted": deleted,
		"deleted_at": deletedAt,
	}).Error
}

// HardDelete removes a single record unconditionally. Cascading over a
// subtree is the traversal engine's job, not the store's.
func (r *EntryRepository) HardDelete(id uuid.UUID) error {
	return r.db.Delete(&entity.Entry{}, "id = ?", id).Error
}

func (r *EntryRepository) FindByShareToken(token string) (*entity.Entry, error) {
	var entry entity.Entry
	err := r.db.Where("share_token = ? AND is_shared = ? AND is_deleted = ?", token, true, false).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
