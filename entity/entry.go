package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EntryKindFile   = "file"
	EntryKindFolder = "folder"
)

type Entry struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index:idx_owner_parent;index:idx_owner_kind"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index:idx_owner_parent"`
	Kind        string     `json:"kind" gorm:"type:varchar(16);not null;index:idx_owner_kind"`
	Name        string     `json:"name" gorm:"type:varchar(255);not null"`
	SizeBytes   int64      `json:"size_bytes" gorm:"not null;default:0"`
	ContentType *string    `json:"content_type,omitempty" gorm:"type:varchar(255)"`
	VirtualPath string     `json:"virtual_path" gorm:"type:varchar(4096);not null"`
	BlobKey     *string    `json:"-" gorm:"type:varchar(1024)"`
	IsStarred   bool       `json:"is_starred" gorm:"not null;default:false"`
	IsDeleted   bool       `json:"is_deleted" gorm:"not null;default:false"`
	IsShared    bool       `json:"is_shared" gorm:"not null;default:false"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	ShareToken  *string    `json:"-" gorm:"type:varchar(128);uniqueIndex:idx_share_token"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (e *Entry) IsFolder() bool {
	return e.Kind == EntryKindFolder
}

func (e *Entry) IsRoot() bool {
	return e.ParentID == nil
}

// FolderNameUniqueIndexSQL serializes concurrent folder creates at the
// storage layer. Sibling folder names must be unique among live folders;
// parent_id is coalesced so root-level folders collide too. Files are
// intentionally exempt.
const FolderNameUniqueIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_folder_name
ON entries (owner_id, COALESCE(parent_id, '00000000-0000-0000-0000-000000000000'), name)
WHERE kind = 'folder' AND is_deleted = FALSE`
