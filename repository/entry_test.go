package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-drive-service/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled :memory: sqlite gives every connection its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.Entry{}, &entity.CleanupTask{}))
	require.NoError(t, db.Exec(entity.FolderNameUniqueIndexSQL).Error)
	return db
}

func newFolder(ownerID uuid.UUID, parentID *uuid.UUID, name string) *entity.Entry {
	path := "/" + name
	return &entity.Entry{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		ParentID:    parentID,
		Kind:        entity.EntryKindFolder,
		Name:        name,
		VirtualPath: path,
	}
}

func newFile(ownerID uuid.UUID, parentID *uuid.UUID, name, contentType string, size int64) *entity.Entry {
	key := "entries/" + ownerID.String() + "/" + uuid.NewString()
	return &entity.Entry{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		ParentID:    parentID,
		Kind:        entity.EntryKindFile,
		Name:        name,
		SizeBytes:   size,
		ContentType: &contentType,
		VirtualPath: "/" + name,
		BlobKey:     &key,
	}
}

func names(entries []entity.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestEntryRepositoryListDefaultViewScoping(t *testing.T) {
	repo := NewEntryRepository(openTestDB(t))
	owner := uuid.New()
	other := uuid.New()

	docs := newFolder(owner, nil, "Docs")
	require.NoError(t, repo.Create(docs))
	require.NoError(t, repo.Create(newFile(owner, &docs.ID, "a.txt", "text/plain", 3)))
	require.NoError(t, repo.Create(newFolder(other, nil, "NotMine")))

	rootEntries, err := repo.List(owner, EntryListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Docs"}, names(rootEntries))

	children, err := repo.List(owner, EntryListQuery{ParentID: &docs.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, names(children))
}

func TestEntryRepositoryListTrashAndStarred(t *testing.T) {
	repo := NewEntryRepository(openTestDB(t))
	owner := uuid.New()

	live := newFolder(owner, nil, "Live")
	starred := newFile(owner, nil, "fav.txt", "text/plain", 1)
	starred.IsStarred = true
	trashed := newFile(owner, nil, "old.txt", "text/plain", 1)
	trashed.IsDeleted = true
	now := time.Now()
	trashed.DeletedAt = &now
	starredTrashed := newFile(owner, nil, "gone.txt", "text/plain", 1)
	starredTrashed.IsStarred = true
	starredTrashed.IsDeleted = true
	starredTrashed.DeletedAt = &now

	for _, e := range []*entity.Entry{live, starred, trashed, starredTrashed} {
		require.NoError(t, repo.Create(e))
	}

	trash, err := repo.List(owner, EntryListQuery{View: ViewTrash})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old.txt", "gone.txt"}, names(trash))

	star, err := repo.List(owner, EntryListQuery{View: ViewStarred})
	require.NoError(t, err)
	assert.Equal(t, []string{"fav.txt"}, names(star))
}

func TestEntryRepositoryListSearchAndTypeFilters(t *testing.T) {
	repo := NewEntryRepository(openTestDB(t))
	owner := uuid.New()

	require.NoError(t, repo.Create(newFolder(owner, nil, "Photos")))
	require.NoError(t, repo.Create(newFile(owner, nil, "beach.jpg", "image/jpeg", 10)))
	require.NoError(t, repo.Create(newFile(owner, nil, "clip.mp4", "video/mp4", 10)))
	require.NoError(t, repo.Create(newFile(owner, nil, "report.pdf", "application/pdf", 10)))

	found, err := repo.List(owner, EntryListQuery{Search: "PHOT"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Photos"}, names(found))

	images, err := repo.List(owner, EntryListQuery{Type: "image"})
	require.NoError(t, err)
	assert.Equal(t, []string{"beach.jpg"}, names(images))

	pdfs, err := repo.List(owner, EntryListQuery{Type: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"report.pdf"}, names(pdfs))

	folders, err := repo.List(owner, EntryListQuery{Type: "folder"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Photos"}, names(folders))
}

func TestEntryRepositoryListFoldersFirstAcrossSorts(t *testing.T) {
	repo := NewEntryRepository(openTestDB(t))
	owner := uuid.New()

	require.NoError(t, repo.Create(newFile(owner, nil, "aaa.txt", "text/plain", 100)))
	require.NoError(t, repo.Create(newFolder(owner, nil, "zzz")))
	big := newFile(owner, nil, "big.bin", "application/octet-stream", 9000)
	require.NoError(t, repo.Create(big))

	byName, err := repo.List(owner, EntryListQuery{Sort: "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"zzz", "aaa.txt", "big.bin"}, names(byName))

	bySize, err := repo.List(owner, EntryListQuery{Sort: "size"})
	require.NoError(t, err)
	assert.Equal(t, []string{"zzz", "big.bin", "aaa.txt"}, names(bySize))

	byDate, err := repo.List(owner, EntryListQuery{Sort: "date"})
	require.NoError(t, err)
	assert.Equal(t, "zzz", names(byDate)[0])
}

func TestEntryRepositoryFolderNameUniqueness(t *testing.T) {
	repo := NewEntryRepository(openTestDB(t))
	owner := uuid.New()

	docs := newFolder(owner, nil, "Docs")
	require.NoError(t, repo.Create(docs))

	// Live sibling folder with the same name is rejected by the index.
	err := repo.Create(newFolder(owner, nil, "Docs"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Files never collide, not even against the folder's name.
	assert.NoError(t, repo.Create(newFile(owner, nil, "Docs", "text/plain", 1)))
	assert.NoError(t, repo.Create(newFile(owner, nil, "Docs", "text/plain", 1)))

	// Same name under a different parent is fine.
	assert.NoError(t, repo.Create(newFolder(owner, &docs.ID, "Docs")))

	// A trashed folder releases its name.
	now := time.Now()
	require.NoError(t, repo.SetDeletedByIDs([]uuid.UUID{docs.ID}, true, &now))
	assert.NoError(t, repo.Create(newFolder(owner, nil, "Docs")))
}

func TestEntryRepositoryFindChildrenDeletedFilter(t *testing.T) {
	repo := NewEntryRepository(openTestDB(t))
	owner := uuid.New()

	root := newFolder(owner, nil, "Root")
	require.NoError(t, repo.Create(root))
	keep := newFile(owner, &root.ID, "keep.txt", "text/plain", 1)
	gone := newFile(owner, &root.ID, "gone.txt", "text/plain", 1)
	gone.IsDeleted = true
	require.NoError(t, repo.Create(keep))
	require.NoError(t, repo.Create(gone))

	all, err := repo.FindChildren(owner, root.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	live, err := repo.FindChildren(owner, root.ID, false)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "keep.txt", live[0].Name)
}

func TestEntryRepositoryFindByShareToken(t *testing.T) {
	repo := NewEntryRepository(openTestDB(t))
	owner := uuid.New()

	token := "f00dfeed"
	shared := newFile(owner, nil, "shared.txt", "text/plain", 1)
	shared.IsShared = true
	shared.ShareToken = &token
	require.NoError(t, repo.Create(shared))

	found, err := repo.FindByShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, shared.ID, found.ID)

	_, err = repo.FindByShareToken("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// A trashed entry is not resolvable even with a live token.
	now := time.Now()
	require.NoError(t, repo.SetDeletedByIDs([]uuid.UUID{shared.ID}, true, &now))
	_, err = repo.FindByShareToken(token)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
