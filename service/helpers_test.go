package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-drive-service/entity"
	"github.com/tnqbao/gau-drive-service/infra"
	"github.com/tnqbao/gau-drive-service/infra/produce"
	"github.com/tnqbao/gau-drive-service/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.Entry{}, &entity.CleanupTask{}))
	require.NoError(t, db.Exec(entity.FolderNameUniqueIndexSQL).Error)
	return db
}

// fakeBlobStore keeps objects in memory and can be told to fail per key or
// wholesale, which is how the best-effort paths get exercised.
type fakeBlobStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	deleteErr error
	failGet   map[string]bool
	getCalls  int
	onGet     func(key string)
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects: make(map[string][]byte),
		failGet: make(map[string]bool),
	}
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.onGet != nil {
		f.onGet(key)
	}
	if f.failGet[key] {
		return nil, fmt.Errorf("fetch of %s failed", key)
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobStore) SignURL(ctx context.Context, key string, filename string, expiry time.Duration) (string, error) {
	return "https://blobs.test/" + key + "?sig=stub", nil
}

func (f *fakeBlobStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// recordingQueue captures published cleanup messages.
type recordingQueue struct {
	mu       sync.Mutex
	messages []produce.BlobCleanupMessage
}

func (q *recordingQueue) PublishBlobCleanup(ctx context.Context, msg produce.BlobCleanupMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, msg)
	return nil
}

func newTestService(t *testing.T) (*DriveService, *repository.Repository, *fakeBlobStore, *recordingQueue) {
	t.Helper()
	repo := repository.NewRepository(newTestDB(t))
	blob := newFakeBlobStore()
	queue := &recordingQueue{}
	log := infra.NewLoggerClient(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := NewDriveService(repo, blob, nil, queue, log, 15*time.Minute, "https://drive.test")
	return svc, repo, blob, queue
}

func mustFolder(t *testing.T, svc *DriveService, owner uuid.UUID, name string, parent *uuid.UUID) *entity.Entry {
	t.Helper()
	folder, err := svc.CreateFolder(context.Background(), owner, name, parent)
	require.NoError(t, err)
	return folder
}

func mustFile(t *testing.T, svc *DriveService, owner uuid.UUID, name string, parent *uuid.UUID, content string) *entity.Entry {
	t.Helper()
	file, err := svc.UploadFile(context.Background(), owner, name, parent,
		bytes.NewReader([]byte(content)), int64(len(content)), "text/plain")
	require.NoError(t, err)
	return file
}

func entryNames(entries []entity.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}
