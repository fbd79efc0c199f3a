package service

import (
	"context"
	"io"
	"time"

	"github.com/tnqbao/gau-drive-service/config"
	"github.com/tnqbao/gau-drive-service/infra"
	"github.com/tnqbao/gau-drive-service/infra/produce"
	"github.com/tnqbao/gau-drive-service/repository"
)

// BlobStore is the narrow adapter over opaque byte objects. Entry contents
// live behind it; the drive never interprets blob internals.
type BlobStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	SignURL(ctx context.Context, key string, filename string, expiry time.Duration) (string, error)
}

// Cache is the share-token resolution cache. Any error on Get is a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CleanupQueue accepts retry jobs for blobs whose removal failed.
type CleanupQueue interface {
	PublishBlobCleanup(ctx context.Context, msg produce.BlobCleanupMessage) error
}

type DriveService struct {
	repo       *repository.Repository
	blob       BlobStore
	cache      Cache
	queue      CleanupQueue
	logger     *infra.LoggerClient
	signExpiry time.Duration
	shareBase  string
}

// NewDriveService wires explicit capabilities; cache and queue may be nil
// (resolution then always hits the store, and cleanup retries are skipped).
func NewDriveService(repo *repository.Repository, blob BlobStore, cache Cache, queue CleanupQueue,
	logger *infra.LoggerClient, signExpiry time.Duration, shareBase string) *DriveService {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	if blob == nil {
		panic("Failed to initialize Blob store")
	}
	return &DriveService{
		repo:       repo,
		blob:       blob,
		cache:      cache,
		queue:      queue,
		logger:     logger,
		signExpiry: signExpiry,
		shareBase:  shareBase,
	}
}

func InitDriveService(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) *DriveService {
	return NewDriveService(
		repo,
		infra.Minio,
		infra.Redis,
		infra.Produce.CleanupService,
		infra.Logger,
		time.Duration(cfg.EnvConfig.Minio.SignExpirySec)*time.Second,
		"https://"+cfg.EnvConfig.DomainName,
	)
}
