package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/entity"
	"github.com/tnqbao/gau-drive-service/utils"
)

const shareCacheTTL = 5 * time.Minute

func shareCacheKey(token string) string {
	return "drive:share:" + token
}

// ToggleShare flips public sharing for an entry. Enabling issues a fresh
// random token (overwriting any previous one); disabling clears it and
// invalidates the old token immediately, cache included. Returns the entry
// and the share URL, nil when sharing was turned off.
func (s *DriveService) ToggleShare(ctx context.Context, ownerID, entryID uuid.UUID) (*entity.Entry, *string, error) {
	entry, err := s.repo.EntryRepo.FindByIDAndOwner(entryID, ownerID)
	if err != nil {
		return nil, nil, lookupErr(err)
	}

	if entry.IsShared {
		if entry.ShareToken != nil {
			s.purgeShareCache(ctx, []string{*entry.ShareToken})
		}
		if err := s.repo.EntryRepo.UpdateFields(entry.ID, map[string]interface{}{
			"is_shared":   false,
			"share_token": nil,
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to disable sharing: %w", err)
		}
		entry.IsShared = false
		entry.ShareToken = nil
		return entry, nil, nil
	}

	token, err := utils.GenerateShareToken()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate share token: %w", err)
	}
	if entry.ShareToken != nil {
		// A re-enable after a crash mid-disable can leave a stale token.
		s.purgeShareCache(ctx, []string{*entry.ShareToken})
	}
	if err := s.repo.EntryRepo.UpdateFields(entry.ID, map[string]interface{}{
		"is_shared":   true,
		"share_token": token,
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to enable sharing: %w", err)
	}
	entry.IsShared = true
	entry.ShareToken = &token

	url := s.shareBase + "/public/shared/" + token
	return entry, &url, nil
}

// SharedEntry is the public resolution result. BlobURL is set for files
// only and is time-limited.
type SharedEntry struct {
	Entry   *entity.Entry `json:"entry"`
	BlobURL *string       `json:"blob_url,omitempty"`
}

// ResolveSharedEntry looks an entry up by its share token. Deliberately no
// ownership check: the token is the capability. Sharing a folder exposes
// that folder's own metadata only, never its descendants.
func (s *DriveService) ResolveSharedEntry(ctx context.Context, token string) (*SharedEntry, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	entry := &entity.Entry{}
	cached := false
	if s.cache != nil {
		if err := s.cache.Get(ctx, shareCacheKey(token), entry); err == nil {
			cached = true
		}
	}

	if !cached {
		found, err := s.repo.EntryRepo.FindByShareToken(token)
		if err != nil {
			return nil, lookupErr(err)
		}
		entry = found
		if s.cache != nil {
			if err := s.cache.Set(ctx, shareCacheKey(token), entry, shareCacheTTL); err != nil {
				s.logger.WarningWithContextf(ctx, "[Share] Failed to cache token resolution: %v", err)
			}
		}
	}

	result := &SharedEntry{Entry: entry}
	if !entry.IsFolder() && entry.BlobKey != nil {
		url, err := s.blob.SignURL(ctx, *entry.BlobKey, entry.Name, s.signExpiry)
		if err != nil {
			return nil, &StorageBackendError{Op: "sign", Key: *entry.BlobKey, Err: err}
		}
		result.BlobURL = &url
	}
	return result, nil
}

func (s *DriveService) purgeShareCache(ctx context.Context, tokens []string) {
	if s.cache == nil || len(tokens) == 0 {
		return
	}
	keys := make([]string, 0, len(tokens))
	for _, t := range tokens {
		keys = append(keys, shareCacheKey(t))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WarningWithContextf(ctx, "[Share] Failed to purge token cache: %v", err)
	}
}
