package service

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/entity"
)

// ExportFolderArchive streams the folder's live subtree as a single zip to
// w, one traversal and one pass, not restartable. Soft-deleted entries are
// excluded; every live subfolder gets a directory header even when empty; a
// file whose blob fetch fails is skipped so one bad object cannot abort the
// archive. The central directory is written only when the walk finishes, so
// an interrupted stream reads as a truncated transfer. Cancelling ctx stops
// further blob fetches.
func (s *DriveService) ExportFolderArchive(ctx context.Context, ownerID, entryID uuid.UUID, w io.Writer) error {
	root, err := s.repo.EntryRepo.FindByIDAndOwner(entryID, ownerID)
	if err != nil {
		return lookupErr(err)
	}
	if !root.IsFolder() {
		return fmt.Errorf("%w: entry is not a folder", ErrValidation)
	}
	if root.IsDeleted {
		return ErrNotFound
	}

	zw := zip.NewWriter(w)
	var dirs []string // accumulated relative path inside the archive

	err = s.walkSubtree(ctx, root, false, subtreeVisitor{
		EnterFolder: func(e *entity.Entry) error {
			dirs = append(dirs, e.Name)
			hdr := &zip.FileHeader{
				Name:     strings.Join(dirs, "/") + "/",
				Modified: e.UpdatedAt,
			}
			if _, err := zw.CreateHeader(hdr); err != nil {
				return fmt.Errorf("failed to write directory header: %w", err)
			}
			return nil
		},
		ExitFolder: func(e *entity.Entry) error {
			dirs = dirs[:len(dirs)-1]
			return nil
		},
		File: func(e *entity.Entry) error {
			if e.BlobKey == nil {
				return nil
			}
			rc, err := s.blob.Get(ctx, *e.BlobKey)
			if err != nil {
				s.logger.WarningWithContextf(ctx, "[Archive] Skipping %s, blob fetch failed: %v", e.VirtualPath, err)
				return nil
			}
			defer rc.Close()

			rel := e.Name
			if len(dirs) > 0 {
				rel = strings.Join(dirs, "/") + "/" + e.Name
			}
			hdr := &zip.FileHeader{
				Name:     rel,
				Method:   zip.Deflate,
				Modified: e.UpdatedAt,
			}
			fw, err := zw.CreateHeader(hdr)
			if err != nil {
				return fmt.Errorf("failed to create archive entry: %w", err)
			}
			if _, err := io.Copy(fw, rc); err != nil {
				// Bytes may already be on the wire; nothing structured can
				// be surfaced past this point.
				return fmt.Errorf("failed to copy %s into archive: %w", e.VirtualPath, err)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
