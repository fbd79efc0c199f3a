package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-drive-service/entity"
	"github.com/tnqbao/gau-drive-service/repository"
	"gorm.io/gorm"
)

func TestSoftDeleteCascades(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	owner := uuid.New()
	ctx := context.Background()

	docs := mustFolder(t, svc, owner, "Docs", nil)
	sub := mustFolder(t, svc, owner, "Old", &docs.ID)
	mustFile(t, svc, owner, "a.txt", &docs.ID, "a")
	mustFile(t, svc, owner, "b.txt", &sub.ID, "b")
	outside := mustFile(t, svc, owner, "keep.txt", nil, "k")

	require.NoError(t, svc.SoftDelete(ctx, owner, docs.ID))

	trash, err := svc.ListEntries(ctx, owner, repository.EntryListQuery{View: repository.ViewTrash})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Docs", "Old", "a.txt", "b.txt"}, entryNames(trash))

	live, err := svc.ListEntries(ctx, owner, repository.EntryListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, entryNames(live))

	// Every flagged row carries a deletion timestamp.
	for _, e := range trash {
		require.NotNil(t, e.DeletedAt, e.Name)
		assert.True(t, e.IsDeleted)
	}
	assert.False(t, findEntry(t, repo, outside.ID).IsDeleted)
}

func TestSoftDeleteOwnership(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	owner := uuid.New()
	ctx := context.Background()

	file := mustFile(t, svc, owner, "a.txt", nil, "x")

	assert.ErrorIs(t, svc.SoftDelete(ctx, uuid.New(), file.ID), ErrPermissionDenied)
	assert.ErrorIs(t, svc.SoftDelete(ctx, owner, uuid.New()), ErrNotFound)
}

func TestRestoreSingleEntry(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	owner := uuid.New()
	ctx := context.Background()

	docs := mustFolder(t, svc, owner, "Docs", nil)
	inner := mustFile(t, svc, owner, "a.txt", &docs.ID, "a")
	require.NoError(t, svc.SoftDelete(ctx, owner, docs.ID))

	restored, err := svc.Restore(ctx, owner, docs.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.Nil(t, restored.DeletedAt)

	// Descendants are not pulled back with the folder.
	assert.True(t, findEntry(t, repo, inner.ID).IsDeleted)

	live, err := svc.ListEntries(ctx, owner, repository.EntryListQuery{ParentID: &docs.ID})
	require.NoError(t, err)
	assert.Empty(t, live)

	_, err = svc.Restore(ctx, uuid.New(), docs.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestoreReleasedNameConflict(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	owner := uuid.New()
	ctx := context.Background()

	first := mustFolder(t, svc, owner, "Docs", nil)
	require.NoError(t, svc.SoftDelete(ctx, owner, first.ID))

	// Trashing released the name, so a sibling can claim it.
	mustFolder(t, svc, owner, "Docs", nil)

	_, err := svc.Restore(ctx, owner, first.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPermanentDeleteRemovesRecordsAndBlobs(t *testing.T) {
	svc, repo, blob, queue := newTestService(t)
	owner := uuid.New()
	ctx := context.Background()

	docs := mustFolder(t, svc, owner, "Docs", nil)
	sub := mustFolder(t, svc, owner, "Old", &docs.ID)
	a := mustFile(t, svc, owner, "a.txt", &docs.ID, "a")
	b := mustFile(t, svc, owner, "b.txt", &sub.ID, "b")
	survivor := mustFile(t, svc, owner, "keep.txt", nil, "k")

	// A trashed descendant is purged together with its ancestor.
	require.NoError(t, svc.SoftDelete(ctx, owner, b.ID))

	require.NoError(t, svc.PermanentDelete(ctx, owner, docs.ID))

	for _, id := range []uuid.UUID{docs.ID, sub.ID, a.ID, b.ID} {
		_, err := repo.EntryRepo.FindByID(id)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	}
	assert.Equal(t, 1, blob.len())
	assert.NotNil(t, findEntry(t, repo, survivor.ID))
	assert.Empty(t, queue.messages)
}

func TestPermanentDeleteOwnership(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	owner := uuid.New()
	ctx := context.Background()

	file := mustFile(t, svc, owner, "a.txt", nil, "x")

	assert.ErrorIs(t, svc.PermanentDelete(ctx, uuid.New(), file.ID), ErrPermissionDenied)
	assert.ErrorIs(t, svc.PermanentDelete(ctx, owner, uuid.New()), ErrNotFound)
}

func TestPermanentDeleteBlobFailureIsPartial(t *testing.T) {
	svc, repo, blob, queue := newTestService(t)
	owner := uuid.New()
	ctx := context.Background()

	docs := mustFolder(t, svc, owner, "Docs", nil)
	a := mustFile(t, svc, owner, "a.txt", &docs.ID, "a")
	mustFile(t, svc, owner, "b.txt", &docs.ID, "b")

	blob.deleteErr = errors.New("backend down")
	err := svc.PermanentDelete(ctx, owner, docs.ID)

	var partial *PartialFailure
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "permanent delete", partial.Op)
	require.Len(t, partial.Items, 2)
	for _, item := range partial.Items {
		assert.Equal(t, "blob-delete", item.Op)
		assert.NotEmpty(t, item.BlobKey)
	}

	// Metadata still went away; only the blobs linger for the worker.
	for _, id := range []uuid.UUID{docs.ID, a.ID} {
		_, findErr := repo.EntryRepo.FindByID(id)
		assert.ErrorIs(t, findErr, gorm.ErrRecordNotFound)
	}

	tasks, tErr := repo.CleanupTaskRepo.FindPending()
	require.NoError(t, tErr)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, entity.CleanupStatusPending, task.Status)
		assert.Equal(t, owner, task.OwnerID)
	}

	require.Len(t, queue.messages, 2)
	for _, msg := range queue.messages {
		assert.Equal(t, 1, msg.Attempt)
		assert.Equal(t, owner.String(), msg.OwnerID)
	}
}
