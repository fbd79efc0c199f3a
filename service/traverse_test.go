package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-drive-service/entity"
)

func TestWalkSubtreeOrder(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	owner := uuid.New()

	root := mustFolder(t, svc, owner, "root", nil)
	docs := mustFolder(t, svc, owner, "docs", &root.ID)
	mustFile(t, svc, owner, "a.txt", &docs.ID, "a")
	mustFile(t, svc, owner, "top.txt", &root.ID, "t")

	var events []string
	err := svc.walkSubtree(context.Background(), root, false, subtreeVisitor{
		EnterFolder: func(e *entity.Entry) error {
			events = append(events, "enter:"+e.Name)
			return nil
		},
		ExitFolder: func(e *entity.Entry) error {
			events = append(events, "exit:"+e.Name)
			return nil
		},
		File: func(e *entity.Entry) error {
			events = append(events, "file:"+e.Name)
			return nil
		},
	})
	require.NoError(t, err)

	// Folders sort before files, names ascending, so the order is fixed here.
	assert.Equal(t, []string{"enter:docs", "file:a.txt", "exit:docs", "file:top.txt"}, events)
}

func TestWalkSubtreeSkipsRootAndDeleted(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	owner := uuid.New()
	ctx := context.Background()

	root := mustFolder(t, svc, owner, "root", nil)
	kept := mustFile(t, svc, owner, "kept.txt", &root.ID, "k")
	trashed := mustFile(t, svc, owner, "trashed.txt", &root.ID, "t")
	require.NoError(t, svc.SoftDelete(ctx, owner, trashed.ID))

	var live, all []string
	collect := func(into *[]string) subtreeVisitor {
		return subtreeVisitor{File: func(e *entity.Entry) error {
			*into = append(*into, e.Name)
			return nil
		}}
	}

	require.NoError(t, svc.walkSubtree(ctx, root, false, collect(&live)))
	assert.Equal(t, []string{kept.Name}, live)

	require.NoError(t, svc.walkSubtree(ctx, root, true, collect(&all)))
	assert.ElementsMatch(t, []string{"kept.txt", "trashed.txt"}, all)

	// The root never shows up in its own walk.
	fresh := findEntry(t, repo, root.ID)
	assert.Equal(t, "root", fresh.Name)
	assert.NotContains(t, all, "root")
}

func TestWalkSubtreeDeepChain(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	owner := uuid.New()

	root := &entity.Entry{
		ID:          uuid.New(),
		OwnerID:     owner,
		Kind:        entity.EntryKindFolder,
		Name:        "d0",
		VirtualPath: "/d0",
	}
	require.NoError(t, repo.EntryRepo.Create(root))

	parent := root
	const depth = 5000
	for i := 1; i < depth; i++ {
		child := &entity.Entry{
			ID:          uuid.New(),
			OwnerID:     owner,
			ParentID:    &parent.ID,
			Kind:        entity.EntryKindFolder,
			Name:        fmt.Sprintf("d%d", i),
			VirtualPath: parent.VirtualPath + fmt.Sprintf("/d%d", i),
		}
		require.NoError(t, repo.EntryRepo.Create(child))
		parent = child
	}

	var visited int
	err := svc.walkSubtree(context.Background(), root, false, subtreeVisitor{
		EnterFolder: func(e *entity.Entry) error {
			visited++
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, depth-1, visited)
}

func TestWalkSubtreeHonorsCancellation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	owner := uuid.New()

	root := mustFolder(t, svc, owner, "root", nil)
	for i := 0; i < 5; i++ {
		mustFile(t, svc, owner, fmt.Sprintf("f%d.txt", i), &root.ID, "x")
	}

	ctx, cancel := context.WithCancel(context.Background())
	var visited int
	err := svc.walkSubtree(ctx, root, false, subtreeVisitor{
		File: func(e *entity.Entry) error {
			visited++
			cancel()
			return nil
		},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, visited)
}

func TestWalkSubtreeVisitorErrorStopsWalk(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	owner := uuid.New()

	root := mustFolder(t, svc, owner, "root", nil)
	mustFile(t, svc, owner, "a.txt", &root.ID, "x")
	mustFile(t, svc, owner, "b.txt", &root.ID, "x")

	boom := fmt.Errorf("visitor gave up")
	var visited int
	err := svc.walkSubtree(context.Background(), root, false, subtreeVisitor{
		File: func(e *entity.Entry) error {
			visited++
			return boom
		},
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, visited)
}
