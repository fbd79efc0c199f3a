package service

import (
	"context"
	"fmt"

	"github.com/tnqbao/gau-drive-service/entity"
)

// subtreeVisitor receives the entries under a folder in depth-first order.
// EnterFolder fires before a folder's children, ExitFolder after them, so a
// consumer can build paths on the way down and remove records on the way up.
// Any nil callback is skipped.
type subtreeVisitor struct {
	EnterFolder func(e *entity.Entry) error
	ExitFolder  func(e *entity.Entry) error
	File        func(e *entity.Entry) error
}

// walkSubtree iterates over everything below root. The root itself is not
// visited. Tree depth is user-controlled, so the walk keeps its own stack
// instead of recursing. Sibling order follows the children query and is not
// part of the contract.
func (s *DriveService) walkSubtree(ctx context.Context, root *entity.Entry, includeDeleted bool, v subtreeVisitor) error {
	type frame struct {
		entry   *entity.Entry
		entered bool
	}

	children, err := s.repo.EntryRepo.FindChildren(root.OwnerID, root.ID, includeDeleted)
	if err != nil {
		return fmt.Errorf("failed to list children of %s: %w", root.ID, err)
	}

	stack := make([]frame, 0, len(children))
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, frame{entry: &children[i]})
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		top := len(stack) - 1
		f := stack[top]

		if !f.entry.IsFolder() {
			stack = stack[:top]
			if v.File != nil {
				if err := v.File(f.entry); err != nil {
					return err
				}
			}
			continue
		}

		if f.entered {
			stack = stack[:top]
			if v.ExitFolder != nil {
				if err := v.ExitFolder(f.entry); err != nil {
					return err
				}
			}
			continue
		}

		stack[top].entered = true
		if v.EnterFolder != nil {
			if err := v.EnterFolder(f.entry); err != nil {
				return err
			}
		}

		kids, err := s.repo.EntryRepo.FindChildren(f.entry.OwnerID, f.entry.ID, includeDeleted)
		if err != nil {
			return fmt.Errorf("failed to list children of %s: %w", f.entry.ID, err)
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{entry: &kids[i]})
		}
	}

	return nil
}
