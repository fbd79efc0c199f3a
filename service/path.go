package service

import "github.com/tnqbao/gau-drive-service/entity"

// resolveVirtualPath derives an entry's display path at creation time from
// its parent chain. Paths are never recomputed afterwards: there is no
// move/rename in this service, so they cannot go stale. A future move
// feature must rewrite the path of the moved entry and, for folders, the
// whole subtree.
func resolveVirtualPath(parent *entity.Entry, name string) string {
	if parent == nil {
		return "/" + name
	}
	return parent.VirtualPath + "/" + name
}
