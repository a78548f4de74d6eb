// Package cmap provides a generic sharded concurrent map.
//
// Keys are spread over a power-of-two number of shards, each guarded by its
// own RWMutex, so unrelated keys never contend. Single-key operations
// (Get, SetIfAbsent, Pop, Modify) are atomic. Range and Values lock one
// shard at a time and therefore see no single consistent snapshot.
//
//	m := cmap.New[string, *Deployment]()
//	if !m.SetIfAbsent(d.ID, d) {
//		return errDuplicate
//	}
//	d, ok := m.Get(id)
package cmap
