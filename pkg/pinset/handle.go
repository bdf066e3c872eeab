// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package pinset

import "sync/atomic"

// Handle publishes an immutable Store snapshot to concurrent readers.
// Reload replaces the snapshot atomically; evaluations already holding the
// previous snapshot continue against it and never observe a partial store.
type Handle struct {
	current atomic.Pointer[Store]
}

// NewHandle creates a Handle publishing the given initial store.
func NewHandle(store *Store) *Handle {
	h := &Handle{}
	h.current.Store(store)
	return h
}

// Snapshot returns the current store. The returned store remains valid and
// unchanged even if Swap publishes a replacement afterwards.
func (h *Handle) Snapshot() *Store {
	return h.current.Load()
}

// Swap atomically publishes a new store snapshot.
func (h *Handle) Swap(store *Store) {
	h.current.Store(store)
}
