package sxgraph

import (
	"sync"
)

// NodeID is the dense opaque identifier of one graph node. Ids are unique
// across the whole run, never reused, and start at 1 (0 is reserved in the
// output notation).
type NodeID uint64

// Interner maps a (kind, local key) pair to a stable NodeID. Resolve is
// idempotent and total: an unseen key is allocated a fresh id, so forward
// references and dangling references (a deleted owner, say) resolve the
// same way an entity's own row does. Implementations must be threadsafe and
// allocate ids monotonically.
type Interner interface {
	Resolve(kind Kind, key string) (NodeID, error)
}

// MapInterner is the in-memory Interner. Keys live in one sync.Map per kind
// so table-local small integers can't collide across kinds, and resolved
// lookups don't contend; only the first allocation of a key takes the
// kind's lock.
type MapInterner struct {
	nexter *Nexter
	kinds  [numKinds]kindInterner
}

type kindInterner struct {
	m sync.Map // key string -> NodeID
	l sync.Mutex
}

// NewMapInterner creates a MapInterner with an empty id space.
func NewMapInterner() *MapInterner {
	return &MapInterner{
		nexter: NewNexter(NexterStartFrom(1)),
	}
}

// Resolve returns the NodeID for the key, allocating one on first touch. It
// never fails; the error return exists for the disk-backed implementations.
func (mi *MapInterner) Resolve(kind Kind, key string) (NodeID, error) {
	ki := &mi.kinds[kind]
	if idv, ok := ki.m.Load(key); ok {
		return idv.(NodeID), nil
	}
	ki.l.Lock()
	defer ki.l.Unlock()
	// re-check after locking
	if idv, ok := ki.m.Load(key); ok {
		return idv.(NodeID), nil
	}
	id := NodeID(mi.nexter.Next())
	ki.m.Store(key, id)
	return id, nil
}

// Len returns the number of ids allocated so far.
func (mi *MapInterner) Len() uint64 {
	return mi.nexter.Last()
}
