// Package leveldb provides a sxgraph.Interner implementation using leveldb,
// the recommended disk backend for dumps whose id space outgrows RAM.
package leveldb

import (
	"encoding/binary"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/sxgraph/sxgraph"
)

var _ sxgraph.Interner = &Interner{}

// Interner stores the (kind, local key) to uid mapping in leveldb, one
// database per entity kind so table-local ids can't collide. Uids come
// from one shared Nexter, keeping the id space dense across kinds. The
// databases are a spill area scoped to a single run; nothing is read back
// across runs.
type Interner struct {
	nexter *sxgraph.Nexter
	kinds  []*kindMap
}

type kindMap struct {
	lock   valueLocker
	keyMap *leveldb.DB
}

type errorList []error

func (errs errorList) Error() string {
	errstrings := make([]string, len(errs))
	for i, err := range errs {
		errstrings[i] = err.Error()
	}
	return strings.Join(errstrings, "; ")
}

// NewInterner creates the per-kind databases under dirname.
func NewInterner(dirname string) (*Interner, error) {
	if err := os.MkdirAll(dirname, 0700); err != nil {
		return nil, errors.Wrap(err, "making directory")
	}
	li := &Interner{
		nexter: sxgraph.NewNexter(sxgraph.NexterStartFrom(1)),
		kinds:  make([]*kindMap, len(sxgraph.Kinds)),
	}
	for _, kind := range sxgraph.Kinds {
		db, err := leveldb.OpenFile(filepath.Join(dirname, kind.String()+"-uid"), &opt.Options{})
		if err != nil {
			li.Close()
			return nil, errors.Wrapf(err, "opening leveldb for %v", kind)
		}
		li.kinds[kind] = &kindMap{
			lock:   newBucketVLock(),
			keyMap: db,
		}
	}
	return li, nil
}

// Close closes all of the underlying leveldb instances.
func (li *Interner) Close() error {
	errs := make(errorList, 0)
	for kind, km := range li.kinds {
		if km == nil {
			continue
		}
		if err := km.keyMap.Close(); err != nil {
			errs = append(errs, errors.Wrapf(err, "kind: %v", sxgraph.Kind(kind)))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Resolve maps the key to its uid, allocating one on first touch.
func (li *Interner) Resolve(kind sxgraph.Kind, key string) (sxgraph.NodeID, error) {
	km := li.kinds[kind]
	bkey := []byte(key)

	// if most of the mapping is already done, this path wins
	data, err := km.keyMap.Get(bkey, &opt.ReadOptions{})
	if err != nil && err != leveldb.ErrNotFound {
		return 0, errors.Wrap(err, "trying to read key map")
	} else if err == nil {
		return sxgraph.NodeID(binary.BigEndian.Uint64(data)), nil
	}

	// key not found
	km.lock.Lock(bkey)
	defer km.lock.Unlock(bkey)
	// re-read after locking
	data, err = km.keyMap.Get(bkey, &opt.ReadOptions{})
	if err != nil && err != leveldb.ErrNotFound {
		return 0, errors.Wrap(err, "trying to read key map")
	} else if err == nil {
		return sxgraph.NodeID(binary.BigEndian.Uint64(data)), nil
	}

	id := li.nexter.Next()
	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, id)
	if err := km.keyMap.Put(bkey, idBytes, &opt.WriteOptions{}); err != nil {
		return 0, errors.Wrap(err, "putting new uid into key map")
	}
	return sxgraph.NodeID(id), nil
}

type valueLocker interface {
	Lock(val []byte)
	Unlock(val []byte)
}

type bucketVLock struct {
	ms []sync.Mutex
}

func newBucketVLock() bucketVLock {
	return bucketVLock{
		ms: make([]sync.Mutex, 1000),
	}
}

func (b bucketVLock) Lock(val []byte) {
	hsh := fnv.New32a()
	hsh.Write(val) // never returns error for hash
	b.ms[hsh.Sum32()%1000].Lock()
}

func (b bucketVLock) Unlock(val []byte) {
	hsh := fnv.New32a()
	hsh.Write(val) // never returns error for hash
	b.ms[hsh.Sum32()%1000].Unlock()
}
