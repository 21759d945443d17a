// Package boltdb provides a sxgraph.Interner implementation using boltdb.
// BoltDB is great, but its write path is the slower of the two disk
// backends; prefer the leveldb interner for very large dumps.
package boltdb

import (
	"encoding/binary"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/sxgraph/sxgraph"
)

var _ sxgraph.Interner = &Interner{}

var keyBucket = []byte("uidKey")

// Interner stores the (kind, local key) to uid mapping in boltdb, one
// sub-bucket per entity kind. Ids are allocated from the parent bucket's
// sequence so the uid space stays dense across kinds; the sequence starts
// at 1 since uid 0 is reserved. The database file is a spill area for id
// spaces too large for memory, not a durable store - interner state is
// scoped to one conversion run.
type Interner struct {
	Db *bolt.DB
}

// NewInterner opens (or creates) the boltdb file and prepares a sub-bucket
// for every entity kind.
func NewInterner(filename string) (bi *Interner, err error) {
	bi = &Interner{}
	bi.Db, err = bolt.Open(filename, 0600, &bolt.Options{Timeout: 1 * time.Second, InitialMmapSize: 50000000, NoGrowSync: true})
	if err != nil {
		return nil, errors.Wrapf(err, "opening db file '%v'", filename)
	}
	bi.Db.MaxBatchDelay = 400 * time.Microsecond
	err = bi.Db.Update(func(tx *bolt.Tx) error {
		kb, err := tx.CreateBucketIfNotExists(keyBucket)
		if err != nil {
			return errors.Wrap(err, "creating uidKey bucket")
		}
		for _, kind := range sxgraph.Kinds {
			if _, err := kb.CreateBucketIfNotExists([]byte(kind.String())); err != nil {
				return errors.Wrapf(err, "adding %v to uidKey bucket", kind)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "ensuring bucket existence")
	}
	return bi, nil
}

// Close syncs and closes the underlying boltdb.
func (bi *Interner) Close() error {
	err := bi.Db.Sync()
	if err != nil {
		return errors.Wrap(err, "syncing db")
	}
	return bi.Db.Close()
}

// Resolve maps the key to its uid, allocating one on first touch.
func (bi *Interner) Resolve(kind sxgraph.Kind, key string) (id sxgraph.NodeID, err error) {
	bkey := []byte(key)
	kname := []byte(kind.String())

	// fast path: the key is usually already mapped
	var ret []byte
	err = bi.Db.View(func(tx *bolt.Tx) error {
		ret = tx.Bucket(keyBucket).Bucket(kname).Get(bkey)
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "reading key map")
	}
	if len(ret) == 8 {
		return sxgraph.NodeID(binary.BigEndian.Uint64(ret)), nil
	}

	// allocate under a write tx; re-check since Batch may coalesce and
	// retry callers
	err = bi.Db.Batch(func(tx *bolt.Tx) error {
		kb := tx.Bucket(keyBucket)
		fkb := kb.Bucket(kname)
		if got := fkb.Get(bkey); len(got) == 8 {
			id = sxgraph.NodeID(binary.BigEndian.Uint64(got))
			return nil
		}
		seq, err := kb.NextSequence()
		if err != nil {
			return errors.Wrap(err, "next sequence")
		}
		idBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(idBytes, seq)
		if err := fkb.Put(bkey, idBytes); err != nil {
			return errors.Wrap(err, "inserting into uidKey bucket")
		}
		id = sxgraph.NodeID(seq)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
