package boltdb_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/sxgraph/sxgraph"
	"github.com/sxgraph/sxgraph/boltdb"
	"github.com/sxgraph/sxgraph/test"
)

func newTestInterner(t *testing.T) (*boltdb.Interner, func()) {
	dir, err := ioutil.TempDir("", "sxgraph-boltdb")
	test.ErrNil(t, err, "temp dir")
	bi, err := boltdb.NewInterner(filepath.Join(dir, "uids.db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("creating interner: %v", err)
	}
	return bi, func() {
		bi.Close()
		os.RemoveAll(dir)
	}
}

func TestInterner(t *testing.T) {
	bi, cleanup := newTestInterner(t)
	defer cleanup()

	id, err := bi.Resolve(sxgraph.Post, "10")
	test.ErrNil(t, err, "first resolve")
	test.MustBe(t, id, sxgraph.NodeID(1), "ids start at 1")

	again, err := bi.Resolve(sxgraph.Post, "10")
	test.ErrNil(t, err, "repeat resolve")
	test.MustBe(t, again, id, "idempotent")

	// same local id in another kind gets its own node
	uid, err := bi.Resolve(sxgraph.User, "10")
	test.ErrNil(t, err, "cross-kind resolve")
	test.MustBe(t, uid, sxgraph.NodeID(2), "dense across kinds")

	tid, err := bi.Resolve(sxgraph.Tag, "go")
	test.ErrNil(t, err, "tag resolve")
	test.MustBe(t, tid, sxgraph.NodeID(3))
}

func TestInternerConcurrent(t *testing.T) {
	bi, cleanup := newTestInterner(t)
	defer cleanup()

	wg := &sync.WaitGroup{}
	rets := make([]test.Uint64Slice, 4)
	for i := 0; i < 4; i++ {
		rets[i] = make(test.Uint64Slice, 100)
		wg.Add(1)
		go func(ret test.Uint64Slice) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id, err := bi.Resolve(sxgraph.Comment, strconv.Itoa(j))
				if err != nil {
					panic(err)
				}
				ret[j] = uint64(id)
			}
		}(rets[i])
	}
	wg.Wait()

	for i, ret := range rets {
		if i != 0 {
			test.MustBe(t, ret, rets[i-1], "threads agree")
		}
		sorted := make(test.Uint64Slice, len(ret))
		copy(sorted, ret)
		sort.Sort(sorted)
		for j := range sorted {
			if sorted[j] != uint64(j)+1 {
				t.Fatalf("ids not dense, pos: %v, val: %v", j, sorted[j])
			}
		}
	}
}
