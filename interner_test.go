package sxgraph

import (
	"reflect"
	"sort"
	"strconv"
	"sync"
	"testing"
)

func mustResolve(t *testing.T, in Interner, kind Kind, key string) NodeID {
	id, err := in.Resolve(kind, key)
	if err != nil {
		t.Fatalf("resolving %v %q: %v", kind, key, err)
	}
	return id
}

func TestMapInterner(t *testing.T) {
	mi := NewMapInterner()
	id := mustResolve(t, mi, Badge, "1")
	if id != 1 {
		t.Fatalf("first id should be 1, got %d", id)
	}
	if again := mustResolve(t, mi, Badge, "1"); again != id {
		t.Fatalf("repeat resolve changed id: %d != %d", again, id)
	}

	// same local id in a different kind gets its own node
	uid := mustResolve(t, mi, User, "1")
	if uid == id {
		t.Fatalf("cross-kind collision on local id 1")
	}

	tid := mustResolve(t, mi, Tag, "go")
	if tid == id || tid == uid {
		t.Fatalf("tag id collided: %d", tid)
	}
	if mi.Len() != 3 {
		t.Fatalf("expected 3 allocations, got %d", mi.Len())
	}
}

func TestMapInternerOrderIndependence(t *testing.T) {
	// a forward reference and the entity's own row must agree no matter
	// which is seen first
	a := NewMapInterner()
	ref := mustResolve(t, a, User, "42")  // referenced from a post first
	own := mustResolve(t, a, User, "42")  // then the user's own row
	if ref != own {
		t.Fatalf("forward reference resolved differently: %d != %d", ref, own)
	}

	b := NewMapInterner()
	mustResolve(t, b, Post, "10")
	if got := mustResolve(t, b, User, "42"); got != mustResolve(t, b, User, "42") {
		t.Fatalf("interleaved resolve not stable: %d", got)
	}
}

func TestConcMapInterner(t *testing.T) {
	mi := NewMapInterner()

	wg := &sync.WaitGroup{}
	rets := make([][]NodeID, 8)
	for i := 0; i < 8; i++ {
		rets[i] = make([]NodeID, 1000)
		wg.Add(1)
		go func(ret []NodeID) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				ret[j] = NodeID(0)
				id, err := mi.Resolve(Post, strconv.Itoa(j))
				if err != nil {
					panic(err)
				}
				ret[j] = id
			}
		}(rets[i])
	}

	wg.Wait()
	for i, ret := range rets {
		if i != 0 {
			if !reflect.DeepEqual(ret, rets[i-1]) {
				t.Fatalf("returned ids different in different threads: %v, %v", ret, rets[i-1])
			}
		}
		sorted := make([]uint64, len(ret))
		for j, id := range ret {
			sorted[j] = uint64(id)
		}
		sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })
		for j := 0; j < 1000; j++ {
			if sorted[j] != uint64(j)+1 {
				t.Fatalf("returned ids are not dense, pos: %v, val: %v", j, sorted[j])
			}
		}
	}
}
