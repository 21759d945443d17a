package sxgraph

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

type counter int64

func (c *counter) add(n int64) { atomic.AddInt64((*int64)(c), n) }

// Value returns the current count.
func (c *counter) Value() int64 { return atomic.LoadInt64((*int64)(c)) }

// KindStats holds the per-kind diagnostic counters reported at run end.
type KindStats struct {
	Rows          counter
	DroppedRows   counter
	DroppedFields counter
}

// RunStats aggregates diagnostics for one conversion run. Dropped rows and
// fields never affect exit status but are always surfaced here so operators
// can judge data-quality impact without re-running.
type RunStats struct {
	kinds [numKinds]KindStats
}

// NewRunStats creates an empty RunStats.
func NewRunStats() *RunStats {
	return &RunStats{}
}

func (s *RunStats) kind(k Kind) *KindStats {
	return &s.kinds[k]
}

// Kind returns the counters for one entity kind.
func (s *RunStats) Kind(k Kind) *KindStats {
	return &s.kinds[k]
}

// Dropped returns the total dropped-row and dropped-field counts.
func (s *RunStats) Dropped() (rows, fields int64) {
	for k := range s.kinds {
		rows += s.kinds[k].DroppedRows.Value()
		fields += s.kinds[k].DroppedFields.Value()
	}
	return rows, fields
}

// Summary renders the per-kind counts as one line per kind.
func (s *RunStats) Summary() string {
	var sb strings.Builder
	for _, k := range Kinds {
		ks := &s.kinds[k]
		fmt.Fprintf(&sb, "%s: rows=%d dropped_rows=%d dropped_fields=%d\n",
			k, ks.Rows.Value(), ks.DroppedRows.Value(), ks.DroppedFields.Value())
	}
	return sb.String()
}

// Runner drives a conversion run: each dump table is streamed by a decoder,
// rows flow through one bounded channel into a single Emitter/Sink pair.
// The channel bound is the memory-safety mechanism - decoders block rather
// than buffer when they outpace the output stream.
type Runner struct {
	Schema      *Schema
	Interner    Interner
	Concurrency int // decoder workers; 1 = strictly sequential file order
	RowBufSize  int // bounded row queue between decoders and the emitter
	Stats       Statter
	Log         Logger
}

// NewRunner creates a Runner with the sequential single-worker defaults.
func NewRunner(schema *Schema, interner Interner) *Runner {
	return &Runner{
		Schema:      schema,
		Interner:    interner,
		Concurrency: 1,
		RowBufSize:  1024,
		Stats:       NopStatter{},
		Log:         NopLogger{},
	}
}

// Run converts every table the opener can provide, writing statements to
// the sink. Missing tables are skipped (partial dumps are common);
// unreadable input, malformed XML, and output write failures abort with an
// error, in which case the output must be treated as a truncated partial
// artifact.
func (r *Runner) Run(opener Opener, sink *Sink) (*RunStats, error) {
	stats := NewRunStats()
	emitter := NewEmitter(r.Schema, r.Interner, stats, r.Stats, r.Log)

	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	bufsize := r.RowBufSize
	if bufsize < 1 {
		bufsize = 1024
	}

	var mu sync.Mutex
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	files := make(chan Kind)
	go func() {
		for _, k := range Kinds {
			files <- k
		}
		close(files)
	}()

	rows := make(chan *Row, bufsize)
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for kind := range files {
				if failed() {
					continue
				}
				if err := r.decodeFile(kind, opener, rows, stats); err != nil {
					fail(err)
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(rows)
	}()

	for row := range rows {
		if failed() {
			continue // drain so decoders can finish
		}
		if err := emitter.Emit(row, sink); err != nil {
			fail(err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	return stats, firstErr
}

func (r *Runner) decodeFile(kind Kind, opener Opener, rows chan<- *Row, stats *RunStats) error {
	name := kind.FileName()
	rc, err := opener.Open(name)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			r.Log.Printf("%s: not present, skipping", name)
			return nil
		}
		return &IoError{Name: name, Err: err}
	}
	defer rc.Close()

	r.Log.Printf("%s: started", name)
	dec := NewRowDecoder(kind, r.Schema, rc)
	count := int64(0)
	for {
		row, err := dec.Next()
		if err == io.EOF {
			break
		}
		if rerr, ok := err.(*RowError); ok {
			stats.kind(kind).DroppedRows.add(1)
			r.Stats.Count("dropped-rows", 1, 1)
			r.Log.Printf("dropping row: %v", rerr)
			continue
		}
		if err != nil {
			return err
		}
		rows <- row
		count++
		if count%100000 == 0 {
			r.Log.Debugf("%s: count: %d", name, count)
		}
	}
	r.Log.Printf("%s: finished, %d rows", name, count)
	return nil
}
