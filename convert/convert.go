// Package convert wires the conversion engine to its collaborators: input
// discovery (local directory or S3), the interner backend, the gzip-framed
// output stream, and run-end diagnostics.
package convert

import (
	"bufio"
	"compress/gzip"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/sxgraph/sxgraph"
	"github.com/sxgraph/sxgraph/aws/s3"
	"github.com/sxgraph/sxgraph/boltdb"
	"github.com/sxgraph/sxgraph/leveldb"
	"github.com/sxgraph/sxgraph/termstat"
)

// Main contains the configuration for one conversion run.
type Main struct {
	Input        string `help:"Directory containing the dump XML tables, or s3://bucket/prefix."`
	Output       string `help:"Output file for the gzip-compressed RDF triple stream."`
	Concurrency  int    `help:"Number of concurrent table decoders."`
	RowBuf       int    `help:"Bounded row queue size between decoders and the writer."`
	Interner     string `help:"Interner backend: map, leveldb, or boltdb."`
	InternerPath string `help:"Directory (leveldb) or file (boltdb) for the disk-backed interner."`
	SchemaFile   string `help:"Schema declaration overriding the built-in StackExchange mapping."`
	Region       string `help:"AWS region for s3 input."`
	Verbose      bool   `help:"Log per-row drops, progress counts, and live stats."`
}

// NewMain gets a new Main with the default configuration.
func NewMain() *Main {
	return &Main{
		Input:        ".",
		Output:       "output.rdf.gz",
		Concurrency:  1,
		RowBuf:       1024,
		Interner:     "map",
		InternerPath: "sxgraph-uids",
		Region:       "us-east-1",
	}
}

// Run performs the conversion. Schema and I/O errors are returned (non-zero
// exit); per-row and per-field drops are reported in the summary and do not
// fail the run.
func (m *Main) Run() error {
	schema, err := m.schema()
	if err != nil {
		return err
	}
	interner, closeInterner, err := m.interner()
	if err != nil {
		return err
	}
	defer closeInterner()
	opener, err := m.opener()
	if err != nil {
		return err
	}

	outf, err := os.Create(m.Output)
	if err != nil {
		return &sxgraph.IoError{Name: m.Output, Err: err}
	}
	bw := bufio.NewWriter(outf)
	gz := gzip.NewWriter(bw)
	sink := sxgraph.NewSink(gz)

	runner := sxgraph.NewRunner(schema, interner)
	runner.Concurrency = m.Concurrency
	runner.RowBufSize = m.RowBuf
	logger := log.New(os.Stderr, "", log.LstdFlags)
	if m.Verbose {
		runner.Log = sxgraph.VerboseLogger{Logger: logger}
		runner.Stats = termstat.NewCollector(os.Stderr)
	} else {
		runner.Log = sxgraph.StdLogger{Logger: logger}
	}

	stats, runErr := runner.Run(opener, sink)

	// Close the compression frame even on failure so the partial artifact
	// is at least inspectable; the run is still reported failed.
	if err := gz.Close(); err != nil && runErr == nil {
		runErr = &sxgraph.IoError{Name: m.Output, Err: err}
	}
	if err := bw.Flush(); err != nil && runErr == nil {
		runErr = &sxgraph.IoError{Name: m.Output, Err: err}
	}
	if err := outf.Close(); err != nil && runErr == nil {
		runErr = &sxgraph.IoError{Name: m.Output, Err: err}
	}
	if runErr != nil {
		return runErr
	}

	log.Printf("wrote %d statements to %s", sink.Count(), m.Output)
	if droppedRows, droppedFields := stats.Dropped(); droppedRows > 0 || droppedFields > 0 {
		log.Printf("dropped %d rows and %d fields:\n%s", droppedRows, droppedFields, stats.Summary())
	}
	return nil
}

func (m *Main) schema() (*sxgraph.Schema, error) {
	if m.SchemaFile == "" {
		return sxgraph.MustParseSchema(sxgraph.DefaultSchema), nil
	}
	f, err := os.Open(m.SchemaFile)
	if err != nil {
		return nil, &sxgraph.IoError{Name: m.SchemaFile, Err: err}
	}
	defer f.Close()
	return sxgraph.ParseSchema(f)
}

func (m *Main) interner() (sxgraph.Interner, func(), error) {
	switch m.Interner {
	case "", "map":
		return sxgraph.NewMapInterner(), func() {}, nil
	case "leveldb":
		li, err := leveldb.NewInterner(m.InternerPath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "getting leveldb interner")
		}
		return li, func() { li.Close() }, nil
	case "boltdb":
		bi, err := boltdb.NewInterner(m.InternerPath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "getting boltdb interner")
		}
		return bi, func() { bi.Close() }, nil
	}
	return nil, nil, errors.Errorf("unknown interner backend %q", m.Interner)
}

func (m *Main) opener() (sxgraph.Opener, error) {
	if strings.HasPrefix(m.Input, "s3://") {
		bucket, prefix, err := s3.ParseURL(m.Input)
		if err != nil {
			return nil, err
		}
		return s3.NewOpener(m.Region, bucket, prefix)
	}
	return sxgraph.DirOpener{Dir: m.Input}, nil
}

// WriteSchema writes the active schema declaration to w, for operators to
// pre-load into the target store.
func (m *Main) WriteSchema(w io.Writer) error {
	text := sxgraph.DefaultSchema
	if m.SchemaFile != "" {
		b, err := ioutil.ReadFile(m.SchemaFile)
		if err != nil {
			return &sxgraph.IoError{Name: m.SchemaFile, Err: err}
		}
		text = string(b)
	}
	_, err := io.WriteString(w, text)
	return err
}
