package sxgraph

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Opener opens dump tables by their conventional file name (Badges.xml,
// Posts.xml, ...). Implementations return an error satisfying
// os.IsNotExist for tables the dump doesn't carry, which the Runner treats
// as skippable.
type Opener interface {
	Open(name string) (io.ReadCloser, error)
}

// DirOpener opens tables from a local directory. A per-table gzip
// (<name>.gz) is accepted and unwrapped transparently when the plain file
// is absent.
type DirOpener struct {
	Dir string
}

// Open implements Opener.
func (d DirOpener) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.Dir, name))
	if err == nil {
		return f, nil
	}
	if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "opening %s", name)
	}
	gf, gerr := os.Open(filepath.Join(d.Dir, name+".gz"))
	if gerr != nil {
		// report the plain file's absence; the .gz was just a fallback
		return nil, err
	}
	gz, gerr := gzip.NewReader(gf)
	if gerr != nil {
		gf.Close()
		return nil, errors.Wrapf(gerr, "gunzipping %s.gz", name)
	}
	return &gzipReadCloser{gz: gz, f: gf}, nil
}

type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gz.Read(p)
}

func (g *gzipReadCloser) Close() error {
	err := g.gz.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}
