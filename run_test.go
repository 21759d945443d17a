package sxgraph_test

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sxgraph/sxgraph"
	"github.com/sxgraph/sxgraph/test"
)

// mapOpener serves dump tables from memory. Absent names report not-exist
// like a partial dump directory would.
type mapOpener map[string]string

func (m mapOpener) Open(name string) (io.ReadCloser, error) {
	doc, ok := m[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return ioutil.NopCloser(strings.NewReader(doc)), nil
}

func TestRunnerConvertsDump(t *testing.T) {
	opener := mapOpener{
		"Posts.xml": `<posts>
  <row Id="10" OwnerUserId="1" Score="5" />
</posts>`,
		"Users.xml": `<users>
  <row Id="1" Reputation="100" />
</users>`,
	}

	buf := &bytes.Buffer{}
	sink := sxgraph.NewSink(buf)
	runner := sxgraph.NewRunner(testSchema, sxgraph.NewMapInterner())
	stats, err := runner.Run(opener, sink)
	test.ErrNil(t, err, "run")

	// Posts is processed before Users, so the post takes node 1 and its
	// owner reference allocates node 2 before the user's own row arrives.
	test.MustBe(t, strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), []string{
		`<0x1> <post.score> "5"^^<xs:int> .`,
		`<0x1> <post.owner> <0x2> .`,
		`<0x2> <user.reputation> "100"^^<xs:int> .`,
	})
	test.MustBe(t, sink.Count(), int64(3), "statement count")
	test.MustBe(t, stats.Kind(sxgraph.Post).Rows.Value(), int64(1))
	test.MustBe(t, stats.Kind(sxgraph.User).Rows.Value(), int64(1))
	droppedRows, droppedFields := stats.Dropped()
	test.MustBe(t, droppedRows, int64(0))
	test.MustBe(t, droppedFields, int64(0))
}

func TestRunnerSkipsMissingTables(t *testing.T) {
	buf := &bytes.Buffer{}
	runner := sxgraph.NewRunner(testSchema, sxgraph.NewMapInterner())
	stats, err := runner.Run(mapOpener{}, sxgraph.NewSink(buf))
	test.ErrNil(t, err, "empty dump")
	test.MustBe(t, buf.Len(), 0, "no output")
	for _, k := range sxgraph.Kinds {
		test.MustBe(t, stats.Kind(k).Rows.Value(), int64(0))
	}
}

func TestRunnerCountsDroppedRows(t *testing.T) {
	opener := mapOpener{
		"Badges.xml": `<badges>
  <row UserId="3" Name="NoId" />
  <row Id="9" Name="Good" />
</badges>`,
	}
	buf := &bytes.Buffer{}
	runner := sxgraph.NewRunner(testSchema, sxgraph.NewMapInterner())
	stats, err := runner.Run(opener, sxgraph.NewSink(buf))
	test.ErrNil(t, err, "dropped rows are not fatal")
	test.MustBe(t, stats.Kind(sxgraph.Badge).DroppedRows.Value(), int64(1))
	test.MustBe(t, stats.Kind(sxgraph.Badge).Rows.Value(), int64(1))
}

func TestRunnerMalformedTableFatal(t *testing.T) {
	opener := mapOpener{
		"Tags.xml": `<tags><row TagName="go"`,
	}
	runner := sxgraph.NewRunner(testSchema, sxgraph.NewMapInterner())
	_, err := runner.Run(opener, sxgraph.NewSink(&bytes.Buffer{}))
	test.ErrNotNil(t, err, "malformed table")
}

type errWriter struct{}

func (errWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRunnerWriteFailureFatal(t *testing.T) {
	opener := mapOpener{
		"Users.xml": `<users><row Id="1" Reputation="100" /></users>`,
	}
	runner := sxgraph.NewRunner(testSchema, sxgraph.NewMapInterner())
	_, err := runner.Run(opener, sxgraph.NewSink(errWriter{}))
	test.ErrNotNil(t, err, "failing writer")
}

func TestRunnerConcurrent(t *testing.T) {
	opener := mapOpener{
		"Tags.xml": `<tags>
  <row Id="1" TagName="go" Count="100" />
  <row Id="2" TagName="xml" Count="50" />
</tags>`,
		"Users.xml": `<users>
  <row Id="1" Reputation="100" />
  <row Id="2" Reputation="7" />
</users>`,
	}
	buf := &bytes.Buffer{}
	runner := sxgraph.NewRunner(testSchema, sxgraph.NewMapInterner())
	runner.Concurrency = 4
	runner.RowBufSize = 2
	stats, err := runner.Run(opener, sxgraph.NewSink(buf))
	test.ErrNil(t, err, "concurrent run")
	test.MustBe(t, stats.Kind(sxgraph.Tag).Rows.Value(), int64(2))
	test.MustBe(t, stats.Kind(sxgraph.User).Rows.Value(), int64(2))
	test.MustBe(t, strings.Count(buf.String(), "\n"), 6, "every statement is a full line")
}
