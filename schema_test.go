package sxgraph_test

import (
	"strings"
	"testing"

	"github.com/sxgraph/sxgraph"
	"github.com/sxgraph/sxgraph/test"
)

func TestDefaultSchema(t *testing.T) {
	s, err := sxgraph.ParseSchema(strings.NewReader(sxgraph.DefaultSchema))
	test.ErrNil(t, err, "parsing default schema")

	for _, kind := range sxgraph.Kinds {
		if len(s.Attrs(kind)) == 0 {
			t.Fatalf("kind %v has no attributes", kind)
		}
	}

	// declaration order is emission order
	attrs := s.Attrs(sxgraph.Badge)
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	test.MustBe(t, names, []string{"badge.user", "badge.name", "badge.date", "badge.class", "badge.tag_based"}, "badge order")

	a, ok := s.Lookup("post.tags")
	test.MustBe(t, ok, true, "post.tags declared")
	test.MustBe(t, a.Type, sxgraph.TypeUIDList, "post.tags type")

	a, ok = s.Lookup("post.owner")
	test.MustBe(t, ok, true, "post.owner declared")
	test.MustBe(t, a.Type, sxgraph.TypeUID, "post.owner type")

	a, ok = s.Lookup("badge.date")
	test.MustBe(t, ok, true)
	test.MustBe(t, a.Type, sxgraph.TypeDateTime)
}

func TestParseSchemaErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"unknown type token", "type Tag {\n tag.name\n}\ntag.name: varchar ."},
		{"conflicting duplicate", "type Tag {\n tag.name\n}\ntag.name: string .\ntag.name: int ."},
		{"zero attributes", "type Tag {\n}\n"},
		{"unknown kind", "type Vote {\n vote.count\n}\nvote.count: int ."},
		{"undeclared kind reference", "type Tag {\n tag.name\n}\ntag.name: string .\nuser.views: int ."},
		{"missing type declaration", "type Tag {\n tag.name\n tag.count\n}\ntag.name: string ."},
		{"predicate under wrong kind", "type Tag {\n user.views\n}\nuser.views: int ."},
		{"unterminated block", "type Tag {\n tag.name\n"},
	}
	for _, c := range cases {
		_, err := sxgraph.ParseSchema(strings.NewReader(c.text))
		if err == nil {
			t.Fatalf("%s: expected SchemaError", c.name)
		}
		if _, ok := err.(*sxgraph.SchemaError); !ok {
			t.Fatalf("%s: expected SchemaError, got %T: %v", c.name, err, err)
		}
	}
}

func TestParseSchemaIdenticalDuplicateOK(t *testing.T) {
	text := "type Tag {\n tag.name\n}\ntag.name: string .\ntag.name: string ."
	_, err := sxgraph.ParseSchema(strings.NewReader(text))
	test.ErrNil(t, err, "identical duplicate declaration")
}
