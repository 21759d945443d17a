package sxgraph_test

import (
	"testing"
	"time"

	"github.com/sxgraph/sxgraph"
	"github.com/sxgraph/sxgraph/test"
)

func TestTripleRendering(t *testing.T) {
	tests := []struct {
		name string
		tr   sxgraph.Triple
		want string
	}{
		{
			"edge",
			sxgraph.Triple{Subject: 42, Predicate: "post.owner", Object: sxgraph.NodeObject(1)},
			`<0x2a> <post.owner> <0x1> .`,
		},
		{
			"string literal",
			sxgraph.Triple{Subject: 1, Predicate: "post.title", Object: sxgraph.StringLit("Hello")},
			`<0x1> <post.title> "Hello" .`,
		},
		{
			"int literal",
			sxgraph.Triple{Subject: 1, Predicate: "post.score", Object: sxgraph.IntLit(5)},
			`<0x1> <post.score> "5"^^<xs:int> .`,
		},
		{
			"bool literal",
			sxgraph.Triple{Subject: 1, Predicate: "badge.tag_based", Object: sxgraph.BoolLit(true)},
			`<0x1> <badge.tag_based> "true"^^<xs:bool> .`,
		},
		{
			"dateTime literal",
			sxgraph.Triple{
				Subject:   1,
				Predicate: "post.creation_date",
				Object:    sxgraph.DateTimeLit(time.Date(2008, 7, 31, 21, 42, 52, 667000000, time.UTC)),
			},
			`<0x1> <post.creation_date> "2008-07-31T21:42:52.667Z"^^<xs:dateTime> .`,
		},
	}
	for _, tc := range tests {
		test.MustBe(t, tc.tr.String(), tc.want, tc.name)
	}
}

func TestTripleEscaping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"line\nbreak", `"line\nbreak"`},
		{"cr\rtab\t", `"cr\rtab\t"`},
		{"ctl\x01", `"ctl\u0001"`},
		{"unicode héllo", `"unicode héllo"`},
	}
	for _, tc := range tests {
		got := sxgraph.Triple{Subject: 1, Predicate: "p", Object: sxgraph.StringLit(tc.in)}.String()
		test.MustBe(t, got, `<0x1> <p> `+tc.want+` .`, tc.in)
	}
}
