package sxgraph

import (
	"strconv"
	"time"
)

// CanonicalTimeLayout is the fixed textual form for dateTime literals:
// RFC3339 UTC with millisecond precision, matching what the dump carries.
const CanonicalTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Object is the object position of a statement: a node reference or a typed
// literal. The zero value is an empty string literal.
type Object struct {
	node   NodeID
	isNode bool
	lit    string
	dtype  string
}

// NodeObject returns an Object referencing another node.
func NodeObject(id NodeID) Object {
	return Object{node: id, isNode: true}
}

// StringLit returns a plain string literal.
func StringLit(s string) Object {
	return Object{lit: s}
}

// IntLit returns an integer literal with an explicit type suffix.
func IntLit(v int64) Object {
	return Object{lit: strconv.FormatInt(v, 10), dtype: "xs:int"}
}

// BoolLit returns a boolean literal with an explicit type suffix.
func BoolLit(v bool) Object {
	return Object{lit: strconv.FormatBool(v), dtype: "xs:bool"}
}

// DateTimeLit returns a timestamp literal in the canonical form.
func DateTimeLit(t time.Time) Object {
	return Object{lit: t.UTC().Format(CanonicalTimeLayout), dtype: "xs:dateTime"}
}

// Triple is one statement of the output graph.
type Triple struct {
	Subject   NodeID
	Predicate string
	Object    Object
}

// appendTo renders the statement as one line of the wire format (without
// the trailing newline): `<0x2a> <post.owner> <0x1> .` with literals quoted
// and escaped, non-string literals carrying their type suffix.
func (t Triple) appendTo(buf []byte) []byte {
	buf = appendNode(buf, t.Subject)
	buf = append(buf, ' ', '<')
	buf = append(buf, t.Predicate...)
	buf = append(buf, '>', ' ')
	if t.Object.isNode {
		buf = appendNode(buf, t.Object.node)
	} else {
		buf = append(buf, '"')
		buf = appendEscaped(buf, t.Object.lit)
		buf = append(buf, '"')
		if t.Object.dtype != "" {
			buf = append(buf, '^', '^', '<')
			buf = append(buf, t.Object.dtype...)
			buf = append(buf, '>')
		}
	}
	buf = append(buf, ' ', '.')
	return buf
}

func (t Triple) String() string {
	return string(t.appendTo(nil))
}

func appendNode(buf []byte, id NodeID) []byte {
	buf = append(buf, '<', '0', 'x')
	buf = strconv.AppendUint(buf, uint64(id), 16)
	return append(buf, '>')
}

// appendEscaped escapes literal text per the N-Triples rules. Control
// characters that survived XML unescaping are passed through as \u escapes
// so every output line stays a complete, parseable statement.
func appendEscaped(buf []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			buf = append(buf, '\\', '\\')
		case '"':
			buf = append(buf, '\\', '"')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			if c < 0x20 {
				buf = append(buf, '\\', 'u', '0', '0')
				const hex = "0123456789ABCDEF"
				buf = append(buf, hex[c>>4], hex[c&0xf])
			} else {
				buf = append(buf, c)
			}
		}
	}
	return buf
}
