package sxgraph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// AttrType is the declared value type of a schema predicate.
type AttrType int

// The supported value types. TypeUIDList is the only multi-valued form.
const (
	TypeString AttrType = iota
	TypeInt
	TypeBool
	TypeDateTime
	TypeUID
	TypeUIDList
)

var typeTokens = map[string]AttrType{
	"string":   TypeString,
	"int":      TypeInt,
	"bool":     TypeBool,
	"dateTime": TypeDateTime,
	"uid":      TypeUID,
	"[uid]":    TypeUIDList,
}

func (t AttrType) String() string {
	for tok, at := range typeTokens {
		if at == t {
			return tok
		}
	}
	return "unknown"
}

// IsRef reports whether values of this type are node references.
func (t AttrType) IsRef() bool { return t == TypeUID || t == TypeUIDList }

// Attr is one declared predicate of an entity kind.
type Attr struct {
	Name string // full predicate, e.g. "post.owner"
	Type AttrType
}

// Schema is the static registry mapping each entity kind to its declared
// predicates. It is built once at startup and read-only afterwards, so
// concurrent lookups from decoding workers need no synchronization.
type Schema struct {
	attrs [numKinds][]Attr
	index map[string]Attr
}

// Attrs returns the kind's predicates in declaration order.
func (s *Schema) Attrs(kind Kind) []Attr {
	return s.attrs[kind]
}

// Lookup returns the declaration for a predicate.
func (s *Schema) Lookup(predicate string) (Attr, bool) {
	a, ok := s.index[predicate]
	return a, ok
}

// ParseSchema reads a schema declaration of the form
//
//	type Post {
//	  post.owner
//	  post.tags
//	}
//	post.owner: uid .
//	post.tags: [uid] .
//
// and returns the registry. It fails with SchemaError on an unknown type
// token, a predicate declared with two conflicting types, a kind with no
// predicates, or a predicate whose kind was never declared.
func ParseSchema(r io.Reader) (*Schema, error) {
	s := &Schema{index: make(map[string]Attr)}
	declared := make(map[Kind][]string) // block order
	types := make(map[string]AttrType)
	typeLine := make(map[string]int)
	seen := make(map[Kind]bool)

	var block Kind
	inBlock := false
	lineno := 0
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		lineno++
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "type "):
			if inBlock {
				return nil, &SchemaError{Line: lineno, Msg: "nested type block"}
			}
			name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "type "), "{"))
			kind, ok := KindForName(strings.ToLower(name))
			if !ok {
				return nil, &SchemaError{Line: lineno, Msg: fmt.Sprintf("unknown entity kind %q", name)}
			}
			if seen[kind] {
				return nil, &SchemaError{Line: lineno, Msg: fmt.Sprintf("kind %q declared twice", name)}
			}
			seen[kind] = true
			block = kind
			inBlock = true
		case line == "}":
			if !inBlock {
				return nil, &SchemaError{Line: lineno, Msg: "unmatched '}'"}
			}
			if len(declared[block]) == 0 {
				return nil, &SchemaError{Line: lineno, Msg: fmt.Sprintf("kind %q has no predicates", block)}
			}
			inBlock = false
		case inBlock:
			pred := line
			if !strings.HasPrefix(pred, block.String()+".") {
				return nil, &SchemaError{Line: lineno, Msg: fmt.Sprintf("predicate %q listed under kind %q", pred, block)}
			}
			declared[block] = append(declared[block], pred)
		default:
			// predicate type declaration: "pred: type ."
			decl := strings.TrimSpace(strings.TrimSuffix(line, "."))
			colon := strings.Index(decl, ":")
			if colon < 0 {
				return nil, &SchemaError{Line: lineno, Msg: fmt.Sprintf("malformed declaration %q", line)}
			}
			pred := strings.TrimSpace(decl[:colon])
			token := strings.TrimSpace(decl[colon+1:])
			at, ok := typeTokens[token]
			if !ok {
				return nil, &SchemaError{Line: lineno, Msg: fmt.Sprintf("unknown type token %q for %q", token, pred)}
			}
			if prev, ok := types[pred]; ok && prev != at {
				return nil, &SchemaError{Line: lineno, Msg: fmt.Sprintf("%q declared as both %v (line %d) and %v", pred, prev, typeLine[pred], at)}
			}
			types[pred] = at
			typeLine[pred] = lineno
		}
	}
	if err := scan.Err(); err != nil {
		return nil, &SchemaError{Msg: err.Error()}
	}
	if inBlock {
		return nil, &SchemaError{Line: lineno, Msg: "unterminated type block"}
	}

	for pred := range types {
		kindName := pred[:strings.Index(pred, ".")]
		kind, ok := KindForName(kindName)
		if !ok || !seen[kind] {
			return nil, &SchemaError{Line: typeLine[pred], Msg: fmt.Sprintf("%q references undeclared kind %q", pred, kindName)}
		}
	}
	for _, kind := range Kinds {
		for _, pred := range declared[kind] {
			at, ok := types[pred]
			if !ok {
				return nil, &SchemaError{Msg: fmt.Sprintf("no type declared for %q", pred)}
			}
			if at.IsRef() {
				if _, ok := RefTarget(pred); !ok {
					return nil, &SchemaError{Line: typeLine[pred], Msg: fmt.Sprintf("%q is a reference but its target kind is not known to the engine", pred)}
				}
			}
			a := Attr{Name: pred, Type: at}
			s.attrs[kind] = append(s.attrs[kind], a)
			s.index[pred] = a
		}
	}
	return s, nil
}

// MustParseSchema parses a schema known to be valid at compile time.
func MustParseSchema(text string) *Schema {
	s, err := ParseSchema(strings.NewReader(text))
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultSchema is the hand-authored mapping for the StackExchange dump
// format. Operators load the same declaration into the target store before
// bulk-loading the converted stream.
const DefaultSchema = `
type Badge {
  badge.user
  badge.name
  badge.date
  badge.class
  badge.tag_based
}
type Comment {
  comment.post
  comment.score
  comment.text
  comment.creation_date
  comment.user
  comment.user_display_name
  comment.content_license
}
type Post {
  post.type
  post.accepted_answer
  post.parent
  post.creation_date
  post.deletion_date
  post.score
  post.view_count
  post.body
  post.owner
  post.owner_display_name
  post.last_editor
  post.last_editor_display_name
  post.last_edit_date
  post.last_activity_date
  post.title
  post.tags
  post.answer_count
  post.comment_count
  post.favorite_count
  post.closed_date
  post.community_owned_date
  post.content_license
}
type PostHistory {
  posthistory.type
  posthistory.post
  posthistory.revision_guid
  posthistory.creation_date
  posthistory.user
  posthistory.user_display_name
  posthistory.comment
  posthistory.text
  posthistory.content_license
}
type PostLink {
  postlink.creation_date
  postlink.post
  postlink.related_post
  postlink.link_type
}
type Tag {
  tag.name
  tag.count
  tag.excerpt_post
  tag.wiki_post
}
type User {
  user.reputation
  user.creation_date
  user.display_name
  user.last_access_date
  user.website_url
  user.location
  user.about_me
  user.views
  user.upvotes
  user.downvotes
  user.profile_image_url
  user.account_id
}

badge.user: uid .
badge.name: string .
badge.date: dateTime .
badge.class: int .
badge.tag_based: bool .

comment.post: uid .
comment.score: int .
comment.text: string .
comment.creation_date: dateTime .
comment.user: uid .
comment.user_display_name: string .
comment.content_license: string .

post.type: int .
post.accepted_answer: uid .
post.parent: uid .
post.creation_date: dateTime .
post.deletion_date: dateTime .
post.score: int .
post.view_count: int .
post.body: string .
post.owner: uid .
post.owner_display_name: string .
post.last_editor: uid .
post.last_editor_display_name: string .
post.last_edit_date: dateTime .
post.last_activity_date: dateTime .
post.title: string .
post.tags: [uid] .
post.answer_count: int .
post.comment_count: int .
post.favorite_count: int .
post.closed_date: dateTime .
post.community_owned_date: dateTime .
post.content_license: string .

posthistory.type: int .
posthistory.post: uid .
posthistory.revision_guid: string .
posthistory.creation_date: dateTime .
posthistory.user: uid .
posthistory.user_display_name: string .
posthistory.comment: string .
posthistory.text: string .
posthistory.content_license: string .

postlink.creation_date: dateTime .
postlink.post: uid .
postlink.related_post: uid .
postlink.link_type: int .

tag.name: string .
tag.count: int .
tag.excerpt_post: uid .
tag.wiki_post: uid .

user.reputation: int .
user.creation_date: dateTime .
user.display_name: string .
user.last_access_date: dateTime .
user.website_url: string .
user.location: string .
user.about_me: string .
user.views: int .
user.upvotes: int .
user.downvotes: int .
user.profile_image_url: string .
user.account_id: int .
`
