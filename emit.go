package sxgraph

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// dump timestamps carry no zone and millisecond precision; some older dumps
// omit the fraction.
var timeLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Emitter converts decoded rows into statements. One Emitter serves the
// whole run; it is driven by a single goroutine (see Runner) so statement
// order within a row follows schema declaration order.
type Emitter struct {
	schema   *Schema
	interner Interner
	stats    *RunStats
	statter  Statter
	log      Logger
}

// NewEmitter creates an Emitter resolving references through the given
// interner.
func NewEmitter(schema *Schema, interner Interner, stats *RunStats, statter Statter, logger Logger) *Emitter {
	if statter == nil {
		statter = NopStatter{}
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Emitter{schema: schema, interner: interner, stats: stats, statter: statter, log: logger}
}

// Emit produces the row's statements in schema order and writes them to the
// sink. Per-field coercion failures are counted and logged, never fatal;
// sink and interner errors are returned and abort the run.
func (e *Emitter) Emit(row *Row, sink *Sink) error {
	subject, err := e.interner.Resolve(row.Kind, row.ID)
	if err != nil {
		return errors.Wrapf(err, "interning %v %q", row.Kind, row.ID)
	}
	for _, attr := range e.schema.Attrs(row.Kind) {
		raw, ok := row.Values[attr.Name]
		if !ok {
			// Absent optional attribute: no statement, no default.
			continue
		}
		var obj Object
		switch attr.Type {
		case TypeUID:
			target, _ := RefTarget(attr.Name)
			if target != Tag {
				if _, perr := strconv.ParseInt(raw, 10, 64); perr != nil {
					e.dropField(&FieldError{Kind: row.Kind, Predicate: attr.Name, Value: raw, Err: perr})
					continue
				}
			}
			ref, rerr := e.interner.Resolve(target, raw)
			if rerr != nil {
				return errors.Wrapf(rerr, "interning %v %q", target, raw)
			}
			obj = NodeObject(ref)
		case TypeUIDList:
			if err := e.emitRefList(subject, attr, raw, sink); err != nil {
				return err
			}
			continue
		default:
			var ferr *FieldError
			obj, ferr = coerceLiteral(row.Kind, attr, raw)
			if ferr != nil {
				e.dropField(ferr)
				continue
			}
		}
		if err := sink.Write(Triple{Subject: subject, Predicate: attr.Name, Object: obj}); err != nil {
			return err
		}
	}
	e.stats.kind(row.Kind).Rows.add(1)
	e.statter.Count("rows", 1, 1)
	return nil
}

// emitRefList fans a multi-valued reference field out into one edge per
// element. The dump encodes tag lists as "<go><xml>"; empty elements are
// skipped, and cardinality is whatever the row carries.
func (e *Emitter) emitRefList(subject NodeID, attr Attr, raw string, sink *Sink) error {
	target, _ := RefTarget(attr.Name)
	raw = strings.TrimPrefix(raw, "<")
	raw = strings.TrimSuffix(raw, ">")
	for _, elem := range strings.Split(raw, "><") {
		if elem == "" {
			continue
		}
		ref, err := e.interner.Resolve(target, elem)
		if err != nil {
			return errors.Wrapf(err, "interning %v %q", target, elem)
		}
		if err := sink.Write(Triple{Subject: subject, Predicate: attr.Name, Object: NodeObject(ref)}); err != nil {
			return err
		}
	}
	return nil
}

// coerceLiteral parses a raw value per the attribute's declared literal
// type. A FieldError means only this value is dropped.
func coerceLiteral(kind Kind, attr Attr, raw string) (Object, *FieldError) {
	switch attr.Type {
	case TypeString:
		return StringLit(raw), nil
	case TypeInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Object{}, &FieldError{Kind: kind, Predicate: attr.Name, Value: raw, Err: err}
		}
		return IntLit(v), nil
	case TypeBool:
		v, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return Object{}, &FieldError{Kind: kind, Predicate: attr.Name, Value: raw, Err: err}
		}
		return BoolLit(v), nil
	case TypeDateTime:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return DateTimeLit(t), nil
			}
		}
		return Object{}, &FieldError{Kind: kind, Predicate: attr.Name, Value: raw, Err: errors.New("unrecognized timestamp")}
	}
	return Object{}, &FieldError{Kind: kind, Predicate: attr.Name, Value: raw, Err: errors.Errorf("unhandled type %v", attr.Type)}
}

func (e *Emitter) dropField(ferr *FieldError) {
	e.stats.kind(ferr.Kind).DroppedFields.add(1)
	e.statter.Count("dropped-fields", 1, 1)
	e.log.Printf("dropping field: %v", ferr)
}
