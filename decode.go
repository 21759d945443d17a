package sxgraph

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Row is one decoded dump row: the raw textual values keyed by predicate,
// exactly as present in the source markup, plus the row's identity key. No
// type coercion has happened yet.
type Row struct {
	Kind   Kind
	ID     string
	Values map[string]string
}

// RowDecoder stream-parses one dump table into a lazy, finite,
// non-restartable sequence of rows. It holds one row in memory at a time;
// input size is unbounded.
type RowDecoder struct {
	kind    Kind
	schema  *Schema
	dec     *xml.Decoder
	fields  map[string]string
	idField string
}

// NewRowDecoder creates a decoder for the given kind reading the XML
// document from r.
func NewRowDecoder(kind Kind, schema *Schema, r io.Reader) *RowDecoder {
	return &RowDecoder{
		kind:    kind,
		schema:  schema,
		dec:     xml.NewDecoder(r),
		fields:  fieldMaps[kind],
		idField: idFields[kind],
	}
}

// Next returns the next row in source order, io.EOF at the end of the
// document, a *RowError for a row whose identity cannot be established
// (callers should count it and keep going), or a fatal error if the
// document itself is not well-formed.
func (d *RowDecoder) Next() (*Row, error) {
	for {
		tok, err := d.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, &IoError{Name: d.kind.FileName(), Err: errors.Wrap(err, "reading xml")}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "row" {
			continue
		}
		return d.decodeRow(start)
	}
}

func (d *RowDecoder) decodeRow(start xml.StartElement) (*Row, error) {
	row := &Row{Kind: d.kind, Values: make(map[string]string, len(start.Attr))}
	for _, attr := range start.Attr {
		if attr.Name.Local == d.idField {
			row.ID = attr.Value
		}
		pred, ok := d.fields[attr.Name.Local]
		if !ok {
			// Not part of the dump mapping - skip so format additions
			// don't break conversion.
			continue
		}
		if _, ok := d.schema.Lookup(pred); !ok {
			continue
		}
		if attr.Value == "" {
			// Present-but-empty is treated the same as absent.
			continue
		}
		row.Values[pred] = attr.Value
	}
	if row.ID == "" {
		return nil, &RowError{Kind: d.kind, Reason: d.idField + " missing"}
	}
	if d.idField != "TagName" {
		if _, err := strconv.ParseInt(row.ID, 10, 64); err != nil {
			return nil, &RowError{Kind: d.kind, Reason: d.idField + " not numeric: " + row.ID}
		}
	}
	return row, nil
}
