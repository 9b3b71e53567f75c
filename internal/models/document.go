package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ResponseTimestampField is the document-level field derived from record header dates
const ResponseTimestampField = "ResponseTimestamp"

// Record is a single JSON object inside a document
type Record map[string]any

type fieldKind int

const (
	kindOther fieldKind = iota
	kindSingle
	kindMany
)

// FieldValue is the value of one top-level document field.
// It holds exactly one of a record, a list of records, or any other JSON value.
type FieldValue struct {
	kind   fieldKind
	single Record
	many   []Record
	other  any
}

// SingleValue wraps one record
func SingleValue(r Record) FieldValue {
	return FieldValue{kind: kindSingle, single: r}
}

// ManyValue wraps a list of records
func ManyValue(rs []Record) FieldValue {
	if rs == nil {
		rs = []Record{}
	}
	return FieldValue{kind: kindMany, many: rs}
}

// OtherValue wraps a value that is neither a record nor a list of records
func OtherValue(v any) FieldValue {
	return FieldValue{kind: kindOther, other: v}
}

// AsSingle returns the record if the value is a single record
func (v FieldValue) AsSingle() (Record, bool) {
	return v.single, v.kind == kindSingle
}

// AsMany returns the records if the value is a list of records
func (v FieldValue) AsMany() ([]Record, bool) {
	return v.many, v.kind == kindMany
}

// AsOther returns the raw value if the value is neither form of record
func (v FieldValue) AsOther() (any, bool) {
	return v.other, v.kind == kindOther
}

// ClassifyValue builds a FieldValue from a decoded JSON value.
// Lists qualify as records only when every element is an object.
func ClassifyValue(raw any) FieldValue {
	switch typed := raw.(type) {
	case map[string]any:
		return SingleValue(Record(typed))
	case []any:
		records := make([]Record, 0, len(typed))
		for _, item := range typed {
			obj, ok := item.(map[string]any)
			if !ok {
				return OtherValue(raw)
			}
			records = append(records, Record(obj))
		}
		return ManyValue(records)
	default:
		return OtherValue(raw)
	}
}

// MarshalJSON encodes the wrapped value
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindSingle:
		return marshalNoEscape(map[string]any(v.single))
	case kindMany:
		return marshalNoEscape(v.many)
	default:
		return marshalNoEscape(v.other)
	}
}

// Document is a top-level JSON object whose field order follows the input
type Document struct {
	fields *orderedmap.OrderedMap[string, FieldValue]
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{fields: orderedmap.New[string, FieldValue]()}
}

// ParseDocument decodes data into a Document. The input must be a single JSON object.
func ParseDocument(data []byte) (*Document, error) {
	doc := NewDocument()
	if err := doc.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return doc, nil
}

// Len returns the number of fields
func (d *Document) Len() int {
	return d.fields.Len()
}

// Get returns the value stored under key
func (d *Document) Get(key string) (FieldValue, bool) {
	return d.fields.Get(key)
}

// Set stores a value. Existing keys keep their position.
func (d *Document) Set(key string, value FieldValue) {
	d.fields.Set(key, value)
}

// Keys returns field names in insertion order
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.fields.Len())
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Range calls fn for each field in insertion order until fn returns false
func (d *Document) Range(fn func(key string, value FieldValue) bool) {
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// UnmarshalJSON decodes a JSON object, keeping key order and number literals
func (d *Document) UnmarshalJSON(data []byte) error {
	if d.fields == nil {
		d.fields = orderedmap.New[string, FieldValue]()
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", keyTok)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		d.fields.Set(key, ClassifyValue(raw))
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after top-level object")
	}
	return nil
}

// MarshalJSON encodes the document with fields in insertion order
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := marshalNoEscape(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := pair.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", pair.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
