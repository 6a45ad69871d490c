// Package dataset models the tabular input handed to the analyzer: an ordered
// list of records whose cells are numbers or strings.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is an ordered sequence of records. All records are assumed to share
// the key set of the first one.
type Dataset []Record

// Columns returns the canonical column list: the first record's keys.
func (d Dataset) Columns() []string {
	if len(d) == 0 {
		return nil
	}
	return d[0].Keys()
}

// Sample returns at most n leading records.
func (d Dataset) Sample(n int) Dataset {
	if n < 0 {
		n = 0
	}
	if n > len(d) {
		n = len(d)
	}
	return d[:n]
}

// ParseJSON validates raw against the records schema and decodes it,
// preserving the key order of every object.
func ParseJSON(raw []byte) (Dataset, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}

	ds, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return ds, nil
}

// UnmarshalJSON lets a Dataset be embedded directly in request bodies.
func (d *Dataset) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		return nil
	}
	ds, err := ParseJSON(b)
	if err != nil {
		return err
	}
	*d = ds
	return nil
}

func decodeRecords(raw []byte) (Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var ds Dataset
	for dec.More() {
		rec, err := decodeRecord(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(ds), err)
		}
		ds = append(ds, rec)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return ds, nil
}

func decodeRecord(dec *json.Decoder) (Record, error) {
	var rec Record
	if err := expectDelim(dec, '{'); err != nil {
		return rec, err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return rec, err
		}
		key, ok := tok.(string)
		if !ok {
			return rec, fmt.Errorf("unexpected key token %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return rec, err
		}
		v, err := coerce(tok)
		if err != nil {
			return rec, fmt.Errorf("column %q: %w", key, err)
		}
		rec.Set(key, v)
	}

	return rec, expectDelim(dec, '}')
}

// coerce maps a JSON scalar to a Value. Numbers stay numeric; everything else
// is rendered as text.
func coerce(tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case bool:
		if t {
			return String("true"), nil
		}
		return String("false"), nil
	case nil:
		return String("null"), nil
	default:
		return Value{}, fmt.Errorf("unsupported value %v", tok)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return fmt.Errorf("unexpected end of input, want %q", want)
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("unexpected token %v, want %q", tok, want)
	}
	return nil
}

// IndentJSON renders the dataset as 2-space indented JSON.
func (d Dataset) IndentJSON() (string, error) {
	if len(d) == 0 {
		return "[]", nil
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
