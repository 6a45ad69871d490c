package dataset

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Field is a single key/value pair used to build a Record.
type Field struct {
	Key   string
	Value Value
}

// F is shorthand for building a Field.
func F(key string, v Value) Field {
	return Field{Key: key, Value: v}
}

// Record is one row of a dataset. Keys follow JavaScript property order:
// array-index keys ("0", "2", "10") first in ascending numeric order, then
// every other key in the order it was first set.
type Record struct {
	keys   []string
	values map[string]Value
}

func NewRecord(fields ...Field) Record {
	r := Record{}
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Set assigns a value. Re-setting an existing key keeps its original position.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.insertKey(key)
	}
	r.values[key] = v
}

func (r *Record) insertKey(key string) {
	idx, ok := arrayIndex(key)
	if !ok {
		r.keys = append(r.keys, key)
		return
	}
	// Index keys form a sorted prefix of r.keys.
	prefix := sort.Search(len(r.keys), func(i int) bool {
		_, isIndex := arrayIndex(r.keys[i])
		return !isIndex
	})
	pos := sort.Search(prefix, func(i int) bool {
		n, _ := arrayIndex(r.keys[i])
		return n > idx
	})
	r.keys = append(r.keys, "")
	copy(r.keys[pos+1:], r.keys[pos:])
	r.keys[pos] = key
}

// arrayIndex reports whether key is a canonical array index: a decimal
// integer below 2^32-1 with no sign or leading zeros.
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}

func (r Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns a copy of the record's keys in property order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Record) Len() int {
	return len(r.keys)
}

// MarshalJSON writes the record as a JSON object with keys in property order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
