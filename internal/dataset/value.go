package dataset

import (
	"encoding/json"
	"strconv"
)

// Value is a single cell of a record. It holds either a number or a string.
type Value struct {
	number bool
	num    float64
	str    string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{number: true, num: f}
}

// String returns a string Value.
func String(s string) Value {
	return Value{str: s}
}

func (v Value) IsNumber() bool {
	return v.number
}

// Float returns the numeric value, or 0 for strings.
func (v Value) Float() float64 {
	return v.num
}

// String renders the value as text. Numbers use the shortest representation
// that round-trips, so 10 renders as "10".
func (v Value) String() string {
	if v.number {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.number {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}
