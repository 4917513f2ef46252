// Package model holds the lead domain types: flattened answer values,
// parsed lead rows, and the tabular batch representation.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a flattened answer value: either a single scalar or a sequence.
// Single-element source sequences collapse to the scalar form.
type Value struct {
	scalar string
	list   []string
	multi  bool
}

// Scalar wraps a single string value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// Sequence wraps a multi-element value list.
func Sequence(vs []string) Value {
	return Value{list: vs, multi: true}
}

// IsSequence reports whether the value kept its sequence form.
func (v Value) IsSequence() bool {
	return v.multi
}

// Strings returns the value as a slice regardless of form.
func (v Value) Strings() []string {
	if v.multi {
		return v.list
	}
	return []string{v.scalar}
}

// String renders the value for tabular output. Sequences join with "; ".
func (v Value) String() string {
	if v.multi {
		return strings.Join(v.list, "; ")
	}
	return v.scalar
}

// MarshalJSON emits the scalar directly or the sequence as a JSON array.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.multi {
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

// stringify renders a decoded JSON scalar as a string. Numbers drop the
// trailing ".0" float artifact for integral values.
func stringify(raw any) string {
	switch t := raw.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
