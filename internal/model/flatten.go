package model

import (
	"encoding/json"

	"go.uber.org/zap"
)

// AnswerEntry is one element of a raw lead answer payload: a field name
// (under "name" or "key") and its value list.
type AnswerEntry struct {
	Name   string `json:"name"`
	Key    string `json:"key"`
	Values []any  `json:"values"`
}

// FlattenAnswers converts a raw answers payload into a field-name keyed map.
// It accepts an already-decoded []AnswerEntry, a JSON string or []byte of
// that shape, or nil. Nil, empty, and unparseable input all yield an empty
// map; per-record parse failures degrade silently so one malformed record
// never aborts a batch.
func FlattenAnswers(raw any) map[string]Value {
	entries := decodeAnswers(raw)
	flat := make(map[string]Value, len(entries))
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = e.Key
		}
		if name == "" {
			continue
		}
		flat[name] = flattenValues(e.Values)
	}
	return flat
}

// flattenValues unwraps single-element lists to a scalar and keeps longer
// lists as sequences.
func flattenValues(values []any) Value {
	if len(values) == 1 {
		return Scalar(stringify(values[0]))
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = stringify(v)
	}
	return Sequence(out)
}

func decodeAnswers(raw any) []AnswerEntry {
	switch t := raw.(type) {
	case nil:
		return nil
	case []AnswerEntry:
		return t
	case json.RawMessage:
		return decodeAnswerBytes([]byte(t))
	case []byte:
		return decodeAnswerBytes(t)
	case string:
		return decodeAnswerBytes([]byte(t))
	case []any:
		// Generic decoded form: round-trip through JSON to the typed shape.
		buf, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return decodeAnswerBytes(buf)
	default:
		zap.L().Debug("flatten: unsupported answers payload type")
		return nil
	}
}

func decodeAnswerBytes(buf []byte) []AnswerEntry {
	if len(buf) == 0 {
		return nil
	}
	var entries []AnswerEntry
	if err := json.Unmarshal(buf, &entries); err != nil {
		zap.L().Debug("flatten: malformed answers payload", zap.Error(err))
		return nil
	}
	return entries
}
