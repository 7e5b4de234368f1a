package types

import (
	"encoding/json"
	"maps"
	"slices"
)

// HeaderValue is the session state of one header name: either a concrete
// value or an explicit tombstone. The zero value is Absent.
type HeaderValue struct {
	value   string
	present bool
}

// Present returns a HeaderValue carrying v. An empty v is still present.
func Present(v string) HeaderValue {
	return HeaderValue{value: v, present: true}
}

// Absent returns the tombstone HeaderValue.
func Absent() HeaderValue {
	return HeaderValue{}
}

// IsPresent reports whether h carries a value.
func (h HeaderValue) IsPresent() bool { return h.present }

// Value returns the carried value and whether it is present.
func (h HeaderValue) Value() (string, bool) { return h.value, h.present }

// String implements fmt.Stringer.
func (h HeaderValue) String() string {
	if !h.present {
		return "<absent>"
	}
	return h.value
}

// MarshalJSON encodes a present value as a JSON string and a tombstone as null.
func (h HeaderValue) MarshalJSON() ([]byte, error) {
	if !h.present {
		return []byte("null"), nil
	}
	return json.Marshal(h.value)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (h *HeaderValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*h = Absent()
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*h = Present(v)
	return nil
}

// Snapshot is the inferred session-header state as of one request.
type Snapshot map[string]HeaderValue

// Clone returns a shallow copy of s. A nil snapshot clones to an empty one.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	maps.Copy(out, s)
	return out
}

// Has reports whether name is tracked in s, present or tombstoned.
func (s Snapshot) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the tracked header names in sorted order.
func (s Snapshot) Names() []string {
	return slices.Sorted(maps.Keys(s))
}
