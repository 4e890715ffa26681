package lazyjson

import (
	"encoding/json"
	"iter"
)

// Array is the array-rooted counterpart to Object.
type Array struct {
	buf   []byte
	table *Description

	history *historyLog
}

// ParseArray parses buf as a JSON array and returns a façade over it. It
// returns ErrExpectedArray if the document's root value is not an array.
func ParseArray(buf []byte) (*Array, error) {
	table := NewDescription()
	if _, err := Scan(buf, table); err != nil {
		return nil, err
	}
	if table.Tag(0) != TagArray {
		return nil, ErrExpectedArray
	}
	return &Array{buf: buf, table: table}, nil
}

// Len returns the number of elements.
func (a *Array) Len() int { return a.table.MemberCount(0) }

// Raw returns the array's exact JSON encoding. The returned slice must
// not be mutated by the caller.
func (a *Array) Raw() []byte { return a.buf }

// offsetOf returns the table offset of element i, or -1 if out of range.
func (a *Array) offsetOf(i int) int {
	n := a.table.MemberCount(0)
	if i < 0 || i >= n {
		return -1
	}
	at := a.table.FirstChild(0)
	for ; i > 0; i-- {
		at = a.table.SkipIndex(at)
	}
	return at
}

// Get returns the value at index i. ok is false if i is out of range.
func (a *Array) Get(i int) (Value, bool) {
	at := a.offsetOf(i)
	if at < 0 {
		return Value{}, false
	}
	v, err := valueAt(a.buf, a.table, at)
	if err != nil {
		return Value{}, false
	}
	return v, true
}

// All iterates elements in order by index. It stops early if yield
// returns false.
func (a *Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		n := a.table.MemberCount(0)
		at := a.table.FirstChild(0)
		for i := 0; i < n; i++ {
			v, err := valueAt(a.buf, a.table, at)
			if err != nil {
				return
			}
			if !yield(i, v) {
				return
			}
			at = a.table.SkipIndex(at)
		}
	}
}

// Values iterates elements in order, discarding the index.
func (a *Array) Values() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, v := range a.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Set overwrites the element at index i with valueJSON. Returns
// ErrEndOfArray if i is out of range.
func (a *Array) Set(i int, valueJSON []byte) error {
	at := a.offsetOf(i)
	if at < 0 {
		return ErrEndOfArray
	}
	a.snapshot()
	return a.table.RewriteValue(&a.buf, at, valueJSON)
}

// SetValue is Set, taking a Value instead of a raw JSON literal.
func (a *Array) SetValue(i int, v Value) error {
	encoded, err := encodeValue(v)
	if err != nil {
		return err
	}
	return a.Set(i, encoded)
}

// Append adds valueJSON as the array's new last element.
func (a *Array) Append(valueJSON []byte) error {
	a.snapshot()
	return a.table.InsertArrayElement(&a.buf, 0, valueJSON)
}

// AppendValue is Append, taking a Value instead of a raw JSON literal.
func (a *Array) AppendValue(v Value) error {
	encoded, err := encodeValue(v)
	if err != nil {
		return err
	}
	return a.Append(encoded)
}

// Remove deletes the element at index i. Returns ErrEndOfArray if i is
// out of range.
func (a *Array) Remove(i int) error {
	at := a.offsetOf(i)
	if at < 0 {
		return ErrEndOfArray
	}
	a.snapshot()
	a.table.RemoveArrayElement(&a.buf, 0, at)
	return nil
}

// Compact re-tokenizes the array's current JSON buffer from scratch,
// discarding accumulated snapshot history. See Object.Compact.
func (a *Array) Compact() error {
	fresh := NewDescription()
	if _, err := Scan(a.buf, fresh); err != nil {
		return err
	}
	a.table = fresh
	a.history = nil
	return nil
}

// Equal reports whether two Arrays hold the same elements in the same
// order.
func (a *Array) Equal(other *Array) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.Len() != other.Len() {
		return false
	}
	for i, v := range a.All() {
		ov, ok := other.Get(i)
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// MarshalJSON satisfies json.Marshaler.
func (a *Array) MarshalJSON() ([]byte, error) {
	return append([]byte(nil), a.buf...), nil
}

// UnmarshalJSON satisfies json.Unmarshaler.
func (a *Array) UnmarshalJSON(data []byte) error {
	parsed, err := ParseArray(append([]byte(nil), data...))
	if err != nil {
		return err
	}
	*a = *parsed
	return nil
}

var _ json.Marshaler = (*Array)(nil)
var _ json.Unmarshaler = (*Array)(nil)
