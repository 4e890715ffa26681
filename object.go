package lazyjson

import (
	"encoding/json"
	"iter"
)

// Object is a façade over an object-rooted JSON buffer and its
// description table. Reads go through the table without re-tokenizing
// (a key lookup is a linear scan over the member records, comparing raw
// key bytes); writes patch both the buffer and the table in place and
// keep every invariant RewriteValue and friends document.
//
// An Object (or Array) obtained from a parent container's Value shares no
// memory with its parent: valueAt slices and rebases a standalone copy,
// so mutating a child never requires walking back up to a shared buffer.
type Object struct {
	buf   []byte
	table *Description

	history *historyLog
}

// ParseObject parses buf as a JSON object and returns a façade over it.
// It returns ErrExpectedObject if the document's root value is not an
// object.
func ParseObject(buf []byte) (*Object, error) {
	table := NewDescription()
	if _, err := Scan(buf, table); err != nil {
		return nil, err
	}
	if table.Tag(0) != TagObject {
		return nil, ErrExpectedObject
	}
	return &Object{buf: buf, table: table}, nil
}

// Len returns the number of top-level members.
func (o *Object) Len() int { return o.table.MemberCount(0) }

// Raw returns the object's exact JSON encoding. The returned slice must
// not be mutated by the caller.
func (o *Object) Raw() []byte { return o.buf }

// Has reports whether key is present as a top-level member.
func (o *Object) Has(key string) bool {
	return o.table.valueOffset(o.buf, 0, key, false) >= 0
}

// Get returns the value stored under key. ok is false if key is absent.
func (o *Object) Get(key string) (Value, bool) {
	at := o.table.valueOffset(o.buf, 0, key, false)
	if at < 0 {
		return Value{}, false
	}
	v, err := valueAt(o.buf, o.table, at)
	if err != nil {
		return Value{}, false
	}
	return v, true
}

// Keys returns the top-level member keys in document order.
func (o *Object) Keys() []string {
	n := o.table.MemberCount(0)
	keys := make([]string, 0, n)
	at := o.table.FirstChild(0)
	for i := 0; i < n; i++ {
		keyAt := at
		valAt := o.table.SkipIndex(keyAt)
		s, _ := materializeString(o.buf, o.table, keyAt)
		keys = append(keys, s)
		at = o.table.SkipIndex(valAt)
	}
	return keys
}

// All iterates the object's top-level (key, value) members in document
// order. It stops early if yield returns false.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		n := o.table.MemberCount(0)
		at := o.table.FirstChild(0)
		for i := 0; i < n; i++ {
			keyAt := at
			valAt := o.table.SkipIndex(keyAt)
			key, _ := materializeString(o.buf, o.table, keyAt)
			val, err := valueAt(o.buf, o.table, valAt)
			if err != nil {
				return
			}
			if !yield(key, val) {
				return
			}
			at = o.table.SkipIndex(valAt)
		}
	}
}

// Set writes valueJSON under key, overwriting an existing member in
// place or appending a new one. valueJSON must be well-formed JSON; it
// is validated by re-tokenizing before anything is spliced.
func (o *Object) Set(key string, valueJSON []byte) error {
	o.snapshot()
	keyAt := o.table.keyOffset(o.buf, 0, key, false)
	if keyAt >= 0 {
		valAt := o.table.SkipIndex(keyAt)
		return o.table.RewriteValue(&o.buf, valAt, valueJSON)
	}
	return o.table.InsertObjectMember(&o.buf, 0, quoteJSONString(key), valueJSON)
}

// SetValue is Set, taking a Value instead of a raw JSON literal.
func (o *Object) SetValue(key string, v Value) error {
	encoded, err := encodeValue(v)
	if err != nil {
		return err
	}
	return o.Set(key, encoded)
}

// Remove deletes the member named key. It is a no-op, returning false,
// if key is absent.
func (o *Object) Remove(key string) bool {
	keyAt := o.table.keyOffset(o.buf, 0, key, false)
	if keyAt < 0 {
		return false
	}
	o.snapshot()
	o.table.RemoveObjectMember(&o.buf, 0, keyAt)
	return true
}

// RenameKey changes the key of an existing member to newKey. Returns
// ErrKeyNotFound if key is absent, ErrExists if newKey is already taken
// by a different member.
//
// When newKey's quoted-and-escaped JSON literal is exactly the same
// length as key's, the key bytes are patched in place with no buffer
// resize; otherwise it falls back to remove-then-insert, which preserves
// every other invariant but moves the member to the end of the object.
func (o *Object) RenameKey(key, newKey string) error {
	keyAt := o.table.keyOffset(o.buf, 0, key, false)
	if keyAt < 0 {
		return ErrKeyNotFound
	}
	if other := o.table.keyOffset(o.buf, 0, newKey, false); other >= 0 && other != keyAt {
		return ErrExists
	}
	o.snapshot()

	oldLiteral := quoteJSONString(key)
	newLiteral := quoteJSONString(newKey)
	if len(oldLiteral) == len(newLiteral) {
		start, _ := o.table.JSONBounds(keyAt)
		copy(o.buf[start:start+len(newLiteral)], newLiteral)
		tag := byte(TagString)
		if containsBackslash(newLiteral) {
			tag = TagStringWithEscaping
		}
		o.table.setU8(keyAt, tag)
		return nil
	}

	valAt := o.table.SkipIndex(keyAt)
	start, end := o.table.JSONBounds(valAt)
	valueJSON := append([]byte(nil), o.buf[start:end]...)
	o.table.RemoveObjectMember(&o.buf, 0, keyAt)
	return o.table.InsertObjectMember(&o.buf, 0, newLiteral, valueJSON)
}

// Compact re-tokenizes the object's current JSON buffer from scratch,
// discarding and rebuilding the description table. Repeated in-place
// mutation never fragments the table the way an append-only log file
// would, so Compact exists mainly to drop accumulated snapshot history
// and reclaim that memory; it is cheap relative to an equivalent file
// rewrite.
func (o *Object) Compact() error {
	fresh := NewDescription()
	if _, err := Scan(o.buf, fresh); err != nil {
		return err
	}
	o.table = fresh
	o.history = nil
	return nil
}

// Equal reports whether two Objects encode the same member set,
// independent of formatting or member order duplication beyond what JSON
// object semantics already require.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.Len() != other.Len() {
		return false
	}
	for k, v := range o.All() {
		ov, ok := other.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// MarshalJSON satisfies json.Marshaler so an *Object can be embedded
// directly in a struct decoded or encoded by encoding/json as well as by
// this package's own Encoder.
func (o *Object) MarshalJSON() ([]byte, error) {
	return append([]byte(nil), o.buf...), nil
}

// UnmarshalJSON satisfies json.Unmarshaler.
func (o *Object) UnmarshalJSON(data []byte) error {
	parsed, err := ParseObject(append([]byte(nil), data...))
	if err != nil {
		return err
	}
	*o = *parsed
	return nil
}

var _ json.Marshaler = (*Object)(nil)
var _ json.Unmarshaler = (*Object)(nil)

// quoteJSONString renders s as a quoted JSON string literal, escaping
// the minimal required alphabet.
func quoteJSONString(s string) string {
	return string(appendQuotedJSONString(nil, s))
}

func containsBackslash(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			return true
		}
	}
	return false
}
