package lazyjson

import (
	"reflect"
	"sync"
	"time"
)

// DecoderSettings configures a Decoder's behavior.
type DecoderSettings struct {
	KeyStrategy  KeyStrategy
	DateStrategy DateStrategy
	DataStrategy DataStrategy
	NilStrategy  NilStrategy
	HashAlgorithm int // one of AlgXXH3, AlgFNV1a, AlgBlake2b; 0 defaults to AlgXXH3
}

// DefaultDecoderSettings returns the defaults used by Decode when called
// without explicit settings.
func DefaultDecoderSettings() DecoderSettings {
	return DecoderSettings{HashAlgorithm: AlgXXH3}
}

// memberOffsetCacheMinSize is the smallest object member count for which
// the positional cache is consulted; smaller objects are cheaper to
// scan than to hash.
const memberOffsetCacheMinSize = 8

// Decoder walks a Description table against a Go value's reflected
// shape, playing the role a Codable-style decode protocol plays in
// languages with first-class keyed/unkeyed/single-value containers: at
// any position it can hand out a keyed container (object members by
// name), an unkeyed container (array elements by position), or decode a
// single value directly.
type Decoder struct {
	buf      []byte
	table    *Description
	settings DecoderSettings
	path     []string
	offsets  *memberOffsetCache
	at       int
}

// NewDecoder returns a Decoder positioned at the root of table.
func NewDecoder(buf []byte, table *Description, settings DecoderSettings) *Decoder {
	if settings.HashAlgorithm == 0 {
		settings.HashAlgorithm = AlgXXH3
	}
	return &Decoder{buf: buf, table: table, settings: settings, offsets: newMemberOffsetCache()}
}

// KeyedContainer returns a Decoder positioned at the value named key
// within the current position's object, for an Unmarshaler that wants
// member-by-member control instead of the generic struct walk.
// It returns ErrMissingKeyedContainer if the current position is not an
// object, ErrKeyNotFound if key is absent.
func (d *Decoder) KeyedContainer(key string) (*Decoder, error) {
	if d.table.Tag(d.at) != TagObject {
		return nil, ErrMissingKeyedContainer
	}
	valAt := d.table.valueOffset(d.buf, d.at, key, d.settings.KeyStrategy != KeyUseDefaultKeys)
	if valAt < 0 {
		return nil, ErrKeyNotFound
	}
	return &Decoder{buf: d.buf, table: d.table, settings: d.settings, offsets: d.offsets, path: append(append([]string(nil), d.path...), key), at: valAt}, nil
}

// UnkeyedContainer returns a Decoder positioned at element i within the
// current position's array. It returns ErrMissingUnkeyedContainer if the
// current position is not an array, ErrEndOfArray if i is out of range.
func (d *Decoder) UnkeyedContainer(i int) (*Decoder, error) {
	if d.table.Tag(d.at) != TagArray {
		return nil, ErrMissingUnkeyedContainer
	}
	n := d.table.MemberCount(d.at)
	if i < 0 || i >= n {
		return nil, ErrEndOfArray
	}
	at := d.table.FirstChild(d.at)
	for ; i > 0; i-- {
		at = d.table.SkipIndex(at)
	}
	return &Decoder{buf: d.buf, table: d.table, settings: d.settings, offsets: d.offsets, path: d.path, at: at}, nil
}

// Count returns the current position's member/element count. It returns
// ErrMissingUnkeyedContainer if the position is neither an object nor an
// array.
func (d *Decoder) Count() (int, error) {
	tag := d.table.Tag(d.at)
	if tag != TagObject && tag != TagArray {
		return 0, ErrMissingUnkeyedContainer
	}
	return d.table.MemberCount(d.at), nil
}

// Decode decodes the current position's value into v, a non-nil
// pointer — the single-value container path of the keyed/unkeyed/
// single-value trio.
func (d *Decoder) Decode(v any) error {
	return d.decodeInto(d.at, reflect.ValueOf(v))
}

// Decode parses data and decodes it into v, which must be a non-nil
// pointer.
func Decode(data []byte, v any) error {
	return DecodeWithSettings(data, v, DefaultDecoderSettings())
}

// DecodeWithSettings is Decode with explicit DecoderSettings.
func DecodeWithSettings(data []byte, v any, settings DecoderSettings) error {
	cached, ok := globalParseCache.lookup(data, settings.HashAlgorithm)
	var table *Description
	if ok {
		table = cached
	} else {
		table = NewDescription()
		if _, err := Scan(data, table); err != nil {
			return err
		}
		globalParseCache.store(data, settings.HashAlgorithm, table)
	}
	d := NewDecoder(data, table, settings)
	return d.decodeInto(0, reflect.ValueOf(v))
}

// memberOffsetCache remembers, per (struct type, field name) digest,
// the positional member index a key was found at in the last object
// decoded against that struct type. A JSON array of same-shaped
// records keeps its keys in the same order in every element, so the
// remembered index is checked first on the next object before falling
// back to keyOffset's full linear scan. Reaching the remembered member
// still walks the records before it, but only one key is compared
// instead of every member's key in the common homogeneous-array case.
type offsetCacheKey struct {
	structType reflect.Type
	fieldDigest uint64
}

type memberOffsetCache struct {
	mu sync.Mutex
	m  map[offsetCacheKey]int
}

func newMemberOffsetCache() *memberOffsetCache {
	return &memberOffsetCache{m: make(map[offsetCacheKey]int)}
}

func (c *memberOffsetCache) lookup(structType reflect.Type, fieldDigest uint64) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[offsetCacheKey{structType, fieldDigest}]
	return v, ok
}

func (c *memberOffsetCache) store(structType reflect.Type, fieldDigest uint64, memberIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[offsetCacheKey{structType, fieldDigest}] = memberIndex
}

func (d *Decoder) push(field string) { d.path = append(d.path, field) }
func (d *Decoder) pop()              { d.path = d.path[:len(d.path)-1] }

func (d *Decoder) decodingError(expected reflect.Type) error {
	return &DecodingError{Expected: expected, Path: append([]string(nil), d.path...)}
}

// decodeInto dispatches on rv's kind, unwrapping pointers, and routes
// time.Time and []byte fields to their strategy-driven paths and
// Object/Array facade fields to a facade over a standalone copy of the
// value (see valueAt) before falling back to the generic keyed/unkeyed
// walk.
func (d *Decoder) decodeInto(at int, rv reflect.Value) error {
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return d.decodingError(rv.Type())
	}
	elem := rv.Elem()

	if u, ok := rv.Interface().(Unmarshaler); ok {
		return u.UnmarshalLazyJSON(d.subdecoderAt(at))
	}

	if elem.Kind() == reflect.Pointer {
		if d.table.Tag(at) == TagNull {
			elem.Set(reflect.Zero(elem.Type()))
			return nil
		}
		if elem.IsNil() {
			elem.Set(reflect.New(elem.Type().Elem()))
		}
		return d.decodeInto(at, elem)
	}

	switch elem.Type() {
	case reflect.TypeOf(time.Time{}):
		v, err := valueAt(d.buf, d.table, at)
		if err != nil {
			return err
		}
		t, err := parseDate(v, d.settings.DateStrategy)
		if err != nil {
			return err
		}
		elem.Set(reflect.ValueOf(t))
		return nil
	case reflect.TypeOf([]byte(nil)):
		v, err := valueAt(d.buf, d.table, at)
		if err != nil {
			return err
		}
		b, err := decodeData(v, d.settings.DataStrategy)
		if err != nil {
			return err
		}
		elem.SetBytes(b)
		return nil
	case reflect.TypeOf(Object{}), reflect.TypeOf(Array{}):
		v, err := valueAt(d.buf, d.table, at)
		if err != nil {
			return err
		}
		switch {
		case v.Kind == KindObject && elem.Type() == reflect.TypeOf(Object{}):
			elem.Set(reflect.ValueOf(*v.Object))
		case v.Kind == KindArray && elem.Type() == reflect.TypeOf(Array{}):
			elem.Set(reflect.ValueOf(*v.Array))
		default:
			return d.decodingError(elem.Type())
		}
		return nil
	}

	switch elem.Kind() {
	case reflect.Struct:
		return d.decodeStruct(at, elem)
	case reflect.Slice:
		return d.decodeSlice(at, elem)
	case reflect.Map:
		return d.decodeMap(at, elem)
	case reflect.String:
		v, err := valueAt(d.buf, d.table, at)
		if err != nil || v.Kind != KindString {
			return d.decodingError(elem.Type())
		}
		elem.SetString(v.Str)
	case reflect.Bool:
		v, err := valueAt(d.buf, d.table, at)
		if err != nil || v.Kind != KindBool {
			return d.decodingError(elem.Type())
		}
		elem.SetBool(v.Bool)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		iv, err := d.decodeInt(at, elem.Type())
		if err != nil {
			return err
		}
		elem.SetInt(iv)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uv, err := d.decodeUint(at, elem.Type())
		if err != nil {
			return err
		}
		elem.SetUint(uv)
	case reflect.Float32, reflect.Float64:
		v, err := valueAt(d.buf, d.table, at)
		if err != nil || v.Kind != KindNumber {
			return d.decodingError(elem.Type())
		}
		if v.IsInt {
			elem.SetFloat(float64(v.Int))
		} else {
			elem.SetFloat(v.Float)
		}
	case reflect.Interface:
		v, err := valueAt(d.buf, d.table, at)
		if err != nil {
			return err
		}
		elem.Set(reflect.ValueOf(valueToAny(v)))
	default:
		return d.decodingError(elem.Type())
	}
	return nil
}

func (d *Decoder) decodeInt(at int, t reflect.Type) (int64, error) {
	v, err := valueAt(d.buf, d.table, at)
	if err == nil && v.Kind == KindNumber && !v.IsInt && d.table.Tag(at) == TagInteger {
		// an integer literal outside the int64 range
		return 0, &TypeConversionError{From: "integer", To: t.Name()}
	}
	if err != nil || v.Kind != KindNumber || !v.IsInt {
		return 0, d.decodingError(t)
	}
	return narrowInt(v.Int, t.Bits(), t.Name())
}

func (d *Decoder) decodeUint(at int, t reflect.Type) (uint64, error) {
	v, err := valueAt(d.buf, d.table, at)
	if err != nil || v.Kind != KindNumber || !v.IsInt {
		return 0, d.decodingError(t)
	}
	if v.Int < 0 {
		return 0, &TypeConversionError{From: "integer", To: t.Name()}
	}
	return narrowUint(uint64(v.Int), t.Bits(), t.Name())
}

func (d *Decoder) decodeStruct(at int, sv reflect.Value) error {
	if d.table.Tag(at) != TagObject {
		return ErrMissingKeyedContainer
	}
	t := sv.Type()
	memberCount := d.table.MemberCount(at)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _ := fieldJSONName(f)
		if name == "-" {
			continue
		}
		snakeCase := d.settings.KeyStrategy != KeyUseDefaultKeys
		fieldDigest := digestString(name, d.settings.HashAlgorithm)

		valAt := -1
		if memberCount >= memberOffsetCacheMinSize {
			if idx, ok := d.offsets.lookup(t, fieldDigest); ok && idx < memberCount {
				keyAt := d.table.nthMember(at, idx)
				start, end := d.table.DataBounds(keyAt)
				if keyMatches(d.buf[start:end], d.table.Tag(keyAt) == TagStringWithEscaping, name, snakeCase) {
					valAt = d.table.SkipIndex(keyAt)
				}
			}
		}
		if valAt < 0 {
			keyAt := d.table.keyOffset(d.buf, at, name, snakeCase)
			if keyAt >= 0 {
				valAt = d.table.SkipIndex(keyAt)
				if memberCount >= memberOffsetCacheMinSize {
					d.offsets.store(t, fieldDigest, d.table.memberIndexOf(at, keyAt))
				}
			}
		}
		if valAt < 0 {
			if d.settings.NilStrategy == NilThrow && f.Type.Kind() != reflect.Pointer {
				return ErrKeyNotFound
			}
			continue
		}
		d.push(name)
		if err := d.decodeInto(valAt, sv.Field(i).Addr()); err != nil {
			d.pop()
			return err
		}
		d.pop()
	}
	return nil
}

func (d *Decoder) decodeSlice(at int, sv reflect.Value) error {
	if d.table.Tag(at) != TagArray {
		return ErrMissingUnkeyedContainer
	}
	n := d.table.MemberCount(at)
	out := reflect.MakeSlice(sv.Type(), n, n)
	elemAt := d.table.FirstChild(at)
	for i := 0; i < n; i++ {
		if err := d.decodeInto(elemAt, out.Index(i).Addr()); err != nil {
			return err
		}
		elemAt = d.table.SkipIndex(elemAt)
	}
	sv.Set(out)
	return nil
}

func (d *Decoder) decodeMap(at int, mv reflect.Value) error {
	if d.table.Tag(at) != TagObject {
		return ErrMissingKeyedContainer
	}
	t := mv.Type()
	out := reflect.MakeMapWithSize(t, d.table.MemberCount(at))
	n := d.table.MemberCount(at)
	keyAt := d.table.FirstChild(at)
	for i := 0; i < n; i++ {
		valAt := d.table.SkipIndex(keyAt)
		keyStr, err := materializeString(d.buf, d.table, keyAt)
		if err != nil {
			return err
		}
		elem := reflect.New(t.Elem())
		if err := d.decodeInto(valAt, elem); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(keyStr).Convert(t.Key()), elem.Elem())
		keyAt = d.table.SkipIndex(valAt)
	}
	mv.Set(out)
	return nil
}

// subdecoderAt returns a Decoder positioned at at for use by a type
// implementing Unmarshaler directly.
func (d *Decoder) subdecoderAt(at int) *Decoder {
	return &Decoder{buf: d.buf, table: d.table, settings: d.settings, offsets: d.offsets, path: d.path, at: at}
}

// Value returns the raw Value at the decoder's current position, for an
// Unmarshaler implementation that wants to inspect the shape before
// committing to a decode strategy.
func (d *Decoder) Value() (Value, error) { return valueAt(d.buf, d.table, d.at) }

func valueToAny(v Value) any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindString:
		return v.Str
	case KindNumber:
		if v.IsInt {
			return v.Int
		}
		return v.Float
	case KindObject:
		m := make(map[string]any, v.Object.Len())
		for k, mv := range v.Object.All() {
			m[k] = valueToAny(mv)
		}
		return m
	case KindArray:
		s := make([]any, 0, v.Array.Len())
		for _, av := range v.Array.Values() {
			s = append(s, valueToAny(av))
		}
		return s
	default:
		return nil
	}
}

// fieldJSONName resolves a struct field's JSON key from its `json` tag
// (if present) or the field name, matching encoding/json's tag grammar
// (name,opt1,opt2) without pulling in its internal cache.
func fieldJSONName(f reflect.StructField) (name string, omitEmpty bool) {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name, false
	}
	name, rest := splitFirstComma(tag)
	if name == "" {
		name = f.Name
	}
	return name, containsOption(rest, "omitempty")
}

func splitFirstComma(s string) (head, rest string) {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

func containsOption(rest, opt string) bool {
	for rest != "" {
		var head string
		head, rest = splitFirstComma(rest)
		if head == opt {
			return true
		}
	}
	return false
}
