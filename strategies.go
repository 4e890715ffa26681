package lazyjson

import (
	"encoding/base64"
	"time"
)

// KeyStrategy controls how a Go struct field's key name is mapped to a
// JSON object key. The strategy applies to that name whether it comes
// from a `json` tag or from the field name itself.
type KeyStrategy int

const (
	// KeyUseDefaultKeys uses the field name unchanged.
	KeyUseDefaultKeys KeyStrategy = iota
	// KeyConvertToSnakeCase lower-cases and underscores word boundaries:
	// UserName -> user_name.
	KeyConvertToSnakeCase
	// KeyConvertFromSnakeCase does the reverse during decode: a
	// snake_case JSON key is matched against a camelCase field name.
	KeyConvertFromSnakeCase
)

// DateStrategy controls how time.Time fields are encoded and decoded.
type DateStrategy int

const (
	// DateISO8601 encodes as an RFC 3339 string (time.RFC3339Nano).
	DateISO8601 DateStrategy = iota
	// DateSecondsSince1970 encodes as a JSON number of seconds.
	DateSecondsSince1970
	// DateMillisecondsSince1970 encodes as a JSON number of milliseconds.
	DateMillisecondsSince1970
)

// DataStrategy controls how []byte fields are encoded and decoded.
type DataStrategy int

const (
	// DataBase64 encodes as a standard base64 string (the only strategy
	// currently supported; kept as an enum for parity with DateStrategy
	// and to leave room for a future raw/hex variant).
	DataBase64 DataStrategy = iota
)

// NilStrategy controls what happens when a key is absent from the JSON
// object during a keyed decode of a non-pointer, non-optional field.
type NilStrategy int

const (
	// NilThrow returns ErrKeyNotFound (the default, matching strict
	// memberwise decoding).
	NilThrow NilStrategy = iota
	// NilUseDefaultValue leaves the field at its Go zero value instead
	// of failing.
	NilUseDefaultValue
)

// encodeKey applies a KeyStrategy to a Go field name, producing the JSON
// object key to write.
func encodeKey(name string, strategy KeyStrategy) string {
	switch strategy {
	case KeyConvertToSnakeCase:
		return snakeCaseOf(name)
	default:
		return name
	}
}

// keyMatchesField reports whether a raw (already unescaped) JSON key
// matches a Go field name under the given strategy.
func keyMatchesField(jsonKey, fieldName string, strategy KeyStrategy) bool {
	switch strategy {
	case KeyConvertToSnakeCase, KeyConvertFromSnakeCase:
		return snakeEqualsCamel([]byte(jsonKey), fieldName)
	default:
		return jsonKey == fieldName
	}
}

// formatDate renders t per strategy, for the encoder's date-strategy path.
func formatDate(t time.Time, strategy DateStrategy) Value {
	switch strategy {
	case DateSecondsSince1970:
		sec := float64(t.UnixNano()) / 1e9
		return Value{Kind: KindNumber, Float: sec}
	case DateMillisecondsSince1970:
		return Value{Kind: KindNumber, Int: t.UnixMilli(), IsInt: true}
	default:
		return Value{Kind: KindString, Str: t.Format(time.RFC3339Nano)}
	}
}

// parseDate is formatDate's inverse, used by the decoder's date-strategy
// path. It returns *InvalidDateError wrapping the literal on failure.
func parseDate(v Value, strategy DateStrategy) (time.Time, error) {
	switch strategy {
	case DateSecondsSince1970:
		if v.Kind != KindNumber {
			return time.Time{}, &InvalidDateError{Value: "<non-number>"}
		}
		sec := v.Float
		if v.IsInt {
			sec = float64(v.Int)
		}
		whole := int64(sec)
		frac := sec - float64(whole)
		return time.Unix(whole, int64(frac*1e9)), nil
	case DateMillisecondsSince1970:
		if v.Kind != KindNumber {
			return time.Time{}, &InvalidDateError{Value: "<non-number>"}
		}
		ms := v.Int
		if !v.IsInt {
			ms = int64(v.Float)
		}
		return time.UnixMilli(ms), nil
	default:
		if v.Kind != KindString {
			return time.Time{}, &InvalidDateError{Value: "<non-string>"}
		}
		t, err := time.Parse(time.RFC3339Nano, v.Str)
		if err != nil {
			return time.Time{}, &InvalidDateError{Value: v.Str}
		}
		return t, nil
	}
}

// encodeData renders b as a Value per strategy.
func encodeData(b []byte, strategy DataStrategy) Value {
	return Value{Kind: KindString, Str: base64.StdEncoding.EncodeToString(b)}
}

// decodeData is encodeData's inverse.
func decodeData(v Value, strategy DataStrategy) ([]byte, error) {
	if v.Kind != KindString {
		return nil, &InvalidDataError{Value: "<non-string>"}
	}
	b, err := base64.StdEncoding.DecodeString(v.Str)
	if err != nil {
		return nil, &InvalidDataError{Value: v.Str}
	}
	return b, nil
}
