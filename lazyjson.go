package lazyjson

import "io"

// DecodeReader reads all of r and decodes it into v. It is a convenience
// wrapper around Decode for callers holding an io.Reader rather than an
// already-materialized byte slice; the library's lazy, zero-copy design
// means there is no streaming benefit to decoding before the full buffer
// is in memory, so this simply buffers first.
func DecodeReader(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return Decode(data, v)
}

// DecodeString is Decode over a string, avoiding the caller needing to
// convert to []byte first (which would copy anyway; this does the same
// copy internally, once).
func DecodeString(s string, v any) error {
	return Decode([]byte(s), v)
}

// Encode renders v as JSON using DefaultEncoderSettings.
func Encode(v any) ([]byte, error) {
	return EncodeWithSettings(v, DefaultEncoderSettings())
}

// EncodeWithSettings is Encode with explicit EncoderSettings.
func EncodeWithSettings(v any, settings EncoderSettings) ([]byte, error) {
	e := NewEncoder(settings)
	if err := EncodeInto(e, v); err != nil {
		return nil, err
	}
	return e.Bytes()
}

// EncodeInto renders v onto an existing Encoder, letting a caller
// compose several values (or a Marshaler's own fields) into one
// accumulating buffer rather than allocating a fresh one per call.
func EncodeInto(e *Encoder, v any) error {
	if m, ok := v.(Marshaler); ok {
		return m.MarshalLazyJSON(e)
	}
	val, err := reflectToValue(v, e.settings)
	if err != nil {
		return err
	}
	return e.EncodeValue(val)
}

// EncodeToObject renders v (which must encode to a JSON object) and
// parses the result back into an *Object façade, letting a caller
// produce a value via struct tags and then keep mutating it through the
// Object API.
func EncodeToObject(v any) (*Object, error) {
	data, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return ParseObject(data)
}

// EncodeToArray is EncodeToObject's array counterpart.
func EncodeToArray(v any) (*Array, error) {
	data, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return ParseArray(data)
}
