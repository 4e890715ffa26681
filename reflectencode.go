package lazyjson

import (
	"fmt"
	"reflect"
	"time"
)

// reflectToValue walks an arbitrary Go value's reflected shape and
// builds the Value tree EncodeInto needs, applying settings' key/date/
// data strategies the same way Decoder's struct walk applies them in
// reverse. It is the encode-side mirror of Decoder.decodeInto.
func reflectToValue(v any, settings EncoderSettings) (Value, error) {
	return reflectValueToValue(reflect.ValueOf(v), settings)
}

func reflectValueToValue(rv reflect.Value, settings EncoderSettings) (Value, error) {
	if !rv.IsValid() {
		return Value{Kind: KindNull}, nil
	}
	if m, ok := rv.Interface().(Marshaler); ok {
		e := NewEncoder(settings)
		if err := m.MarshalLazyJSON(e); err != nil {
			return Value{}, err
		}
		encoded, err := e.Bytes()
		if err != nil {
			return Value{}, err
		}
		sub, err := describeValue(encoded)
		if err != nil {
			return Value{}, err
		}
		return valueAt(encoded, sub, 0)
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{Kind: KindNull}, nil
		}
		return reflectValueToValue(rv.Elem(), settings)
	}

	if rv.Type() == reflect.TypeOf(time.Time{}) {
		return formatDate(rv.Interface().(time.Time), settings.DateStrategy), nil
	}
	if rv.Type() == reflect.TypeOf([]byte(nil)) {
		return encodeData(rv.Bytes(), settings.DataStrategy), nil
	}
	if rv.Type() == reflect.TypeOf(Value{}) {
		return rv.Interface().(Value), nil
	}

	switch rv.Kind() {
	case reflect.Struct:
		return reflectStructToValue(rv, settings)
	case reflect.Map:
		return reflectMapToValue(rv, settings)
	case reflect.Slice, reflect.Array:
		return reflectSliceToValue(rv, settings)
	case reflect.String:
		return Value{Kind: KindString, Str: rv.String()}, nil
	case reflect.Bool:
		return Value{Kind: KindBool, Bool: rv.Bool()}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Value{Kind: KindNumber, Int: rv.Int(), IsInt: true}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Value{Kind: KindNumber, Int: int64(rv.Uint()), IsInt: true}, nil
	case reflect.Float32, reflect.Float64:
		return Value{Kind: KindNumber, Float: rv.Float()}, nil
	default:
		return Value{}, &DecodingError{Expected: rv.Type()}
	}
}

func reflectStructToValue(rv reflect.Value, settings EncoderSettings) (Value, error) {
	obj := &Object{buf: []byte("{}"), table: NewDescription()}
	if _, serr := Scan(obj.buf, obj.table); serr != nil {
		return Value{}, serr
	}

	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty := fieldJSONName(f)
		if name == "-" {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && isEmptyValue(fv) {
			continue
		}
		key := encodeKey(name, settings.KeyStrategy)
		val, err := reflectValueToValue(fv, settings)
		if err != nil {
			return Value{}, err
		}
		if err := obj.SetValue(key, val); err != nil {
			return Value{}, err
		}
	}
	return Value{Kind: KindObject, Object: obj}, nil
}

func reflectMapToValue(rv reflect.Value, settings EncoderSettings) (Value, error) {
	obj := &Object{buf: []byte("{}"), table: NewDescription()}
	if _, err := Scan(obj.buf, obj.table); err != nil {
		return Value{}, err
	}
	iterKeys := rv.MapKeys()
	for _, k := range iterKeys {
		val, err := reflectValueToValue(rv.MapIndex(k), settings)
		if err != nil {
			return Value{}, err
		}
		if err := obj.SetValue(reflectKeyToString(k), val); err != nil {
			return Value{}, err
		}
	}
	return Value{Kind: KindObject, Object: obj}, nil
}

func reflectKeyToString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

func reflectSliceToValue(rv reflect.Value, settings EncoderSettings) (Value, error) {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return Value{Kind: KindNull}, nil
	}
	arr := &Array{buf: []byte("[]"), table: NewDescription()}
	if _, err := Scan(arr.buf, arr.table); err != nil {
		return Value{}, err
	}
	for i := 0; i < rv.Len(); i++ {
		val, err := reflectValueToValue(rv.Index(i), settings)
		if err != nil {
			return Value{}, err
		}
		if err := arr.AppendValue(val); err != nil {
			return Value{}, err
		}
	}
	return Value{Kind: KindArray, Array: arr}, nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	default:
		return false
	}
}
