package lazyjson

import "testing"

func TestReflectEncodeMapWithStringKeys(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2}
	v, err := reflectToValue(m, DefaultEncoderSettings())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindObject || v.Object.Len() != 2 {
		t.Fatalf("v = %+v", v)
	}
}

func TestReflectEncodeMapWithIntKeys(t *testing.T) {
	m := map[int]string{1: "one", 2: "two"}
	v, err := reflectToValue(m, DefaultEncoderSettings())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindObject {
		t.Fatalf("Kind = %v, want KindObject", v.Kind)
	}
	got, ok := v.Object.Get("1")
	if !ok || got.Str != "one" {
		t.Errorf(`Object.Get("1") = %+v, %v`, got, ok)
	}
}

func TestReflectEncodeNilSliceBecomesNull(t *testing.T) {
	var s []int
	v, err := reflectToValue(s, DefaultEncoderSettings())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindNull {
		t.Errorf("Kind = %v, want KindNull", v.Kind)
	}
}

func TestReflectEncodeArrayOfStructs(t *testing.T) {
	type item struct{ N int }
	items := []item{{1}, {2}, {3}}
	v, err := reflectToValue(items, DefaultEncoderSettings())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindArray || v.Array.Len() != 3 {
		t.Fatalf("v = %+v", v)
	}
}

func TestReflectEncodeOmitEmpty(t *testing.T) {
	type rec struct {
		A int    `json:"a,omitempty"`
		B string `json:"b,omitempty"`
	}
	v, err := reflectToValue(rec{}, DefaultEncoderSettings())
	if err != nil {
		t.Fatal(err)
	}
	if v.Object.Len() != 0 {
		t.Errorf("Object.Len() = %d, want 0", v.Object.Len())
	}
}

func TestReflectEncodePointerFieldDereferences(t *testing.T) {
	n := 5
	v, err := reflectToValue(&n, DefaultEncoderSettings())
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsInt || v.Int != 5 {
		t.Errorf("v = %+v", v)
	}
}

func TestReflectEncodeNilPointerBecomesNull(t *testing.T) {
	var p *int
	v, err := reflectToValue(p, DefaultEncoderSettings())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindNull {
		t.Errorf("Kind = %v, want KindNull", v.Kind)
	}
}
