package lazyjson

import "testing"

// Scenario 1: member order is preserved through decode-then-encode.
func TestScenarioDecodeEncodePreservesMemberOrder(t *testing.T) {
	type record struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	input := `{"id":42,"name":"Joannis"}`
	var r record
	if err := Decode([]byte(input), &r); err != nil {
		t.Fatal(err)
	}
	if r.ID != 42 || r.Name != "Joannis" {
		t.Fatalf("r = %+v", r)
	}
	out, err := Encode(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != input {
		t.Errorf("Encode(r) = %q, want %q", out, input)
	}
}

// Scenario 2: iterating a mixed-kind array preserves order and kind.
func TestScenarioArrayIterationOrderAndKinds(t *testing.T) {
	a, err := ParseArray([]byte(`[1,2.5,true,null,"x"]`))
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", a.Len())
	}
	wantKinds := []Kind{KindNumber, KindNumber, KindBool, KindNull, KindString}
	i := 0
	for _, v := range a.All() {
		if v.Kind != wantKinds[i] {
			t.Errorf("element %d: Kind = %v, want %v", i, v.Kind, wantKinds[i])
		}
		i++
	}
	v0, _ := a.Get(0)
	if !v0.IsInt || v0.Int != 1 {
		t.Errorf("element 0 = %+v, want Int 1", v0)
	}
	v1, _ := a.Get(1)
	if v1.IsInt || v1.Float != 2.5 {
		t.Errorf("element 1 = %+v, want Double 2.5", v1)
	}
	v2, _ := a.Get(2)
	if !v2.Bool {
		t.Errorf("element 2 = %+v, want true", v2)
	}
}

// Scenario 3: convertFromSnakeCase decodes user_name into UserName.
func TestScenarioSnakeCaseKeyStrategy(t *testing.T) {
	type rec struct {
		UserName string
	}
	var r rec
	settings := DefaultDecoderSettings()
	settings.KeyStrategy = KeyConvertFromSnakeCase
	if err := DecodeWithSettings([]byte(`{"user_name":"j"}`), &r, settings); err != nil {
		t.Fatal(err)
	}
	if r.UserName != "j" {
		t.Errorf("UserName = %q, want %q", r.UserName, "j")
	}
}

// Scenario 4: escape handling round-trips quote, newline, and a unicode escape.
func TestScenarioEscapedStringDecodeAndReencode(t *testing.T) {
	table, buf := parse(t, `{"s":"a\"b\n\u00e9"}`)
	sAt := table.valueOffset(buf, 0, "s", false)
	v, err := valueAt(buf, table, sAt)
	if err != nil {
		t.Fatal(err)
	}
	want := "a\"b\né"
	if v.Str != want {
		t.Errorf("decoded s = %q, want %q", v.Str, want)
	}
	e := NewEncoder(DefaultEncoderSettings())
	if err := e.EncodeValue(Value{Kind: KindString, Str: v.Str}); err != nil {
		t.Fatal(err)
	}
	out, _ := e.Bytes()
	var roundTripped string
	if err := Decode(out, &roundTripped); err != nil {
		t.Fatalf("re-decode failed: %v (out=%s)", err, out)
	}
	if roundTripped != want {
		t.Errorf("round trip = %q, want %q", roundTripped, want)
	}
}

// Scenario 5: set then remove leaves exactly one member.
func TestScenarioSetThenRemoveLeavesExpectedBytes(t *testing.T) {
	o, err := ParseObject([]byte(`{"a":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Set("b", []byte("2")); err != nil {
		t.Fatal(err)
	}
	if !o.Remove("a") {
		t.Fatal("Remove(a) = false")
	}
	if string(o.Raw()) != `{"b":2}` {
		t.Fatalf("Raw() = %q, want {\"b\":2}", o.Raw())
	}
	if o.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", o.Len())
	}
	keyAt := o.table.FirstChild(0)
	start, _ := o.table.DataBounds(keyAt)
	if o.buf[start] != 'b' {
		t.Errorf("remaining member key does not point at b")
	}
}

// Scenario 6: an integer one past int64 max fails narrowing to Int64 but
// succeeds as a Double.
func TestScenarioOverflowingIntegerFallsBackToDouble(t *testing.T) {
	table, buf := parse(t, `{"n":9223372036854775808}`)
	nAt := table.valueOffset(buf, 0, "n", false)
	v, err := valueAt(buf, table, nAt)
	if err != nil {
		t.Fatal(err)
	}
	if v.IsInt {
		t.Fatal("expected overflow to be represented as a float, not an int")
	}
	if v.Float != 9223372036854775808.0 {
		t.Errorf("Float = %v, want 9223372036854775808", v.Float)
	}

	type withInt64 struct {
		N int64
	}
	var w withInt64
	err = Decode(buf, &w)
	if err == nil {
		t.Fatal("expected decode into int64 to fail on overflow")
	}
}

// Round-trip law: decode then re-encode a representative document is
// byte-equivalent when member order is preserved.
func TestRoundTripLawAcrossKinds(t *testing.T) {
	inputs := []string{
		`{}`,
		`[]`,
		`{"a":1,"b":[1,2,3],"c":{"d":true,"e":null},"f":"text"}`,
		`[1,2,3,4,5]`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			table := NewDescription()
			if _, err := Scan([]byte(in), table); err != nil {
				t.Fatalf("scan: %v", err)
			}
			start, end := table.JSONBounds(0)
			if string(in[start:end]) != in {
				t.Errorf("JSONBounds round trip = %q, want %q", in[start:end], in)
			}
			v, err := valueAt([]byte(in), table, 0)
			if err != nil {
				t.Fatalf("valueAt: %v", err)
			}
			out, err := encodeValue(v)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if string(out) != in {
				t.Errorf("re-encoded = %q, want %q", out, in)
			}
		})
	}
}

// Integer width: narrowing picks exactly the representable range.
func TestIntegerWidthBoundaries(t *testing.T) {
	cases := []struct {
		v       int64
		bits    int
		wantErr bool
	}{
		{127, 8, false},
		{128, 8, true},
		{-128, 8, false},
		{-129, 8, true},
		{32767, 16, false},
		{32768, 16, true},
	}
	for _, tc := range cases {
		_, err := narrowInt(tc.v, tc.bits, "testtype")
		if (err != nil) != tc.wantErr {
			t.Errorf("narrowInt(%d, %d): err = %v, wantErr %v", tc.v, tc.bits, err, tc.wantErr)
		}
	}
}
