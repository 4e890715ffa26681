package lazyjson

import "testing"

func TestParseInteger(t *testing.T) {
	cases := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"0", 0, true},
		{"123", 123, true},
		{"-123", -123, true},
		{"9223372036854775807", 9223372036854775807, true},
		{"-9223372036854775808", -9223372036854775808, true},
		{"99999999999999999999", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"12a", 0, false},
	}
	for _, tc := range cases {
		v, ok := parseInteger([]byte(tc.in))
		if ok != tc.wantOK || (ok && v != tc.want) {
			t.Errorf("parseInteger(%q) = (%d,%v), want (%d,%v)", tc.in, v, ok, tc.want, tc.wantOK)
		}
	}
}

func TestNarrowInt(t *testing.T) {
	if _, err := narrowInt(200, 8, "int8"); err == nil {
		t.Error("expected overflow error for int8(200)")
	}
	if v, err := narrowInt(100, 8, "int8"); err != nil || v != 100 {
		t.Errorf("narrowInt(100,8) = (%d,%v), want (100,nil)", v, err)
	}
	if v, err := narrowInt(1<<40, 64, "int64"); err != nil || v != 1<<40 {
		t.Errorf("narrowInt passthrough for 64-bit failed: %d, %v", v, err)
	}
}

func TestNarrowUint(t *testing.T) {
	if _, err := narrowUint(300, 8, "uint8"); err == nil {
		t.Error("expected overflow error for uint8(300)")
	}
	if v, err := narrowUint(200, 8, "uint8"); err != nil || v != 200 {
		t.Errorf("narrowUint(200,8) = (%d,%v), want (200,nil)", v, err)
	}
}

func TestFormatNumber(t *testing.T) {
	if s := string(formatNumber(1.5)); s != "1.5" {
		t.Errorf("formatNumber(1.5) = %q", s)
	}
	if s := string(formatNumber(0)); s != "0" {
		t.Errorf("formatNumber(0) = %q", s)
	}
}

func TestFormatInteger(t *testing.T) {
	if s := string(formatInteger(-42)); s != "-42" {
		t.Errorf("formatInteger(-42) = %q", s)
	}
}
