package lazyjson

import "testing"

func TestObjectUndoDisabledByDefault(t *testing.T) {
	o, _ := ParseObject([]byte(`{"a":1}`))
	if err := o.Set("a", []byte("2")); err != nil {
		t.Fatal(err)
	}
	if err := o.Undo(); err != ErrHistoryDisabled {
		t.Errorf("err = %v, want ErrHistoryDisabled", err)
	}
}

func TestObjectUndoRestoresPreviousBuffer(t *testing.T) {
	o, _ := ParseObject([]byte(`{"a":1}`))
	o.EnableHistory()
	if err := o.Set("a", []byte("2")); err != nil {
		t.Fatal(err)
	}
	if v, _ := o.Get("a"); v.Int != 2 {
		t.Fatalf("a = %+v before undo, want 2", v)
	}
	if err := o.Undo(); err != nil {
		t.Fatal(err)
	}
	if v, _ := o.Get("a"); v.Int != 1 {
		t.Errorf("a = %+v after undo, want 1", v)
	}
}

func TestObjectUndoNoSnapshot(t *testing.T) {
	o, _ := ParseObject([]byte(`{"a":1}`))
	o.EnableHistory()
	if err := o.Undo(); err != ErrNoSnapshot {
		t.Errorf("err = %v, want ErrNoSnapshot", err)
	}
}

func TestArrayUndoRestoresPreviousBuffer(t *testing.T) {
	a, _ := ParseArray([]byte(`[1,2]`))
	a.EnableHistory()
	if err := a.Append([]byte("3")); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 2 {
		t.Errorf("Len() after undo = %d, want 2", a.Len())
	}
}

func TestCompressAndArmorRoundTrip(t *testing.T) {
	buf := []byte(`{"a":1,"b":[1,2,3],"c":"some longer string to compress nicely"}`)
	armored, err := compressAndArmor(buf)
	if err != nil {
		t.Fatal(err)
	}
	got, err := unarmorAndDecompress(armored)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(buf) {
		t.Errorf("round trip = %q, want %q", got, buf)
	}
}

func TestMultipleUndoStepsUnwindInOrder(t *testing.T) {
	o, _ := ParseObject([]byte(`{"a":1}`))
	o.EnableHistory()
	o.Set("a", []byte("2"))
	o.Set("a", []byte("3"))
	o.Set("a", []byte("4"))
	for _, want := range []int64{3, 2, 1} {
		if err := o.Undo(); err != nil {
			t.Fatal(err)
		}
		if v, _ := o.Get("a"); v.Int != want {
			t.Errorf("a = %d, want %d", v.Int, want)
		}
	}
	if err := o.Undo(); err != ErrNoSnapshot {
		t.Errorf("err = %v, want ErrNoSnapshot", err)
	}
}
