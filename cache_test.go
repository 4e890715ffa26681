package lazyjson

import "testing"

func TestParseCacheLookupAndStore(t *testing.T) {
	c := NewParseCache()
	buf := []byte(`{"a":1}`)
	if _, ok := c.lookup(buf, AlgXXH3); ok {
		t.Fatal("expected miss on empty cache")
	}
	table := NewDescription()
	if _, err := Scan(buf, table); err != nil {
		t.Fatal(err)
	}
	c.store(buf, AlgXXH3, table)
	got, ok := c.lookup(buf, AlgXXH3)
	if !ok || got != table {
		t.Fatalf("lookup after store: got %v, ok %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestParseCacheEviction(t *testing.T) {
	c := NewParseCache()
	for i := 0; i < parseCacheCapacity+10; i++ {
		buf := []byte(`{"n":` + itoa(i) + `}`)
		table := NewDescription()
		Scan(buf, table)
		c.store(buf, AlgXXH3, table)
	}
	if c.Len() > parseCacheCapacity {
		t.Errorf("Len() = %d, want <= %d", c.Len(), parseCacheCapacity)
	}
}

func TestParseCacheRehash(t *testing.T) {
	c := NewParseCache()
	bufs := map[string][]byte{
		"a": []byte(`{"a":1}`),
		"b": []byte(`{"b":2}`),
	}
	for _, b := range bufs {
		table := NewDescription()
		Scan(b, table)
		c.store(b, AlgXXH3, table)
	}
	c.Rehash(bufs, AlgBlake2b)
	if c.Len() != 2 {
		t.Fatalf("Len() after rehash = %d, want 2", c.Len())
	}
	if _, ok := c.lookup(bufs["a"], AlgBlake2b); !ok {
		t.Error("expected hit under new algorithm")
	}
}

func TestDecodeWithSettingsUsesGlobalCache(t *testing.T) {
	before := globalParseCache.Len()
	type v struct{ A int }
	var out v
	if err := Decode([]byte(`{"A":9}`), &out); err != nil {
		t.Fatal(err)
	}
	if globalParseCache.Len() <= before && globalParseCache.Len() == 0 {
		t.Errorf("expected global cache to have grown")
	}
	if out.A != 9 {
		t.Errorf("A = %d", out.A)
	}
}
