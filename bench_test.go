package lazyjson

import (
	"encoding/json"
	"testing"

	goccy "github.com/goccy/go-json"
)

const benchDocument = `{"id":42,"name":"Joannis","tags":["a","b","c"],"active":true,"score":3.14,"meta":{"k1":"v1","k2":"v2"}}`

type benchRecord struct {
	ID     int               `json:"id"`
	Name   string            `json:"name"`
	Tags   []string          `json:"tags"`
	Active bool              `json:"active"`
	Score  float64           `json:"score"`
	Meta   map[string]string `json:"meta"`
}

func BenchmarkDecode_LazyJSON(b *testing.B) {
	data := []byte(benchDocument)
	for i := 0; i < b.N; i++ {
		var r benchRecord
		if err := Decode(data, &r); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode_EncodingJSON(b *testing.B) {
	data := []byte(benchDocument)
	for i := 0; i < b.N; i++ {
		var r benchRecord
		if err := json.Unmarshal(data, &r); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode_Goccy(b *testing.B) {
	data := []byte(benchDocument)
	for i := 0; i < b.N; i++ {
		var r benchRecord
		if err := goccy.Unmarshal(data, &r); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkObjectGet_LazyJSON(b *testing.B) {
	data := []byte(benchDocument)
	o, err := ParseObject(data)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		if _, ok := o.Get("name"); !ok {
			b.Fatal("missing key")
		}
	}
}

func BenchmarkEncode_LazyJSON(b *testing.B) {
	r := benchRecord{ID: 42, Name: "Joannis", Tags: []string{"a", "b", "c"}, Active: true, Score: 3.14, Meta: map[string]string{"k1": "v1"}}
	for i := 0; i < b.N; i++ {
		if _, err := Encode(r); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncode_EncodingJSON(b *testing.B) {
	r := benchRecord{ID: 42, Name: "Joannis", Tags: []string{"a", "b", "c"}, Active: true, Score: 3.14, Meta: map[string]string{"k1": "v1"}}
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(r); err != nil {
			b.Fatal(err)
		}
	}
}
