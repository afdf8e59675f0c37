package dogs

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDog_UnmarshalKeepsUnknownFields(t *testing.T) {
	in := `{
		"id": "42",
		"name": "Biscuit",
		"sex": "Female",
		"age": "Young",
		"size": "Medium",
		"shedding": "Sheds a little",
		"primary_breed": "Labrador Retriever",
		"secondary_breed": null,
		"status": "Available",
		"images": [{"image": {"url": "https://img.example/1.jpg"}}],
		"bonded_pair": true
	}`

	var d Dog
	if err := json.Unmarshal([]byte(in), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.ID != 42 || d.Name != "Biscuit" || d.Sex != SexFemale || d.Shedding != SheddingLittle {
		t.Fatalf("typed fields not parsed: %+v", d)
	}
	if d.SecondaryBreed != "" {
		t.Fatalf("expected null secondary breed as empty, got %q", d.SecondaryBreed)
	}
	if _, ok := d.Extra["images"]; !ok {
		t.Fatalf("expected images in Extra")
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if back["bonded_pair"] != true {
		t.Fatalf("expected bonded_pair passthrough, got %v", back["bonded_pair"])
	}
	if back["id"] != float64(42) {
		t.Fatalf("expected numeric id 42, got %v", back["id"])
	}
	if _, ok := back["images"].([]any); !ok {
		t.Fatalf("expected images passthrough, got %T", back["images"])
	}
}

func TestDog_UnmarshalMissingOrInvalidID(t *testing.T) {
	for _, in := range []string{`{"name":"x"}`, `{"id":null}`, `{"id":"abc"}`, `{"id":1.5}`} {
		var d Dog
		if err := json.Unmarshal([]byte(in), &d); err != nil {
			t.Fatalf("%s: unmarshal: %v", in, err)
		}
		if d.ID != 0 {
			t.Fatalf("%s: expected no id, got %d", in, d.ID)
		}
	}
}

func TestSearchResult_DogsDocumentedAsObjects(t *testing.T) {
	f, ok := reflect.TypeOf(SearchResult{}).FieldByName("Dogs")
	if !ok {
		t.Fatalf("SearchResult.Dogs missing")
	}
	// sin el override, swag init expondría los campos Go sin tag json
	if got := f.Tag.Get("swaggertype"); got != "array,object" {
		t.Fatalf("expected swaggertype array,object, got %q", got)
	}
}
