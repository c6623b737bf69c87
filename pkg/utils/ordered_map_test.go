package utils_test

import (
	"encoding/json"
	"testing"

	"its-hmny.dev/nand2tetris/pkg/utils"
)

func TestOrderedMapZeroValueIsUsable(t *testing.T) {
	var om utils.OrderedMap[string, int]

	if om.Size() != 0 {
		t.Fatalf("expected a zero value OrderedMap to be empty, got size %d", om.Size())
	}

	om.Set("a", 1)
	if value, ok := om.Get("a"); !ok || value != 1 {
		t.Fatalf("expected to find 'a' => 1, got %d (found=%v)", value, ok)
	}
}

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	om := utils.OrderedMap[string, int]{}
	om.Set("c", 3)
	om.Set("a", 1)
	om.Set("b", 2)

	var keys []string
	for key := range om.Entries() {
		keys = append(keys, key)
	}

	want := []string{"c", "a", "b"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected key %d to be %q, got %q", i, want[i], keys[i])
		}
	}
}

func TestOrderedMapSetOverwritesInPlace(t *testing.T) {
	om := utils.OrderedMap[string, int]{}
	om.Set("a", 1)
	om.Set("b", 2)
	om.Set("a", 99) // overwrite, shouldn't move 'a' to the end

	var keys []string
	for key := range om.Entries() {
		keys = append(keys, key)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("expected order [a b] after overwrite, got %v", keys)
	}

	value, _ := om.Get("a")
	if value != 99 {
		t.Fatalf("expected overwritten value 99, got %d", value)
	}
}

func TestNewOrderedMapFromList(t *testing.T) {
	entries := []utils.MapEntry[string, int]{{Key: "x", Value: 1}, {Key: "y", Value: 2}}
	om := utils.NewOrderedMapFromList(entries)

	if om.Size() != 2 {
		t.Fatalf("expected size 2, got %d", om.Size())
	}
	value, ok := om.Get("y")
	if !ok || value != 2 {
		t.Fatalf("expected to find 'y' => 2, got %d (found=%v)", value, ok)
	}
}

func TestOrderedMapJSONRoundTrip(t *testing.T) {
	want := utils.OrderedMap[string, int]{}
	want.Set("first", 1)
	want.Set("second", 2)
	want.Set("third", 3)

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("unexpected error marshaling: %s", err)
	}

	var got utils.OrderedMap[string, int]
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error unmarshaling: %s", err)
	}

	if got.Size() != want.Size() {
		t.Fatalf("expected size %d after round trip, got %d", want.Size(), got.Size())
	}

	var wantKeys, gotKeys []string
	for key := range want.Entries() {
		wantKeys = append(wantKeys, key)
	}
	for key := range got.Entries() {
		gotKeys = append(gotKeys, key)
	}
	for i := range wantKeys {
		if wantKeys[i] != gotKeys[i] {
			t.Fatalf("expected key order to survive the round trip, want %v got %v", wantKeys, gotKeys)
		}
	}
}

func TestOrderedMapUnmarshalRejectsMalformedJSON(t *testing.T) {
	var om utils.OrderedMap[string, int]
	if err := json.Unmarshal([]byte(`{"not": "an array"}`), &om); err == nil {
		t.Fatal("expected an error unmarshaling a JSON object instead of an array")
	}
}
