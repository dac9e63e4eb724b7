package flow

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestOrderedMapInsertionOrder(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)

	want := []string{"c", "a", "b"}
	if got := m.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestOrderedMapOverwriteKeepsPosition(t *testing.T) {
	m := NewOrderedMap[string]()
	m.Set("x", "first")
	m.Set("y", "second")
	m.Set("x", "updated")

	if got := m.Keys(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("Keys() = %v, want [x y]", got)
	}
	if v, _ := m.Get("x"); v != "updated" {
		t.Errorf("Get(x) = %q, want %q", v, "updated")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestOrderedMapDelete(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	if !m.Delete("b") {
		t.Fatal("Delete(b) = false, want true")
	}
	if m.Delete("b") {
		t.Error("second Delete(b) = true, want false")
	}
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Keys() = %v, want [a c]", got)
	}
}

func TestOrderedMapAll(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("one", 1)
	m.Set("two", 2)

	var keys []string
	var vals []int
	for k, v := range m.All() {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	if !reflect.DeepEqual(keys, []string{"one", "two"}) {
		t.Errorf("iteration keys = %v", keys)
	}
	if !reflect.DeepEqual(vals, []int{1, 2}) {
		t.Errorf("iteration values = %v", vals)
	}
}

func TestOrderedMapClone(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)

	c := m.Clone()
	c.Delete("a")
	c.Set("z", 26)

	if !m.Has("a") || m.Has("z") {
		t.Error("mutating the clone should not affect the original")
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"b", "z"}) {
		t.Errorf("clone Keys() = %v, want [b z]", got)
	}
}

func TestOrderedMapJSONRoundTrip(t *testing.T) {
	m := NewOrderedMap[*string]()
	v := "json-value"
	m.Set("zeta", &v)
	m.Set("alpha", nil)
	m.Set("mid", &v)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"zeta":"json-value","alpha":null,"mid":"json-value"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	back := NewOrderedMap[*string]()
	if err := json.Unmarshal(data, back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got := back.Keys(); !reflect.DeepEqual(got, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("round-trip Keys() = %v", got)
	}
	if got, _ := back.Get("alpha"); got != nil {
		t.Errorf("round-trip Get(alpha) = %v, want nil", got)
	}
}

func TestOrderedMapNilReceiver(t *testing.T) {
	var m *OrderedMap[int]
	if m.Len() != 0 {
		t.Error("nil map should have length 0")
	}
	if m.Keys() != nil {
		t.Error("nil map should have no keys")
	}
	for range m.All() {
		t.Fatal("nil map should not yield entries")
	}
}
