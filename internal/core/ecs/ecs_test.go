package ecs

import (
	"errors"
	"reflect"
	"testing"
)

type testComp struct {
	Value float64
}

func (c *testComp) Patch(attrs Attributes) error {
	if v, ok := attrs["value"].(float64); ok {
		c.Value = v
	}
	return nil
}

func (c *testComp) Attributes() Attributes {
	return Attributes{"value": c.Value}
}

type otherComp struct{}

func (c *otherComp) Patch(Attributes) error { return nil }
func (c *otherComp) Attributes() Attributes { return Attributes{} }

func TestParseEntityIDNormalizesNumbers(t *testing.T) {
	cases := map[string]EntityID{
		"7":     "7",
		"007":   "7",
		"+7":    "7",
		"-3":    "-3",
		"abc":   "abc",
		"12abc": "12abc",
		"":      InvalidEntityID,
	}
	for in, want := range cases {
		if got := ParseEntityID(in); got != want {
			t.Errorf("ParseEntityID(%q) = %q, want %q", in, got, want)
		}
	}
	if ParseEntityID("42") != EntityIDFromInt(42) {
		t.Error("string and numeric forms of the same id should be equal")
	}
}

func TestIDAllocatorSkipsSuppliedNumericIDs(t *testing.T) {
	a := NewIDAllocator()
	if got := a.Allocate(""); got != "1" {
		t.Fatalf("first auto id = %q, want 1", got)
	}
	if got := a.Allocate("10"); got != "10" {
		t.Fatalf("supplied id = %q, want 10", got)
	}
	if got := a.Allocate(""); got != "11" {
		t.Fatalf("auto id after supplied 10 = %q, want 11", got)
	}
	if got := a.Allocate("player"); got != "player" {
		t.Fatalf("non-numeric id = %q, want verbatim", got)
	}
	if got := a.Allocate("3"); got != "3" {
		t.Fatalf("lower numeric id = %q, want 3", got)
	}
	if got := a.Allocate(""); got != "12" {
		t.Fatalf("lower supplied id must not lower the floor, got %q", got)
	}
}

func TestPatchSemantics(t *testing.T) {
	dst := Attributes{
		"scalar": 1,
		"list":   []any{1, 2, 3},
		"obj":    map[string]any{"a": 1, "b": 2},
	}
	src := Attributes{
		"scalar": 5,
		"list":   []any{9},
		"obj":    map[string]any{"b": 20, "c": 30},
		"new":    "x",
	}
	got := Patch(dst, src)
	want := Attributes{
		"scalar": 5,
		"list":   []any{9},
		"obj":    map[string]any{"a": 1, "b": 20, "c": 30},
		"new":    "x",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Patch = %#v, want %#v", got, want)
	}

	// patched slices must not alias the source
	src["list"].([]any)[0] = 100
	if got["list"].([]any)[0] != 9 {
		t.Error("patched slice aliases the source slice")
	}
}

func TestAttributesCloneIsDeep(t *testing.T) {
	a := Attributes{"v": []any{1.0, 2.0}, "m": map[string]any{"k": []any{"x"}}}
	b := a.Clone()
	b["v"].([]any)[0] = 9.0
	b["m"].(map[string]any)["k"].([]any)[0] = "y"
	if a["v"].([]any)[0] != 1.0 || a["m"].(map[string]any)["k"].([]any)[0] != "x" {
		t.Fatalf("Clone shares nested state: %#v", a)
	}
}

func TestComponentConfigMerge(t *testing.T) {
	base := ComponentConfig{"transform": {"translation": []any{1, 1}, "rotation": 0.5}}
	got := base.Clone().Merge(ComponentConfig{
		"transform": {"translation": []any{2, 2}},
		"visual":    {"opacity": 0.5},
	})
	if !reflect.DeepEqual(got["transform"], Attributes{"translation": []any{2, 2}, "rotation": 0.5}) {
		t.Errorf("transform = %#v", got["transform"])
	}
	if got["visual"]["opacity"] != 0.5 {
		t.Errorf("visual not added: %#v", got)
	}
	if !reflect.DeepEqual(base["transform"]["translation"], []any{1, 1}) {
		t.Error("Merge on a clone mutated the original")
	}
}

func TestStoreInsertDuplicate(t *testing.T) {
	s := NewStore[*testComp]("test")
	if err := s.Insert("1", &testComp{}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	err := s.Insert("1", &testComp{})
	if !errors.Is(err, ErrDuplicateComponent) {
		t.Fatalf("second Insert err = %v, want ErrDuplicateComponent", err)
	}
	var dup *DuplicateComponentError
	if !errors.As(err, &dup) || dup.EntityID != "1" || dup.TypeID != "test" {
		t.Fatalf("unexpected error detail: %#v", err)
	}
	if err := s.Insert("2", &otherComp{}); !errors.Is(err, ErrComponentType) {
		t.Fatalf("wrong type Insert err = %v", err)
	}
}

func mustInsert(t *testing.T, s AnyStore, id EntityID, c Component) {
	t.Helper()
	if err := s.Insert(id, c); err != nil {
		t.Fatalf("Insert(%q): %v", id, err)
	}
}

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry()
	a := NewStore[*testComp]("a")
	b := NewStore[*otherComp]("b")
	r.Register(a)
	r.Register(b)
	if got := r.Register(NewStore[*testComp]("a")); got != a {
		t.Fatal("re-registering a type id should keep the first store")
	}

	mustInsert(t, a, "1", &testComp{Value: 1})
	mustInsert(t, b, "1", &otherComp{})
	mustInsert(t, b, "2", &otherComp{})

	if !r.Has("2") || r.Has("3") {
		t.Fatal("Has mismatch")
	}
	if got := len(r.Components("1")); got != 2 {
		t.Fatalf("Components len = %d", got)
	}
}

func TestEach2VisitsIntersection(t *testing.T) {
	a := NewStore[*testComp]("a")
	b := NewStore[*otherComp]("b")
	mustInsert(t, a, "1", &testComp{})
	mustInsert(t, a, "2", &testComp{})
	mustInsert(t, a, "3", &testComp{})
	mustInsert(t, b, "2", &otherComp{})

	var seen []EntityID
	Each2(a, b, func(id EntityID, _ *testComp, _ *otherComp) {
		seen = append(seen, id)
	})
	if !reflect.DeepEqual(seen, []EntityID{"2"}) {
		t.Fatalf("Each2 visited %v", seen)
	}
}

func TestWorldRemovalQueue(t *testing.T) {
	w := NewWorld()
	w.MarkForRemoval("1")
	w.MarkForRemoval("1")
	w.MarkForRemoval("2")
	if w.PendingRemovals() != 2 {
		t.Fatalf("pending = %d, want 2", w.PendingRemovals())
	}
	var removed []EntityID
	w.FlushRemovalQueue(func(id EntityID) {
		removed = append(removed, id)
		if id == "1" {
			w.MarkForRemoval("3")
		}
	})
	if !reflect.DeepEqual(removed, []EntityID{"1", "2", "3"}) {
		t.Fatalf("removed = %v", removed)
	}
	if w.PendingRemovals() != 0 {
		t.Fatal("queue not cleared")
	}
}
