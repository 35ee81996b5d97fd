package conflate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		value any
		want  Kind
	}{
		{map[string]any{}, KindMapping},
		{[]any{1}, KindSequence},
		{"text", KindScalar},
		{42, KindScalar},
		{3.14, KindScalar},
		{true, KindScalar},
		{nil, KindScalar},
	}
	for _, tc := range cases {
		if got := KindOf(tc.value); got != tc.want {
			t.Fatalf("KindOf(%v) = %s, want %s", tc.value, got, tc.want)
		}
	}
}

func TestEmptyLike(t *testing.T) {
	if diff := cmp.Diff(map[string]any{}, emptyLike(map[string]any{"a": 1})); diff != "" {
		t.Fatalf("mapping factory mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{}, emptyLike([]any{1})); diff != "" {
		t.Fatalf("sequence factory mismatch (-want +got):\n%s", diff)
	}
	// Any other shape defaults to an empty mapping.
	if diff := cmp.Diff(map[string]any{}, emptyLike("scalar")); diff != "" {
		t.Fatalf("scalar factory mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{}, emptyLike(nil)); diff != "" {
		t.Fatalf("nil factory mismatch (-want +got):\n%s", diff)
	}
}

func TestDeepCopyIndependence(t *testing.T) {
	original := map[string]any{
		"seq": []any{map[string]any{"a": 1}},
	}
	copied := deepCopy(original).(map[string]any)
	original["seq"].([]any)[0].(map[string]any)["a"] = 99

	got := copied["seq"].([]any)[0].(map[string]any)["a"]
	if got != 1 {
		t.Fatalf("deep copy shares structure with original, got %v", got)
	}
}

func TestIsEmpty(t *testing.T) {
	empty := []any{nil, map[string]any{}, []any{}, "", false, 0, int64(0), 0.0}
	for _, v := range empty {
		if !isEmpty(v) {
			t.Fatalf("expected %#v to be empty", v)
		}
	}
	nonEmpty := []any{map[string]any{"a": 1}, []any{0}, "x", true, 1, -1.5}
	for _, v := range nonEmpty {
		if isEmpty(v) {
			t.Fatalf("expected %#v to be non-empty", v)
		}
	}
}

func TestSameValue(t *testing.T) {
	if !sameValue(map[string]any{"a": []any{1}}, map[string]any{"a": []any{1}}) {
		t.Fatal("expected structurally equal trees to match")
	}
	if sameValue([]any{1}, []any{2}) {
		t.Fatal("expected different sequences not to match")
	}
}
