package conflate

import "reflect"

// Kind classifies a node of a data tree. Trees are plain Go values as
// produced by the format decoders: map[string]any for mappings, []any for
// sequences, and strings, booleans, numbers, or nil for scalars.
type Kind uint8

const (
	KindScalar Kind = iota
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// KindOf resolves the variant of v once so merge code can branch on the
// result instead of re-probing with type assertions at every step.
func KindOf(v any) Kind {
	switch v.(type) {
	case map[string]any:
		return KindMapping
	case []any:
		return KindSequence
	default:
		return KindScalar
	}
}

// emptyLike returns an empty container of the same variant as v. Scalars and
// nil default to an empty mapping, which is what the merge driver seeds its
// accumulator with.
func emptyLike(v any) any {
	switch KindOf(v) {
	case KindSequence:
		return []any{}
	default:
		return map[string]any{}
	}
}

// deepCopy returns a copy of v sharing no mutable structure with it.
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, item := range val {
			out[key] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}

// sameValue reports structural equality. Sequence deduplication keys on this,
// not on identity.
func sameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// isEmpty reports whether the merge driver should skip v entirely: nil,
// empty containers, empty strings, false, and numeric zero all count.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case string:
		return val == ""
	case bool:
		return !val
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	default:
		return false
	}
}
