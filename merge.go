package conflate

// Merger folds data trees into one merged tree under a fixed policy.
// The zero value is not usable; construct with NewMerger.
type Merger struct {
	override    bool
	deduplicate bool
}

// NewMerger builds a Merger. The default policy is extend with sequence
// deduplication enabled.
func NewMerger(opts ...MergerOption) *Merger {
	m := &Merger{deduplicate: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge folds trees left to right into a single document. With no arguments
// it returns an empty mapping. The accumulator starts as an empty container
// of the first tree's variant; empty inputs (nil, empty containers, empty
// strings, false, numeric zero) are skipped.
//
// Under the extend policy a mapping/non-mapping conflict at any path returns
// a *MergeError and no partial result. The override policy never errors.
func (m *Merger) Merge(trees ...any) (any, error) {
	if len(trees) == 0 {
		return map[string]any{}, nil
	}
	acc := emptyLike(trees[0])
	for _, tree := range trees {
		if isEmpty(tree) {
			continue
		}
		if m.override {
			acc = replace(acc, tree)
			continue
		}
		merged, err := extend(nil, acc, tree, m.deduplicate)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	return acc, nil
}

// Merge combines trees under the extend policy with deduplication.
func Merge(trees ...any) (any, error) {
	return NewMerger().Merge(trees...)
}

// MergeOverride combines trees under the override policy, where the last
// writer wins for sequences and scalars. It cannot fail.
func MergeOverride(trees ...any) any {
	merged, _ := NewMerger(WithMergerOverride()).Merge(trees...)
	return merged
}

// extend deep-combines right into left. Sequences concatenate (optionally
// deduplicating against the accumulating result), mappings union their keys
// and recurse on shared ones, and scalars are overwritten by right. A
// mapping on the left rejects any right value that is neither a mapping nor
// nil. path names the position in the tree for diagnostics.
//
// Subtrees introduced from right are deep-copied, so the result never
// shares mutable structure with the inputs.
func extend(path []string, left, right any, deduplicate bool) (any, error) {
	switch KindOf(left) {
	case KindSequence:
		leftSeq := left.([]any)
		merged := make([]any, len(leftSeq), len(leftSeq)+1)
		copy(merged, leftSeq)
		appendElem := func(v any) {
			if deduplicate {
				for _, existing := range merged {
					if sameValue(existing, v) {
						return
					}
				}
			}
			merged = append(merged, deepCopy(v))
		}
		if rightSeq, ok := right.([]any); ok {
			for _, v := range rightSeq {
				appendElem(v)
			}
		} else {
			appendElem(right)
		}
		return merged, nil

	case KindMapping:
		if right == nil {
			return left, nil
		}
		leftMap := left.(map[string]any)
		rightMap, ok := right.(map[string]any)
		if !ok {
			return nil, &MergeError{Path: path, Left: left, Right: right}
		}
		merged := make(map[string]any, len(leftMap)+len(rightMap))
		for key, v := range leftMap {
			merged[key] = v
		}
		for key, rightVal := range rightMap {
			leftVal, shared := leftMap[key]
			if !shared {
				merged[key] = deepCopy(rightVal)
				continue
			}
			childPath := append(path[:len(path):len(path)], key)
			sub, err := extend(childPath, leftVal, rightVal, deduplicate)
			if err != nil {
				return nil, err
			}
			merged[key] = sub
		}
		return merged, nil

	default:
		// Right wins outright at leaf positions.
		return right, nil
	}
}

// replace merges right into left with last-writer-wins semantics. Mappings
// merge recursively, with values for keys new to left installed as deep
// copies; a right sequence discards left wholesale in favor of a shallow
// copy; any other right value is returned verbatim. Shape conflicts never
// error, right simply wins.
//
// replace may mutate a left mapping in place. The merge driver always owns
// its accumulator, so callers of Merge never observe the mutation.
func replace(left, right any) any {
	switch rightVal := right.(type) {
	case map[string]any:
		leftMap, ok := left.(map[string]any)
		if !ok {
			leftMap = make(map[string]any, len(rightVal))
		}
		for key, v := range rightVal {
			if existing, shared := leftMap[key]; shared {
				leftMap[key] = replace(existing, v)
			} else {
				leftMap[key] = deepCopy(v)
			}
		}
		return leftMap
	case []any:
		out := make([]any, len(rightVal))
		copy(out, rightVal)
		return out
	default:
		return right
	}
}
