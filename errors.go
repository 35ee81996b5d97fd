package conflate

import (
	"fmt"
	"strings"
)

// ValueSource identifies where a document payload was attempted to be read
// from (environment, provider, file, decoder, spec parsing, etc.).
type ValueSource string

const (
	SourceEnv      ValueSource = "env"
	SourceProvider ValueSource = "provider"
	SourceFile     ValueSource = "file"
	SourceDecoder  ValueSource = "decoder"
	SourceSpec     ValueSource = "spec"
)

// MergeError reports a mapping/non-mapping conflict found while extending.
// It carries the two conflicting values and the tree path at which they
// collided so callers can produce a path-qualified diagnostic. The override
// policy never produces a MergeError.
type MergeError struct {
	Path  []string
	Left  any
	Right any
}

// Error implements the error interface.
func (e *MergeError) Error() string {
	at := "document root"
	if len(e.Path) > 0 {
		at = strings.Join(e.Path, ".")
	}
	return fmt.Sprintf("conflate: cannot merge mapping and non-mapping at %s: left=%v, right=%v", at, e.Left, e.Right)
}

// FormatError reports an explicit lookup of a format name that was never
// registered with the Dispatcher. Extension-based lookups never produce it;
// they fall back to the raw format instead.
type FormatError struct {
	Name string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("conflate: unknown format %q", e.Name)
}

// AttemptError captures metadata about a failed attempt (environment lookup,
// provider fetch, file read, decode) that occurred while resolving a single
// input.
type AttemptError struct {
	Source     ValueSource
	Identifier string
	Err        error
}

// Error implements the error interface.
func (a AttemptError) Error() string {
	if a.Identifier == "" {
		return fmt.Sprintf("%s: %v", a.Source, a.Err)
	}
	return fmt.Sprintf("%s (%s): %v", a.Source, a.Identifier, a.Err)
}

// Unwrap exposes the underlying cause so I/O errors propagate unchanged
// through errors.Is and errors.As.
func (a AttemptError) Unwrap() error {
	return a.Err
}

// InputError aggregates all failed attempts for one merge input. When an
// input cannot be satisfied it may record multiple AttemptErrors that
// callers can inspect to decide how to handle the failure.
type InputError struct {
	Input    string
	Attempts []AttemptError
}

// Error implements the error interface.
func (f InputError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "%s: ", f.Input)
	errorsText := make([]string, len(f.Attempts))
	for i, att := range f.Attempts {
		errorsText[i] = att.Error()
	}
	b.WriteString(strings.Join(errorsText, "; "))
	return b.String()
}

// ErrorGroup groups input errors discovered during a loader run. The group
// can be inspected to understand which inputs failed and why.
type ErrorGroup struct {
	inputs []InputError
}

// Error implements the error interface.
func (g *ErrorGroup) Error() string {
	if g == nil || len(g.inputs) == 0 {
		return ""
	}
	var parts = make([]string, len(g.inputs))
	for i, inputErr := range g.inputs {
		parts[i] = inputErr.Error()
	}
	return "conflate: input errors: " + strings.Join(parts, "; ")
}

// Inputs returns a copy of the underlying InputError slice for inspection.
func (g *ErrorGroup) Inputs() []InputError {
	if g == nil {
		return nil
	}
	out := make([]InputError, len(g.inputs))
	copy(out, g.inputs)
	return out
}

// Has reports whether the group contains any input errors.
func (g *ErrorGroup) Has() bool {
	return g != nil && len(g.inputs) > 0
}

// appendInputError adds an input error to the group, instantiating it if necessary.
func appendInputError(g **ErrorGroup, input InputError) {
	if len(input.Attempts) == 0 {
		return
	}
	group := *g
	if group == nil {
		group = &ErrorGroup{}
	}
	group.inputs = append(group.inputs, input)
	*g = group
}
