package conflate

import (
	"errors"
	"io/fs"
	"testing"
)

func TestErrorGroupInputsCopy(t *testing.T) {
	group := &ErrorGroup{}
	appendInputError(&group, InputError{
		Input: "env:DATABASE_URL",
		Attempts: []AttemptError{
			{Source: SourceEnv, Identifier: "DATABASE_URL", Err: errors.New("missing")},
		},
	})
	inputs := group.Inputs()
	if len(inputs) != 1 {
		t.Fatalf("expected 1 input error, got %d", len(inputs))
	}
	inputs[0].Input = "mutated"
	if group.Inputs()[0].Input != "env:DATABASE_URL" {
		t.Fatal("expected Inputs to return copy")
	}
	if !group.Has() {
		t.Fatal("expected Has to be true")
	}
}

func TestAttemptErrorString(t *testing.T) {
	err := AttemptError{
		Source:     SourceEnv,
		Identifier: "FOO",
		Err:        errors.New("boom"),
	}
	if err.Error() != "env (FOO): boom" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestAttemptErrorUnwrapsCause(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "x.yaml", Err: fs.ErrNotExist}
	err := AttemptError{Source: SourceFile, Identifier: "x.yaml", Err: cause}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatal("expected I/O cause to propagate through errors.Is")
	}
}

func TestMergeErrorString(t *testing.T) {
	err := &MergeError{Path: []string{"app", "db"}, Left: map[string]any{}, Right: 5}
	if err.Error() != "conflate: cannot merge mapping and non-mapping at app.db: left=map[], right=5" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}

	rootErr := &MergeError{Left: map[string]any{}, Right: 5}
	if rootErr.Error() != "conflate: cannot merge mapping and non-mapping at document root: left=map[], right=5" {
		t.Fatalf("unexpected root error string: %s", rootErr.Error())
	}
}

func TestFormatErrorString(t *testing.T) {
	err := &FormatError{Name: "toml"}
	if err.Error() != `conflate: unknown format "toml"` {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}
