package conflate

import (
	"context"
	"errors"
	"testing"
)

type stubSource struct {
	value      string
	err        error
	identifier string
	source     ValueSource
}

func (s stubSource) Source() ValueSource { return s.source }
func (s stubSource) Identifier() string  { return s.identifier }
func (s stubSource) Fetch(context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.value, nil
}

func TestAttemptCollectorTryStopsOnSuccess(t *testing.T) {
	c := newAttemptCollector("env:FOO provider:bar")
	decodes := 0
	decode := func(string) error {
		decodes++
		return nil
	}

	srcs := []valueSource{
		stubSource{err: errors.New("boom"), identifier: "FOO", source: SourceEnv},
		stubSource{value: "payload", identifier: "vault:bar", source: SourceProvider},
	}

	var succeeded bool
	for _, src := range srcs {
		if c.try(context.Background(), src, decode) {
			succeeded = true
			break
		}
	}
	if !succeeded {
		t.Fatal("expected success from second source")
	}
	if decodes != 1 {
		t.Fatalf("expected one decode, got %d", decodes)
	}
}

func TestAttemptCollectorRecordsDecodeFailure(t *testing.T) {
	c := newAttemptCollector("env:FOO")
	decode := func(string) error { return errors.New("bad payload") }
	src := stubSource{value: "payload", identifier: "FOO", source: SourceEnv}
	if c.try(context.Background(), src, decode) {
		t.Fatal("expected decode failure")
	}
	result := c.result()
	if len(result.Attempts) != 1 || result.Attempts[0].Source != SourceDecoder {
		t.Fatalf("expected SourceDecoder attempt, got %+v", result.Attempts)
	}
}

func TestAttemptCollectorResultAddsSpecErrorWhenEmpty(t *testing.T) {
	c := newAttemptCollector("format:json")
	err := c.result()
	if len(err.Attempts) != 1 || err.Attempts[0].Source != SourceSpec {
		t.Fatalf("expected SourceSpec fallback, got %+v", err.Attempts)
	}
}
