package conflate

import (
	"context"
	"errors"
)

type valueSource interface {
	Source() ValueSource
	Identifier() string
	Fetch(ctx context.Context) (string, error)
}

type attemptCollector struct {
	input    string
	attempts []AttemptError
}

func newAttemptCollector(input string) *attemptCollector {
	return &attemptCollector{input: input}
}

func (c *attemptCollector) try(ctx context.Context, src valueSource, decode func(string) error) bool {
	raw, err := src.Fetch(ctx)
	if err != nil {
		c.fail(src.Source(), src.Identifier(), err)
		return false
	}
	if err := decode(raw); err != nil {
		c.fail(SourceDecoder, src.Identifier(), err)
		return false
	}
	return true
}

func (c *attemptCollector) fail(source ValueSource, identifier string, err error) {
	c.attempts = append(c.attempts, AttemptError{
		Source:     source,
		Identifier: identifier,
		Err:        err,
	})
}

func (c *attemptCollector) result() *InputError {
	if len(c.attempts) == 0 {
		c.fail(SourceSpec, "", errors.New("no env, provider, or file attempts recorded"))
	}
	return &InputError{
		Input:    c.input,
		Attempts: c.attempts,
	}
}
