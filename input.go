package conflate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// InputSpec describes where one merge input comes from and how to decode it.
// Specs are written as space-separated key:value pairs (`path:base.yaml`,
// `env:APP_CONF format:json`, `provider:prod/app backend:vault`); values may
// be quoted. A spec string without any colon is shorthand for path:.
type InputSpec struct {
	Path        string
	EnvKey      string
	ProviderKey string
	BackendName string
	Format      string
}

// ParseInputSpec parses the spec syntax accepted by the -d/--data flag.
func ParseInputSpec(raw string) (InputSpec, error) {
	if raw == "" {
		return InputSpec{}, fmt.Errorf("conflate: empty input spec")
	}
	if !strings.ContainsRune(raw, ':') {
		return InputSpec{Path: raw}, nil
	}
	var (
		spec       InputSpec
		keyBuilder strings.Builder
		valBuilder strings.Builder
		currentKey string
		state      = stateKey
		quote      rune
		escape     bool
	)

	commit := func() error {
		if currentKey == "" {
			return fmt.Errorf("conflate: missing key before value %q", valBuilder.String())
		}
		value := valBuilder.String()
		valBuilder.Reset()
		if err := spec.assign(currentKey, value); err != nil {
			return err
		}
		currentKey = ""
		state = stateKey
		return nil
	}

	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		i += size

		switch state {
		case stateKey:
			if unicode.IsSpace(r) {
				continue
			}
			if r == ':' {
				currentKey = strings.ToLower(strings.TrimSpace(keyBuilder.String()))
				if currentKey == "" {
					return InputSpec{}, fmt.Errorf("conflate: empty spec key")
				}
				keyBuilder.Reset()
				state = statePreValue
				continue
			}
			keyBuilder.WriteRune(r)

		case statePreValue:
			if unicode.IsSpace(r) {
				continue
			}
			if r == '"' || r == '\'' {
				quote = r
				state = stateValueQuoted
				continue
			}
			valBuilder.WriteRune(r)
			state = stateValue

		case stateValue:
			if unicode.IsSpace(r) {
				if err := commit(); err != nil {
					return InputSpec{}, err
				}
				continue
			}
			valBuilder.WriteRune(r)

		case stateValueQuoted:
			if escape {
				valBuilder.WriteRune(r)
				escape = false
				continue
			}
			if r == '\\' {
				escape = true
				continue
			}
			if r == quote {
				quote = 0
				if err := commit(); err != nil {
					return InputSpec{}, err
				}
				continue
			}
			valBuilder.WriteRune(r)
		}
	}

	switch state {
	case stateKey:
		if keyBuilder.Len() != 0 {
			return InputSpec{}, fmt.Errorf("conflate: dangling key %q", keyBuilder.String())
		}
	case statePreValue:
		return InputSpec{}, fmt.Errorf("conflate: key %q missing value", currentKey)
	case stateValue:
		if err := commit(); err != nil {
			return InputSpec{}, err
		}
	case stateValueQuoted:
		return InputSpec{}, fmt.Errorf("conflate: unterminated quoted value for key %q", currentKey)
	}

	if spec.Path == "" && spec.EnvKey == "" && spec.ProviderKey == "" {
		return InputSpec{}, fmt.Errorf("conflate: input spec names no path, env, or provider")
	}
	return spec, nil
}

func (s *InputSpec) assign(key, value string) error {
	switch key {
	case "path":
		s.Path = value
	case "env":
		s.EnvKey = value
	case "provider":
		s.ProviderKey = value
	case "backend":
		s.BackendName = value
	case "format":
		s.Format = strings.ToLower(value)
	default:
		return fmt.Errorf("conflate: unknown spec key %q", key)
	}
	return nil
}

const (
	stateKey = iota
	statePreValue
	stateValue
	stateValueQuoted
)
