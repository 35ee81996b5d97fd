package conflate

import (
	"context"
	"errors"
	"os"
	"strings"
)

type envSource struct {
	key    string
	lookup EnvLookupFunc
}

func (e envSource) Source() ValueSource {
	return SourceEnv
}

func (e envSource) Identifier() string {
	return e.key
}

func (e envSource) Fetch(context.Context) (string, error) {
	if value, ok := e.lookup(e.key); ok {
		return value, nil
	}
	return "", errors.New("not set")
}

type fileSource struct {
	path string
}

func (f fileSource) Source() ValueSource {
	return SourceFile
}

func (f fileSource) Identifier() string {
	return f.path
}

func (f fileSource) Fetch(context.Context) (string, error) {
	payload, err := os.ReadFile(f.path)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

type providerSource struct {
	identifier string
	fetchFunc  func(context.Context) (string, error)
}

func (p providerSource) Source() ValueSource {
	return SourceProvider
}

func (p providerSource) Identifier() string {
	return p.identifier
}

func (p providerSource) Fetch(ctx context.Context) (string, error) {
	return p.fetchFunc(ctx)
}

// sourcesFor lists the places a spec's payload may come from, in precedence
// order: environment, then provider, then file.
func (l *Loader) sourcesFor(spec InputSpec) []valueSource {
	var sources []valueSource
	if spec.EnvKey != "" {
		sources = append(sources, envSource{
			key:    spec.EnvKey,
			lookup: l.envLookup,
		})
	}
	if spec.ProviderKey != "" {
		sources = append(sources, l.newProviderSource(spec))
	}
	if spec.Path != "" {
		sources = append(sources, fileSource{path: spec.Path})
	}
	return sources
}

func (l *Loader) newProviderSource(spec InputSpec) valueSource {
	backendName := spec.BackendName
	if backendName == "" {
		backendName = l.defaultProvider
	}
	identifier := backendName
	if identifier == "" {
		identifier = "(default)"
	}
	provider := l.providers[strings.ToLower(backendName)]
	if provider == nil {
		return providerSource{
			identifier: identifier,
			fetchFunc: func(context.Context) (string, error) {
				return "", errors.New("provider not registered")
			},
		}
	}
	fullIdentifier := identifier + ":" + spec.ProviderKey
	return providerSource{
		identifier: fullIdentifier,
		fetchFunc: func(ctx context.Context) (string, error) {
			raw, err := provider.Fetch(ctx, spec.ProviderKey)
			if err != nil {
				return "", err
			}
			if raw == "" {
				return "", errors.New("empty document")
			}
			return raw, nil
		},
	}
}
