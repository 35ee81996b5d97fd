package conflate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Provider fetches serialized documents from an external system such as
// Vault, AWS Secrets Manager, or GCP Secret Manager. Custom providers can be
// registered with WithProvider.
type Provider interface {
	Fetch(ctx context.Context, key string) (string, error)
}

// EnvLookupFunc describes how to look up environment variables. Override with
// WithEnvLookup when running in custom environments.
type EnvLookupFunc func(string) (string, bool)

// Loader resolves input specs to document payloads, decodes them through the
// format Dispatcher, and folds the resulting trees into one merged document.
type Loader struct {
	envLookup       EnvLookupFunc
	providers       map[string]Provider
	defaultProvider string
	defaultFormat   string
	dispatcher      *Dispatcher
	merger          *Merger
}

// New constructs a Loader with optional functional options.
func New(opts ...Option) *Loader {
	l := &Loader{
		envLookup:       os.LookupEnv,
		providers:       make(map[string]Provider),
		defaultProvider: "aws",
		defaultFormat:   "json",
		dispatcher:      NewDispatcher(),
		merger:          NewMerger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves the input specs, decodes each payload into a data tree, and
// merges the trees under the configured policy. Inputs that cannot be
// resolved are reported together as an *ErrorGroup that can be inspected for
// per-input failures; a merge conflict surfaces immediately as a *MergeError
// with no partial result.
func (l *Loader) Load(ctx context.Context, specs ...string) (any, error) {
	trees, err := l.LoadTrees(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return l.merger.Merge(trees...)
}

// LoadTrees resolves and decodes the input specs without merging them.
func (l *Loader) LoadTrees(ctx context.Context, specs ...string) ([]any, error) {
	trees := make([]any, 0, len(specs))
	var group *ErrorGroup
	for _, raw := range specs {
		spec, err := ParseInputSpec(raw)
		if err != nil {
			appendInputError(&group, InputError{
				Input: raw,
				Attempts: []AttemptError{{
					Source: SourceSpec,
					Err:    err,
				}},
			})
			continue
		}
		tree, inputErr := l.resolveInput(ctx, raw, spec)
		if inputErr != nil {
			appendInputError(&group, *inputErr)
			continue
		}
		trees = append(trees, tree)
	}
	if group.Has() {
		return nil, group
	}
	return trees, nil
}

// Dispatcher exposes the loader's format dispatcher, so callers can dump the
// merged result with the same format configuration used for loading.
func (l *Loader) Dispatcher() *Dispatcher {
	return l.dispatcher
}

// resolveInput tries the spec's sources in precedence order until one yields
// a payload that decodes, recording every failed attempt along the way.
func (l *Loader) resolveInput(ctx context.Context, raw string, spec InputSpec) (any, *InputError) {
	collector := newAttemptCollector(raw)
	var tree any
	for _, src := range l.sourcesFor(spec) {
		if src == nil {
			continue
		}
		decode := func(payload string) error {
			decoded, err := l.decode(payload, spec, src)
			if err != nil {
				return err
			}
			tree = decoded
			return nil
		}
		if collector.try(ctx, src, decode) {
			return tree, nil
		}
	}
	return nil, collector.result()
}

func (l *Loader) decode(payload string, spec InputSpec, src valueSource) (any, error) {
	format, err := l.dispatcher.Format(l.formatFor(spec, src))
	if err != nil {
		return nil, err
	}
	return format.Load(strings.NewReader(payload))
}

// formatFor picks the decode format: the spec's explicit format wins, file
// payloads fall back to their extension, everything else uses the loader
// default.
func (l *Loader) formatFor(spec InputSpec, src valueSource) string {
	if spec.Format != "" {
		return spec.Format
	}
	if src.Source() == SourceFile {
		if name := l.dispatcher.FormatName(filepath.Ext(src.Identifier())); name != "" {
			return name
		}
		return "raw"
	}
	return l.defaultFormat
}
