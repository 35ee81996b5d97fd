package conflate

import "strings"

// Option configures the Loader.
type Option func(*Loader)

// WithProvider registers a provider under the supplied name so input specs
// can reference it via the `backend:` key.
func WithProvider(name string, provider Provider) Option {
	return func(l *Loader) {
		if name == "" || provider == nil {
			return
		}
		if l.providers == nil {
			l.providers = make(map[string]Provider)
		}
		l.providers[strings.ToLower(name)] = provider
	}
}

// WithDefaultProvider picks which registered provider should be used when an
// input spec does not specify a backend explicitly.
func WithDefaultProvider(name string) Option {
	return func(l *Loader) {
		l.defaultProvider = strings.ToLower(name)
	}
}

// WithEnvLookup overrides the environment variable lookup strategy.
func WithEnvLookup(fn EnvLookupFunc) Option {
	return func(l *Loader) {
		if fn != nil {
			l.envLookup = fn
		}
	}
}

// WithDispatcher supplies a custom format Dispatcher, for example one whose
// formats carry non-default dump options.
func WithDispatcher(d *Dispatcher) Option {
	return func(l *Loader) {
		if d != nil {
			l.dispatcher = d
		}
	}
}

// WithDefaultFormat overrides the format assumed for payloads that arrive
// without one: environment and provider payloads whose input spec has no
// `format:` key (default json). File payloads infer their format from the
// file extension instead.
func WithDefaultFormat(name string) Option {
	return func(l *Loader) {
		l.defaultFormat = strings.ToLower(name)
	}
}

// WithOverride switches the loader's fold to the override merge policy.
func WithOverride() Option {
	return func(l *Loader) {
		l.merger = NewMerger(WithMergerOverride())
	}
}

// WithMerger supplies a fully configured Merger for the loader's fold.
func WithMerger(m *Merger) Option {
	return func(l *Loader) {
		if m != nil {
			l.merger = m
		}
	}
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithMergerOverride selects the override policy: sequences and scalars are
// replaced wholesale by the right operand, mappings still merge recursively.
func WithMergerOverride() MergerOption {
	return func(m *Merger) {
		m.override = true
	}
}

// WithoutDeduplication disables sequence deduplication under the extend
// policy. It has no effect under override, which never element-merges.
func WithoutDeduplication() MergerOption {
	return func(m *Merger) {
		m.deduplicate = false
	}
}
