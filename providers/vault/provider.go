// Package vault fetches merge input documents from a HashiCorp Vault KV v2
// mount. By default the whole secret data map is serialized to JSON, so a
// secret written as structured data arrives as a mapping tree once the
// loader decodes it.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	vaultapi "github.com/hashicorp/vault/api"
)

// KV is the subset of the Vault KV v2 interface the provider depends on.
type KV interface {
	Get(ctx context.Context, path string) (*vaultapi.KVSecret, error)
}

// Provider fetches documents from a Vault KV v2 mount.
type Provider struct {
	kv       KV
	field    string
	explicit bool
}

// Option configures the Vault provider.
type Option func(*Provider)

// WithField selects one key of the Vault data map whose string value is the
// serialized document. When omitted, the entire data map is serialized to
// JSON and returned as the document.
func WithField(field string) Option {
	return func(p *Provider) {
		p.field = field
		p.explicit = true
	}
}

// New creates a Vault provider using the given KV accessor.
func New(kv KV, opts ...Option) (*Provider, error) {
	if kv == nil {
		return nil, errors.New("vault: KV accessor is required")
	}
	p := &Provider{kv: kv}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// FromClient is a convenience helper that derives a KV accessor from a Vault
// client and mount path.
func FromClient(client *vaultapi.Client, mountPath string, opts ...Option) (*Provider, error) {
	if client == nil {
		return nil, errors.New("vault: client is required")
	}
	if mountPath == "" {
		mountPath = "secret"
	}
	return New(client.KVv2(mountPath), opts...)
}

// Fetch retrieves the document stored at the supplied path.
func (p *Provider) Fetch(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", errors.New("vault: secret path cannot be empty")
	}
	secret, err := p.kv.Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return "", errors.New("vault: secret contained no data")
	}
	return p.extract(secret.Data)
}

func (p *Provider) extract(data map[string]any) (string, error) {
	if len(data) == 0 {
		return "", errors.New("vault: secret data empty")
	}
	if p.explicit {
		value, ok := data[p.field]
		if !ok {
			return "", fmt.Errorf("vault: field %q not found", p.field)
		}
		return asString(value, p.field)
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("vault: marshal secret: %w", err)
	}
	return string(buf), nil
}

func asString(value any, field string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("vault: field %q is not a string", field)
	}
}
