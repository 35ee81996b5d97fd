package conflate

import "testing"

func TestParseInputSpecSuccess(t *testing.T) {
	spec, err := ParseInputSpec(`env:APP_CONF provider:app/conf backend:vault format:json`)
	if err != nil {
		t.Fatalf("ParseInputSpec error: %v", err)
	}
	if spec.EnvKey != "APP_CONF" {
		t.Fatalf("expected env key APP_CONF, got %s", spec.EnvKey)
	}
	if spec.ProviderKey != "app/conf" {
		t.Fatalf("expected provider key app/conf, got %s", spec.ProviderKey)
	}
	if spec.BackendName != "vault" {
		t.Fatalf("expected backend vault, got %s", spec.BackendName)
	}
	if spec.Format != "json" {
		t.Fatalf("expected format json, got %s", spec.Format)
	}
}

func TestParseInputSpecBarePathShorthand(t *testing.T) {
	spec, err := ParseInputSpec("configs/base.yaml")
	if err != nil {
		t.Fatalf("ParseInputSpec error: %v", err)
	}
	if spec.Path != "configs/base.yaml" {
		t.Fatalf("expected path shorthand, got %+v", spec)
	}
}

func TestParseInputSpecQuotedValue(t *testing.T) {
	spec, err := ParseInputSpec(`path:"my docs/base.yaml" format:yaml`)
	if err != nil {
		t.Fatalf("ParseInputSpec error: %v", err)
	}
	if spec.Path != "my docs/base.yaml" {
		t.Fatalf("expected quoted path preserved, got %q", spec.Path)
	}
}

func TestParseInputSpecUnknownKey(t *testing.T) {
	if _, err := ParseInputSpec(`env:FOO foo:bar`); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestParseInputSpecMissingValue(t *testing.T) {
	if _, err := ParseInputSpec(`env:`); err == nil {
		t.Fatal("expected error for key missing value")
	}
}

func TestParseInputSpecEmpty(t *testing.T) {
	if _, err := ParseInputSpec(""); err == nil {
		t.Fatal("expected error for empty spec")
	}
}

func TestParseInputSpecNoSource(t *testing.T) {
	if _, err := ParseInputSpec("format:json"); err == nil {
		t.Fatal("expected error when spec names no source")
	}
}

func TestParseInputSpecUnterminatedQuote(t *testing.T) {
	if _, err := ParseInputSpec(`path:"unterminated`); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}
