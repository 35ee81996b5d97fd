// Package conflate combines independently parsed data documents (mappings,
// sequences, scalars) into one merged document under a choice of two merge
// policies. The extend policy deep-merges mappings, concatenates sequences
// with deduplication, and fails fast on mapping/non-mapping conflicts; the
// override policy lets the last writer win for sequences and scalars while
// still recursing into mappings.
//
// Documents come from local files (CSV, JSON, YAML, or raw text, chosen by
// extension or explicit name), environment variables, or external secret
// stores such as AWS Secrets Manager, HashiCorp Vault, or Google Secret
// Manager. A Loader resolves each input, decodes it through the format
// Dispatcher, and folds the resulting trees through a Merger.
//
// Example:
//
//	loader := conflate.New(conflate.WithProvider("vault", vaultProvider))
//	merged, err := loader.Load(ctx,
//	    "path:base.yaml",
//	    "env:APP_OVERLAY format:json",
//	    "provider:prod/app-overrides backend:vault",
//	)
//	if err != nil {
//	    var group *conflate.ErrorGroup
//	    if errors.As(err, &group) {
//	        log.Println(group)
//	    }
//	}
package conflate
