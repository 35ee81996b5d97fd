// Command conflate merges configuration documents from files, environment
// variables, and secret providers into a single document on stdout or disk.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	vaultapi "github.com/hashicorp/vault/api"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/djbozjr/conflate"
	"github.com/djbozjr/conflate/providers/awssm"
	"github.com/djbozjr/conflate/providers/vault"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		handleError(err)
		os.Exit(1)
	}
}

type rootOptions struct {
	inputs        []string
	override      bool
	output        string
	outputFormat  string
	defaultFormat string
	indent        int
	flowStyle     bool
	listup        bool
	sortKeys      bool
	fields        []string
	delimiter     string
	crlf          bool
	logLevel      string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{
		defaultFormat: "json",
		indent:        2,
		logLevel:      "warn",
	}
	cmd := &cobra.Command{
		Use:           "conflate",
		Short:         "Merge configuration documents from files, env vars, and secret stores",
		Long: `conflate resolves each --data input spec against its sources (environment
variable, secret provider, file), decodes the payloads, and folds the
resulting documents into one merged document.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.inputs, "data", "d", nil, "Input spec (repeatable): a path, or key:value pairs like 'env:APP_CONF provider:prod/app format:yaml'")
	cmd.Flags().BoolVar(&opts.override, "override", false, "Replace sequences and scalars wholesale instead of extending them")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the merged document to this file instead of stdout")
	cmd.Flags().StringVar(&opts.outputFormat, "format", "", "Output format (yaml, json, csv, raw); defaults to the output file extension, or yaml on stdout")
	cmd.Flags().StringVar(&opts.defaultFormat, "default-format", opts.defaultFormat, "Decode format assumed for env and provider payloads without an explicit format key")
	cmd.Flags().IntVar(&opts.indent, "indent", opts.indent, "Indent width for yaml and json output")
	cmd.Flags().BoolVar(&opts.flowStyle, "flow", false, "Emit yaml in flow style")
	cmd.Flags().BoolVar(&opts.listup, "listup", false, "CSV output: scan every row for the full column set")
	cmd.Flags().StringSliceVar(&opts.fields, "fields", nil, "CSV output: explicit column order")
	cmd.Flags().BoolVar(&opts.sortKeys, "sort-keys", false, "CSV output: sort columns even when --fields supplies an order")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", "", "CSV delimiter character")
	cmd.Flags().BoolVar(&opts.crlf, "crlf", false, "CSV output: terminate records with CRLF")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "Log level (debug, info, warn, error)")
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func runMerge(cmd *cobra.Command, opts *rootOptions) error {
	if len(opts.inputs) == 0 {
		return errors.New("at least one --data input spec is required")
	}
	logger, err := buildLogger(opts.logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	dispatcher, err := buildDispatcher(opts)
	if err != nil {
		return err
	}
	loaderOpts := []conflate.Option{
		conflate.WithDispatcher(dispatcher),
		conflate.WithDefaultFormat(opts.defaultFormat),
	}
	if opts.override {
		loaderOpts = append(loaderOpts, conflate.WithOverride())
	}
	loaderOpts = append(loaderOpts, providerOptions(cmd.Context(), logger)...)

	loader := conflate.New(loaderOpts...)
	logger.Debug("loading inputs", zap.Strings("specs", opts.inputs), zap.Bool("override", opts.override))
	merged, err := loader.Load(cmd.Context(), opts.inputs...)
	if err != nil {
		return err
	}

	if opts.output != "" {
		return dispatcher.DumpFile(opts.output, merged, opts.outputFormat)
	}
	name := opts.outputFormat
	if name == "" {
		name = "yaml"
	}
	return dispatcher.Dump(cmd.OutOrStdout(), merged, name)
}

// buildDispatcher translates the CLI's output flags into per-format options.
func buildDispatcher(opts *rootOptions) (*conflate.Dispatcher, error) {
	var yamlOpts []conflate.YAMLOption
	if opts.flowStyle {
		yamlOpts = append(yamlOpts, conflate.WithFlowStyle())
	}
	if opts.indent > 0 {
		yamlOpts = append(yamlOpts, conflate.WithYAMLIndent(opts.indent))
	}
	var csvOpts []conflate.CSVOption
	if opts.listup {
		csvOpts = append(csvOpts, conflate.WithListup())
	}
	if len(opts.fields) > 0 {
		csvOpts = append(csvOpts, conflate.WithFields(opts.fields...))
	}
	if opts.sortKeys {
		csvOpts = append(csvOpts, conflate.WithSortedFields())
	}
	if opts.delimiter != "" {
		runes := []rune(opts.delimiter)
		if len(runes) != 1 {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", opts.delimiter)
		}
		csvOpts = append(csvOpts, conflate.WithDelimiter(runes[0]))
	}
	if opts.crlf {
		csvOpts = append(csvOpts, conflate.WithCRLF())
	}
	return conflate.NewDispatcher(
		conflate.WithFormat("yaml", conflate.NewYAMLFormat(yamlOpts...)),
		conflate.WithFormat("json", conflate.NewJSONFormat(conflate.WithJSONIndent(opts.indent))),
		conflate.WithFormat("csv", conflate.NewCSVFormat(csvOpts...)),
	), nil
}

// providerOptions registers secret providers for whichever backends the
// environment is configured for. Missing credentials are not an error; the
// provider is simply left unregistered and input specs naming it will report
// a provider attempt failure.
func providerOptions(ctx context.Context, logger *zap.Logger) []conflate.Option {
	var opts []conflate.Option
	if addr := os.Getenv(vaultapi.EnvVaultAddress); addr != "" {
		client, err := vaultapi.NewClient(vaultapi.DefaultConfig())
		if err != nil {
			logger.Warn("vault client unavailable", zap.Error(err))
		} else if provider, err := vault.FromClient(client, vaultMountPath()); err != nil {
			logger.Warn("vault provider unavailable", zap.Error(err))
		} else {
			opts = append(opts, conflate.WithProvider("vault", provider))
			logger.Debug("registered vault provider", zap.String("addr", addr))
		}
	}
	if region := awsRegion(); region != "" {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			logger.Warn("aws config unavailable", zap.Error(err))
		} else if provider, err := awssm.New(secretsmanager.NewFromConfig(cfg)); err != nil {
			logger.Warn("aws provider unavailable", zap.Error(err))
		} else {
			opts = append(opts, conflate.WithProvider("aws", provider))
			logger.Debug("registered aws provider", zap.String("region", region))
		}
	}
	return opts
}

func vaultMountPath() string {
	if mount := os.Getenv("CONFLATE_VAULT_MOUNT"); mount != "" {
		return mount
	}
	return "secret"
}

func awsRegion() string {
	if region := os.Getenv("AWS_REGION"); region != "" {
		return region
	}
	return os.Getenv("AWS_DEFAULT_REGION")
}

func buildLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info", "":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q (expected debug, info, warn, or error)", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func handleError(err error) {
	var group *conflate.ErrorGroup
	if errors.As(err, &group) {
		fmt.Fprintln(os.Stderr, "Error: some inputs could not be resolved:")
		for _, input := range group.Inputs() {
			fmt.Fprintf(os.Stderr, "  %s\n", input.Input)
			for _, attempt := range input.Attempts {
				fmt.Fprintf(os.Stderr, "    %s\n", attempt.Error())
			}
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}
