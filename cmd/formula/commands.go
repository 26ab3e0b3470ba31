package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/loda-lang/formula-analyzer/internal/config"
	"github.com/loda-lang/formula-analyzer/pkg/config/env"
	"github.com/spf13/cobra"
)

// errMismatches makes the process exit with status 1 after the report has
// already been printed.
var errMismatches = errors.New("formulas disagree with known terms")

var (
	logLevel   string
	configPath string

	rootCmd = &cobra.Command{
		Use:           "formula",
		Short:         "Extract, parse and validate closed-form sequence formulas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			slog.SetLogLoggerLevel(level)
			if err := env.LoadDotEnv(os.Getenv("APP_ENV"), ".env"); err != nil {
				slog.Debug("Skipping .env ...", "error", err)
			}
			return nil
		},
	}

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate every parsed formula against the known terms of its sequence",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}

	annotateCmd = &cobra.Command{
		Use:   "annotate",
		Short: "Write copies of the formula files with parsed lines marked",
		Args:  cobra.NoArgs,
		RunE:  runAnnotate,
	}

	fetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Download or regenerate missing data files",
		Args:  cobra.NoArgs,
		RunE:  runFetch,
	}

	evalCmd = &cobra.Command{
		Use:   "eval <expression> [n...]",
		Short: "Evaluate an expression exactly at the given n (default 0..9)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEval,
	}

	denylistCmd = &cobra.Command{
		Use:   "denylist",
		Short: "Maintain the list of sequences excluded from validation",
	}

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the run config file",
		Args:  cobra.NoArgs,
		RunE:  runSchema,
	}

	denylistSuggestCmd = &cobra.Command{
		Use:   "suggest <mismatches.yaml>",
		Short: "Print a denylist covering every sequence in a mismatch export",
		Args:  cobra.ExactArgs(1),
		RunE:  runDenylistSuggest,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "run config YAML (defaults are used when empty)")

	f := validateCmd.Flags()
	f.String("data-dir", "", "data directory")
	f.String("denylist", "", "denylist YAML (embedded list when empty)")
	f.StringSlice("source", nil, "formula sources to validate: loda, oeis")
	f.Int("workers", 0, "concurrent formula evaluations (0 = NumCPU)")
	f.Int("max-terms", 0, "terms kept per sequence (0 = all)")
	f.Int("max-indices", 0, "indices checked per formula (0 = all)")
	f.String("json", "", "write the JSON report to this path")
	f.String("mismatches", "", "write mismatched formulas as YAML to this path")
	f.String("sink", "", "result sink: none, pg, es, in_mem")

	f = annotateCmd.Flags()
	f.String("data-dir", "", "data directory")
	f.String("out-dir", "results", "directory for parsed-formulas-*.txt")

	f = fetchCmd.Flags()
	f.String("data-dir", "", "data directory")
	f.String("loda-home", "", "LODA installation (default $HOME/loda)")
	f.Bool("force", false, "regenerate files that already exist")
	f.Bool("dry-run", false, "print the planned actions without running them")

	denylistSuggestCmd.Flags().String("out", "", "write the denylist here instead of stdout")
	schemaCmd.Flags().String("out", "", "write the schema here instead of stdout")

	denylistCmd.AddCommand(denylistSuggestCmd)
	rootCmd.AddCommand(validateCmd, annotateCmd, fetchCmd, evalCmd, denylistCmd, schemaCmd)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// loadRunConfig reads --config and applies the flags the user set on cmd.
func loadRunConfig(cmd *cobra.Command) (*config.RunConfig, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(configPath); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	str := func(name string, dst *string) {
		if f.Lookup(name) != nil && f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if f.Lookup(name) != nil && f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}

	str("data-dir", &cfg.Data.Dir)
	str("denylist", &cfg.Denylist)
	str("json", &cfg.Output.JSON)
	str("mismatches", &cfg.Output.Mismatches)
	str("sink", &cfg.Sink.Type)
	num("workers", &cfg.Validation.Workers)
	num("max-terms", &cfg.Validation.MaxTerms)
	num("max-indices", &cfg.Validation.MaxIndices)
	if f.Lookup("source") != nil && f.Changed("source") {
		cfg.Validation.Sources, _ = f.GetStringSlice("source")
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
