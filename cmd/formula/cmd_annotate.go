package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/loda-lang/formula-analyzer/internal/annotate"
	"github.com/loda-lang/formula-analyzer/internal/parser"
	"github.com/spf13/cobra"
)

func runAnnotate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	outDir, _ := cmd.Flags().GetString("out-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	a := annotate.New(parser.New(nil))
	for _, source := range cfg.Validation.SourceList() {
		out := filepath.Join(outDir, fmt.Sprintf("parsed-formulas-%s.txt", source))
		stats, err := a.AnnotateFile(cfg.Data.FormulasPath(source), out, source)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d formulas parsed successfully\n", source, stats.Parsed, stats.Total)
	}
	return nil
}
