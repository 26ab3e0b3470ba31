package main

import (
	"fmt"
	"os"

	"github.com/loda-lang/formula-analyzer/internal/denylist"
	"github.com/loda-lang/formula-analyzer/internal/report"
	"github.com/spf13/cobra"
)

func runDenylistSuggest(cmd *cobra.Command, args []string) error {
	mf, err := report.ReadMismatches(args[0])
	if err != nil {
		return err
	}
	oeis, loda := report.DenylistCandidates(mf.Mismatches)
	data, err := denylist.Encode(oeis, loda)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write denylist: %w", err)
	}
	return nil
}
