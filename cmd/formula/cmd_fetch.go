package main

import (
	"fmt"
	"strings"

	"github.com/loda-lang/formula-analyzer/internal/fetch"
	"github.com/spf13/cobra"
)

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	lodaHome, _ := f.GetString("loda-home")
	force, _ := f.GetBool("force")
	dryRun, _ := f.GetBool("dry-run")

	rep, err := fetch.Prepare(cmd.Context(), fetch.Options{
		DataDir:  cfg.Data.Dir,
		LodaHome: lodaHome,
		Force:    force,
		DryRun:   dryRun,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(rep.Created) > 0 {
		fmt.Fprintln(w, "Prepared data files:")
		for _, p := range rep.Created {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	if len(rep.Commands) > 0 {
		fmt.Fprintln(w, "Commands:")
		for _, c := range rep.Commands {
			fmt.Fprintf(w, "  $ %s\n", strings.Join(c, " "))
		}
	}
	for _, s := range rep.Skipped {
		fmt.Fprintf(w, "  . %s\n", s)
	}
	return nil
}
