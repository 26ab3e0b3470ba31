package main

import (
	"fmt"
	"os"

	"github.com/loda-lang/formula-analyzer/internal/config"
	"github.com/loda-lang/formula-analyzer/pkg/schema"
	"github.com/spf13/cobra"
)

const schemaBaseID = "https://schemas.loda-lang.org/formula-analyzer"

func runSchema(cmd *cobra.Command, _ []string) error {
	data, err := schema.NewGenerator(schemaBaseID).GenerateJSONSchema(config.RunConfig{})
	if err != nil {
		return err
	}
	data = append(data, '\n')

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}
