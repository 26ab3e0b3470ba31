package main

import (
	"errors"
	"log/slog"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errMismatches) {
			slog.Error("Command failed", "error", err)
		}
		os.Exit(1)
	}
}
