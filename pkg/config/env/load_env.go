// Package env loads process environment from .env files.
package env

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the file named by ENV_PATH, or from
// defaultPath when ENV_PATH is unset. A missing file is an error only for the
// local environment (env "" or "local").
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		slog.Debug("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		if env == "local" || env == "" {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
		slog.Debug("Skipping .env ...", "path", envPath)
	}
	return nil
}
