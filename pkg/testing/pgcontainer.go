package testing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:17.5"

type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

type PGConfig struct {
	Database string
	Username string
	Password string
}

// DefaultPGConfig is the database used by the result sink tests.
func DefaultPGConfig() PGConfig {
	return PGConfig{
		Database: "formula_test_db",
		Username: "test",
		Password: "test",
	}
}

// NewPGContainer starts Postgres with every db/migrations/*.up.sql applied.
func NewPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	script, err := writeInitScript()
	if err != nil {
		return nil, err
	}
	defer os.Remove(script)

	pgContainer, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		postgres.WithInitScripts(script),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PGContainer{Container: pgContainer, ConnString: connStr}, nil
}

// NewPGContainerWithCleanup skips t when no container provider is available.
func NewPGContainerWithCleanup(ctx context.Context, t *testing.T) *PGContainer {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	container, err := NewPGContainer(ctx, DefaultPGConfig())
	if err != nil {
		t.Fatalf("failed to create postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container.Container); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	return container
}

func migrationsDir() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "..", "..", "db", "migrations")
}

func writeInitScript() (string, error) {
	files, err := filepath.Glob(filepath.Join(migrationsDir(), "*.up.sql"))
	if err != nil {
		return "", fmt.Errorf("failed to find migration files: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no migrations found in %s", migrationsDir())
	}
	sort.Strings(files)

	var script strings.Builder
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("failed to read migration file %s: %w", f, err)
		}
		script.Write(content)
		script.WriteString(";\n\n")
	}

	tmp, err := os.CreateTemp("", "migrations-*.sql")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := tmp.WriteString(script.String()); err != nil {
		return "", fmt.Errorf("failed to write migrations: %w", err)
	}
	return tmp.Name(), nil
}
