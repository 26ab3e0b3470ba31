package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/loda-lang/formula-analyzer/internal/storage"
	"github.com/loda-lang/formula-analyzer/internal/storage/es"
	"github.com/loda-lang/formula-analyzer/internal/storage/pg"
	"github.com/loda-lang/formula-analyzer/pkg/stringsutil"
)

type SinkConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	Es *es.ClientConfig
}

// LoadEnv reads the sink settings from the environment. fallback is used
// when STORAGE_TYPE is unset; "none" disables persistence.
func LoadEnv(fallback storage.Type) (*SinkConfig, error) {
	sinkType := storage.Type(strings.TrimSpace(os.Getenv("STORAGE_TYPE")))
	if sinkType == "" {
		sinkType = fallback
	}
	if sinkType == "" || sinkType == storage.None {
		return &SinkConfig{Type: storage.None}, nil
	}
	if sinkType != storage.ES && sinkType != storage.PG && sinkType != storage.InMem {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", sinkType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			sinkType,
			storage.Types)
	}

	cfg := &SinkConfig{Type: sinkType}

	switch sinkType {
	case storage.ES:
		cfg.Es = &es.ClientConfig{
			Addresses: stringsutil.SplitNonEmpty(os.Getenv("ES_ADDRESSES"), ","),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if len(cfg.Es.Addresses) == 0 {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Es.Addresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: ES_ADDRESSES is missing")
		}
		if cfg.Es.IndexName == "" {
			cfg.Es.IndexName = es.DefaultIndexName
		}

	case storage.PG:
		cfg.Pg = &pg.PoolConfig{ConnStr: os.Getenv("PG_CONNECTION_STRING")}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	}

	return cfg, nil
}
