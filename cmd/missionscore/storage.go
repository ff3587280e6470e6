package main

import (
	"fmt"

	"github.com/OCAP2/missionscore/internal/config"
	"github.com/OCAP2/missionscore/internal/pipeline"
	"github.com/OCAP2/missionscore/internal/storage"
	sqlitestorage "github.com/OCAP2/missionscore/internal/storage/sqlite"
)

// createBackendFactory picks the ledger backend every run gets. SQLite
// databases are in-memory and named after the run, so runs never share one.
func createBackendFactory(storageCfg config.StorageConfig) (pipeline.BackendFactory, error) {
	switch storageCfg.Type {
	case "", "memory":
		return pipeline.MemoryBackend, nil
	case "sqlite":
		return func(runID string) (storage.Backend, error) {
			return sqlitestorage.New(AppName + "-" + runID)
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q (want memory or sqlite)", storageCfg.Type)
	}
}
