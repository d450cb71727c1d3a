package core

import (
	"context"
	"fmt"

	"estatecore/internal/blob"
	"estatecore/internal/infra/persistence/badger"
	blobsnapshot "estatecore/internal/infra/persistence/blob"
	"estatecore/internal/infra/persistence/memory"
	"estatecore/internal/infra/persistence/postgres"
	"estatecore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageBadger   StorageDriver = "badger"   // embedded badger key-value directory
	StorageBlob     StorageDriver = "blob"     // versioned snapshots in a blob store
)

// StorageConfig selects and configures the persistence driver.
type StorageConfig struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
	BadgerDir   string
	// SnapshotKey names the snapshot row (postgres) or series (blob).
	SnapshotKey string
	Blob        blob.Config
	BlobRetain  int
}

// OpenPersistentStore opens the configured driver and loads its last
// snapshot. An empty driver selects sqlite.
func OpenPersistentStore(ctx context.Context, cfg StorageConfig, engine *RulesEngine, opts ...memory.Option) (PersistentStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(engine, opts...), nil
	case StorageSQLite:
		return sqlite.NewStore(cfg.SQLitePath, engine, opts...)
	case StoragePostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres driver requires a dsn")
		}
		return postgres.NewStore(ctx, cfg.PostgresDSN, cfg.SnapshotKey, engine, opts...)
	case StorageBadger:
		return badger.NewStore(cfg.BadgerDir, engine, opts...)
	case StorageBlob:
		blobs, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		snapOpts := []blobsnapshot.Option{blobsnapshot.WithMemoryOptions(opts...)}
		if cfg.BlobRetain != 0 {
			snapOpts = append(snapOpts, blobsnapshot.WithRetain(cfg.BlobRetain))
		}
		return blobsnapshot.NewStore(ctx, blobs, cfg.SnapshotKey, engine, snapOpts...)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
