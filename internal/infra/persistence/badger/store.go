// Package badger persists the in-memory store as a single value in an
// embedded BadgerDB key-value store.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v3"

	"estatecore/internal/infra/persistence/memory"
	"estatecore/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// DefaultKey is the badger key holding the encoded snapshot.
const DefaultKey = "estatecore/snapshot"

// Store embeds the memory store and writes the snapshot through after each commit.
type Store struct {
	*memory.Store
	db  *badgerdb.DB
	mu  sync.Mutex
	dir string
	key []byte
}

// NewStore opens (or creates) a badger database in dir. An empty dir opens an
// in-memory database that is lost on Close.
func NewStore(dir string, engine *domain.RulesEngine, opts ...memory.Option) (*Store, error) {
	var bopts badgerdb.Options
	if dir == "" {
		bopts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create badger dir: %w", err)
		}
		bopts = badgerdb.DefaultOptions(dir)
	}
	db, err := badgerdb.Open(bopts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine, opts...), db: db, dir: dir, key: []byte(DefaultKey)}
	if err := s.load(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	var payload []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	snapshot, err := memory.DecodeSnapshot(payload)
	if err != nil {
		return err
	}
	return s.Store.ImportState(ctx, snapshot)
}

func (s *Store) persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := memory.EncodeSnapshot(s.ExportState())
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(s.key, data)
	}); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// RunInTransaction commits in memory, then writes the snapshot to badger.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	return res, s.persist()
}

// ImportState replaces the state and writes it through.
func (s *Store) ImportState(ctx context.Context, snapshot domain.Snapshot) error {
	if err := s.Store.ImportState(ctx, snapshot); err != nil {
		return err
	}
	return s.persist()
}

// Close flushes and closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Dir returns the database directory, empty for in-memory databases.
func (s *Store) Dir() string { return s.dir }
