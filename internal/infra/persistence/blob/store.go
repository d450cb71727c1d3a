// Package blob persists the in-memory store as versioned JSON documents in a
// blob store (local filesystem, S3/MinIO or memory). Each commit writes a new
// object; the newest one is loaded on start and older ones are pruned.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	blobstore "estatecore/internal/blob"
	"estatecore/internal/infra/persistence/memory"
	"estatecore/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

const (
	// DefaultKey names the snapshot series when none is configured.
	DefaultKey = "estatecore"
	// DefaultRetain is the number of snapshot objects kept per series.
	DefaultRetain = 5

	stampLayout = "20060102T150405.000000000Z"
)

// Option customises the blob snapshot store.
type Option func(*Store)

// WithRetain sets how many snapshot objects are kept. Values below one keep every object.
func WithRetain(n int) Option {
	return func(s *Store) { s.retain = n }
}

// WithMemoryOptions forwards options to the embedded memory store.
func WithMemoryOptions(opts ...memory.Option) Option {
	return func(s *Store) { s.memOpts = append(s.memOpts, opts...) }
}

// Store embeds the memory store and writes a snapshot object after each commit.
type Store struct {
	*memory.Store
	blobs   blobstore.Store
	prefix  string
	retain  int
	memOpts []memory.Option

	mu  sync.Mutex
	seq int
	now func() time.Time
}

// NewStore loads the newest snapshot under snapshots/<key>/ and returns the store.
func NewStore(ctx context.Context, blobs blobstore.Store, key string, engine *domain.RulesEngine, opts ...Option) (*Store, error) {
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		blobs:  blobs,
		prefix: "snapshots/" + key + "/",
		retain: DefaultRetain,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Store = memory.NewStore(engine, s.memOpts...)
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	infos, err := s.blobs.List(ctx, s.prefix)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	s.seq = len(infos)
	if len(infos) == 0 {
		return nil
	}
	latest := infos[len(infos)-1].Key
	_, rc, err := s.blobs.Get(ctx, latest)
	if err != nil {
		return fmt.Errorf("get snapshot %s: %w", latest, err)
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", latest, err)
	}
	snapshot, err := memory.DecodeSnapshot(payload)
	if err != nil {
		return err
	}
	return s.Store.ImportState(ctx, snapshot)
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := memory.EncodeSnapshot(s.ExportState())
	if err != nil {
		return err
	}
	s.seq++
	key := fmt.Sprintf("%s%s-%06d.json", s.prefix, s.now().Format(stampLayout), s.seq)
	if _, err := s.blobs.Put(ctx, key, bytes.NewReader(data), blobstore.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"kind": "snapshot"},
	}); err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return s.prune(ctx)
}

func (s *Store) prune(ctx context.Context) error {
	if s.retain < 1 {
		return nil
	}
	infos, err := s.blobs.List(ctx, s.prefix)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	for i := 0; i < len(infos)-s.retain; i++ {
		if _, err := s.blobs.Delete(ctx, infos[i].Key); err != nil {
			return fmt.Errorf("prune %s: %w", infos[i].Key, err)
		}
	}
	return nil
}

// RunInTransaction commits in memory, then writes a new snapshot object.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	return res, s.persist(ctx)
}

// ImportState replaces the state and writes it through.
func (s *Store) ImportState(ctx context.Context, snapshot domain.Snapshot) error {
	if err := s.Store.ImportState(ctx, snapshot); err != nil {
		return err
	}
	return s.persist(ctx)
}

// Snapshots lists the retained snapshot objects, oldest first.
func (s *Store) Snapshots(ctx context.Context) ([]blobstore.Info, error) {
	return s.blobs.List(ctx, s.prefix)
}

// Close releases nothing; the blob store is owned by the caller.
func (s *Store) Close() error { return nil }
