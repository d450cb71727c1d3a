package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"estatecore/pkg/domain"
)

func TestSQLiteStorePersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if store.Path() != path {
		t.Fatalf("unexpected path %s", store.Path())
	}
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateZone(domain.Zone{Base: domain.Base{ID: "z1"}, Name: "New Cairo"}); err != nil {
			return err
		}
		_, err := tx.CreateProperty(domain.Property{Base: domain.Base{ID: "p1"}, Title: "Villa", ZoneID: "z1"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	if got := len(reloaded.ListProperties()); got != 1 {
		t.Fatalf("expected 1 property, got %d", got)
	}
	zone, ok := reloaded.GetZone("z1")
	if !ok || zone.Properties != 1 {
		t.Fatalf("expected zone count restored, got %+v", zone)
	}
}

func TestSQLiteStoreFailedTransactionDoesNotPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.DeleteZone("missing")
	}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed transaction must not write a snapshot")
	}
}

func TestSQLiteStoreImportWritesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	snapshot := domain.Snapshot{Users: []domain.User{{Base: domain.Base{ID: "u1"}, Name: "Sara", Role: domain.RoleSalesRep}}}
	if err := store.ImportState(context.Background(), snapshot); err != nil {
		t.Fatalf("import: %v", err)
	}
	_ = store.Close()
	reloaded, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	if users := reloaded.ListUsers(); len(users) != 1 || users[0].Name != "Sara" {
		t.Fatalf("expected imported user, got %+v", users)
	}
}
